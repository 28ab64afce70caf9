package goff

import (
	"io"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"goffas/pkg/mc"
)

// Writer is the GOFF object writer. Sections receive their ESDIDs as they
// are registered, so a parent always has one before its children.
type Writer struct {
	log       logrus.FieldLogger
	nextESDID uint32
	esdids    map[*mc.Section]uint32
}

var _ mc.ObjectWriter = (*Writer)(nil)

func NewWriter(log logrus.FieldLogger) *Writer {
	return &Writer{
		log:    log,
		esdids: make(map[*mc.Section]uint32),
	}
}

func (w *Writer) RegisterSection(sec *mc.Section) {
	w.nextESDID++
	w.esdids[sec] = w.nextESDID
}

// ESDID returns the id assigned to a registered section.
func (w *Writer) ESDID(sec *mc.Section) (uint32, bool) {
	id, ok := w.esdids[sec]
	return id, ok
}

// WriteObject writes HDR, the ESDs of sections then symbols, the section
// text and finally END.
func (w *Writer) WriteObject(out io.Writer, asm *mc.Assembler) (int64, error) {
	rw := newRecordWriter(out)

	w.writeHeader(rw)

	for _, sec := range asm.Sections {
		if err := w.writeSectionESD(rw, sec); err != nil {
			return rw.n, err
		}
	}

	defined := lo.Filter(asm.Symbols(), func(sym *mc.Symbol, _ int) bool {
		return sym.IsDefined()
	})
	references := lo.Filter(asm.Symbols(), func(sym *mc.Symbol, _ int) bool {
		return !sym.IsDefined() && sym.IsExternal()
	})
	esdid := w.nextESDID
	for _, sym := range defined {
		esdid++
		if err := w.writeLabelESD(rw, sym, esdid); err != nil {
			return rw.n, err
		}
	}
	for _, sym := range references {
		esdid++
		if err := w.writeReferenceESD(rw, sym, esdid); err != nil {
			return rw.n, err
		}
	}

	for _, sec := range asm.Sections {
		w.writeText(rw, sec)
	}

	w.writeEnd(rw)

	w.log.WithFields(logrus.Fields{
		"records":  rw.records,
		"sections": len(asm.Sections),
		"symbols":  esdid - w.nextESDID,
		"bytes":    rw.n,
	}).Debug("Wrote GOFF object")
	return rw.n, rw.err
}

func (w *Writer) writeHeader(rw *recordWriter) {
	rw.writeRecord(RecordHDR, HDRPayload{ArchLevel: 1}, nil)
}

func (w *Writer) writeEnd(rw *recordWriter) {
	// The END record counts itself.
	rw.writeRecord(RecordEND, ENDPayload{RecordCount: rw.records + 1}, nil)
}

func executable(sec *mc.Section) uint8 {
	if sec.Executable {
		return ExecutableInstr
	}
	return ExecutableData
}

func (w *Writer) parentESDID(sec *mc.Section) (uint32, error) {
	if sec.Parent == nil {
		return 0, nil
	}
	id, ok := w.esdids[sec.Parent]
	if !ok {
		return 0, errors.Errorf("section %q registered before its parent %q", sec.ID, sec.Parent.ID)
	}
	return id, nil
}

func (w *Writer) writeSectionESD(rw *recordWriter, sec *mc.Section) error {
	parent, err := w.parentESDID(sec)
	if err != nil {
		return err
	}
	name, err := encodeName(sec.Name)
	if err != nil {
		return errors.Wrapf(err, "section %q", sec.ID)
	}
	if sec.Alignment > MaxAlignment {
		return errors.Errorf("section %q: alignment 2^%d is too large", sec.ID, sec.Alignment)
	}

	esd := ESDPayload{
		ESDID:       w.esdids[sec],
		ParentESDID: parent,
		NameLength:  uint16(len(name)),
	}

	switch sec.Kind {
	case mc.SectionSD:
		esd.SymbolType = ESDTypeSD
		if sec.Size() != 0 {
			return errors.Errorf("section %q: SD sections cannot hold data", sec.ID)
		}
	case mc.SectionED:
		esd.SymbolType = ESDTypeED
		esd.Length = uint32(sec.Size())
		esd.NameSpaceID = NameSpaceNormalName
		esd.Flags2 = FlagFillBytePresent
		esd.AMode = AMode64
		esd.RMode = RMode64
		esd.Flags3 = TextStyleByte<<4 | BindingAlgorithmConcat
		esd.Flags4 = executable(sec)
		if sec.ReadOnly {
			esd.Flags4 |= FlagReadOnly
		}
		esd.Flags6 = uint8(sec.Loading) << 6
		esd.Flags7 = sec.Alignment
	case mc.SectionPR:
		esd.SymbolType = ESDTypePR
		esd.Length = uint32(sec.Size())
		esd.NameSpaceID = NameSpaceParts
		esd.Flags2 = FlagRenamable
		esd.Flags4 = executable(sec)
		esd.Flags6 = BindingScopeSection
		esd.Flags7 = sec.Alignment
	default:
		return errors.Errorf("section %q: unknown kind %d", sec.ID, sec.Kind)
	}

	rw.writeRecord(RecordESD, esd, name)
	return rw.err
}

func bindingScope(sym *mc.Symbol) uint8 {
	switch {
	case !sym.IsExternal():
		return BindingScopeSection
	case sym.IsHidden():
		return BindingScopeLibrary
	default:
		return BindingScopeImportExport
	}
}

func bindingStrength(sym *mc.Symbol) uint8 {
	if sym.IsWeak() {
		return BindingStrengthWeak
	}
	return BindingStrengthStrong
}

func (w *Writer) writeLabelESD(rw *recordWriter, sym *mc.Symbol, esdid uint32) error {
	if !sym.AttributesInitialized() {
		return errors.Errorf("symbol %q: attributes read before the label was emitted", sym.Name)
	}
	sec := sym.Section()
	parent, ok := w.esdids[sec]
	if !ok {
		return errors.Errorf("symbol %q: section %q is not registered", sym.Name, sec.ID)
	}
	name, err := encodeName(sym.Name)
	if err != nil {
		return errors.Wrapf(err, "symbol %q", sym.Name)
	}

	esd := ESDPayload{
		SymbolType:  ESDTypeLD,
		ESDID:       esdid,
		ParentESDID: parent,
		Offset:      uint32(sym.Offset()),
		NameSpaceID: NameSpaceNormalName,
		Flags2:      FlagRenamable,
		Flags4:      executable(sec),
		Flags5:      bindingStrength(sym),
		Flags6:      bindingScope(sym),
		NameLength:  uint16(len(name)),
	}
	if sec.Executable {
		esd.AMode = AMode64
	}

	rw.writeRecord(RecordESD, esd, name)
	return rw.err
}

func (w *Writer) writeReferenceESD(rw *recordWriter, sym *mc.Symbol, esdid uint32) error {
	name, err := encodeName(sym.Name)
	if err != nil {
		return errors.Wrapf(err, "symbol %q", sym.Name)
	}

	esd := ESDPayload{
		SymbolType:  ESDTypeER,
		ESDID:       esdid,
		NameSpaceID: NameSpaceNormalName,
		Flags2:      FlagRenamable,
		Flags4:      ExecutableUnspecified,
		Flags5:      bindingStrength(sym),
		Flags6:      bindingScope(sym),
		NameLength:  uint16(len(name)),
	}

	rw.writeRecord(RecordESD, esd, name)
	return rw.err
}

func (w *Writer) writeText(rw *recordWriter, sec *mc.Section) {
	if sec.Size() == 0 {
		return
	}
	contents := sec.Contents()
	for offset := 0; offset < len(contents); offset += maxTXTDataLength {
		data := contents[offset:min(offset+maxTXTDataLength, len(contents))]
		txt := TXTPayload{
			Flags:        TextStyleByte,
			ElementESDID: w.esdids[sec],
			Offset:       uint32(offset),
			DataLength:   uint16(len(data)),
		}
		rw.writeRecord(RecordTXT, txt, data)
	}
}
