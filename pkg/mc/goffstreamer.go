package mc

import "github.com/sirupsen/logrus"

// GOFFStreamer adapts the generic pipeline to GOFF: the section hierarchy is
// registered top-down and linkage attributes are translated to the flags the
// GOFF writer understands.
type GOFFStreamer struct {
	*ObjectStreamer
}

var _ Streamer = (*GOFFStreamer)(nil)

func NewGOFFStreamer(asm *Assembler) *GOFFStreamer {
	return &GOFFStreamer{ObjectStreamer: NewObjectStreamer(asm)}
}

// Make sure that all sections are registered in the correct order.
// The parent chain must be acyclic.
func registerSectionHierarchy(asm *Assembler, sec *Section) {
	if sec.IsRegistered() {
		return
	}
	if sec.Parent != nil {
		registerSectionHierarchy(asm, sec.Parent)
	}
	asm.RegisterSection(sec)
}

func (g *GOFFStreamer) ChangeSection(sec *Section, subsection uint32) {
	registerSectionHierarchy(g.asm, sec)
	g.ObjectStreamer.ChangeSection(sec, subsection)
}

func (g *GOFFStreamer) EmitLabel(sym *Symbol) error {
	if err := g.ObjectStreamer.EmitLabel(sym); err != nil {
		return err
	}
	sym.InitAttributes()
	return nil
}

// EmitSymbolAttribute reports false, without touching sym, for attributes
// GOFF cannot express.
func (g *GOFFStreamer) EmitSymbolAttribute(sym *Symbol, attr SymbolAttr) bool {
	switch attr {
	case SymbolAttrInvalid,
		SymbolAttrCold,
		SymbolAttrELFTypeFunction,
		SymbolAttrELFTypeIndFunction,
		SymbolAttrELFTypeObject,
		SymbolAttrELFTypeTLS,
		SymbolAttrELFTypeCommon,
		SymbolAttrELFTypeNoType,
		SymbolAttrELFTypeGnuUniqueObject,
		SymbolAttrLGlobal,
		SymbolAttrExtern,
		SymbolAttrExported,
		SymbolAttrIndirectSymbol,
		SymbolAttrInternal,
		SymbolAttrLazyReference,
		SymbolAttrNoDeadStrip,
		SymbolAttrSymbolResolver,
		SymbolAttrAltEntry,
		SymbolAttrPrivateExtern,
		SymbolAttrProtected,
		SymbolAttrReference,
		SymbolAttrWeakDefinition,
		SymbolAttrWeakDefAutoPrivate,
		SymbolAttrWeakAntiDep,
		SymbolAttrMemtag:
		g.log.WithFields(logrus.Fields{
			"symbol":    sym.Name,
			"attribute": attr,
		}).Debug("Attribute not representable in GOFF")
		return false

	case SymbolAttrGlobal:
		sym.SetExternal(true)
	case SymbolAttrLocal:
		sym.SetExternal(false)
	case SymbolAttrWeak, SymbolAttrWeakReference:
		sym.SetExternal(true)
		sym.SetWeak()
	case SymbolAttrHidden:
		sym.SetHidden(true)

	default:
		return false
	}

	return true
}
