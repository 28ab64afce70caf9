package mc

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Streamer receives the directive events of one compilation unit, in source
// order.
type Streamer interface {
	ChangeSection(sec *Section, subsection uint32)
	CurrentSection() (*Section, uint32)
	EmitLabel(sym *Symbol) error
	EmitSymbolAttribute(sym *Symbol, attr SymbolAttr) bool
	EmitBytes(data []byte) error
	EmitFill(n uint64, value byte) error
	Finish(w io.Writer) (int64, error)
}

// ObjectStreamer is the format independent part of the pipeline: it keeps
// the output cursor and fills section fragments.
type ObjectStreamer struct {
	asm *Assembler
	log logrus.FieldLogger
	cur *Fragment
}

var _ Streamer = (*ObjectStreamer)(nil)

func NewObjectStreamer(asm *Assembler) *ObjectStreamer {
	return &ObjectStreamer{
		asm: asm,
		log: asm.Logger,
	}
}

func (o *ObjectStreamer) Assembler() *Assembler {
	return o.asm
}

func (o *ObjectStreamer) ChangeSection(sec *Section, subsection uint32) {
	o.asm.RegisterSection(sec)
	o.cur = sec.Fragment(subsection)
}

func (o *ObjectStreamer) CurrentSection() (*Section, uint32) {
	if o.cur == nil {
		return nil, 0
	}
	return o.cur.Section, o.cur.Subsection
}

// EmitLabel binds sym to the current output position.
func (o *ObjectStreamer) EmitLabel(sym *Symbol) error {
	if o.cur == nil {
		return errors.Errorf("label %q defined outside of any section", sym.Name)
	}
	if sym.IsDefined() {
		return errors.Errorf("symbol %q is already defined", sym.Name)
	}
	sym.bind(o.cur, o.cur.Size())
	return nil
}

// EmitSymbolAttribute accepts nothing; formats override it.
func (o *ObjectStreamer) EmitSymbolAttribute(*Symbol, SymbolAttr) bool {
	return false
}

func (o *ObjectStreamer) EmitBytes(data []byte) error {
	if o.cur == nil {
		return errors.New("data emitted outside of any section")
	}
	o.cur.Contents = append(o.cur.Contents, data...)
	return nil
}

func (o *ObjectStreamer) EmitFill(n uint64, value byte) error {
	if o.cur == nil {
		return errors.New("fill emitted outside of any section")
	}
	for i := uint64(0); i < n; i++ {
		o.cur.Contents = append(o.cur.Contents, value)
	}
	return nil
}

// Finish lays out the sections and writes the object.
func (o *ObjectStreamer) Finish(w io.Writer) (int64, error) {
	o.asm.Layout()
	n, err := o.asm.Writer.WriteObject(w, o.asm)
	if err != nil {
		return n, errors.Wrap(err, "write object")
	}
	return n, nil
}
