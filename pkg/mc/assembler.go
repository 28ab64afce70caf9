package mc

import (
	"io"

	"github.com/sirupsen/logrus"
)

// ObjectWriter turns the final assembler state into an object file.
// RegisterSection is called at most once per section, parents first.
type ObjectWriter interface {
	RegisterSection(sec *Section)
	WriteObject(w io.Writer, asm *Assembler) (int64, error)
}

type Assembler struct {
	Context *Context
	Writer  ObjectWriter
	Logger  logrus.FieldLogger

	// Registered sections, in registration order.
	Sections []*Section
}

func NewAssembler(ctx *Context, writer ObjectWriter, logger logrus.FieldLogger) *Assembler {
	return &Assembler{
		Context: ctx,
		Writer:  writer,
		Logger:  logger,
	}
}

// RegisterSection makes sec known to the object writer. It reports whether
// sec was registered by this call.
func (a *Assembler) RegisterSection(sec *Section) bool {
	if sec.registered {
		return false
	}

	sec.registered = true
	sec.Ordinal = len(a.Sections)
	a.Sections = append(a.Sections, sec)
	a.Writer.RegisterSection(sec)

	a.Logger.WithFields(logrus.Fields{
		"section": sec.ID,
		"kind":    sec.Kind,
		"ordinal": sec.Ordinal,
	}).Debug("Registered section")
	return true
}

// Layout sizes every registered section and fixes fragment offsets.
func (a *Assembler) Layout() {
	for _, sec := range a.Sections {
		sec.Layout()
	}
}

func (a *Assembler) Symbols() []*Symbol {
	return a.Context.Symbols
}
