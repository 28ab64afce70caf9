package program

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"goffas/pkg/goff"
	"goffas/pkg/mc"
)

// UnhandledPolicy decides what happens to attribute directives the object
// format cannot represent.
type UnhandledPolicy uint8

const (
	UnhandledWarn UnhandledPolicy = iota
	UnhandledIgnore
	UnhandledError
)

func (u UnhandledPolicy) String() string {
	switch u {
	case UnhandledWarn:
		return "warn"
	case UnhandledIgnore:
		return "ignore"
	case UnhandledError:
		return "error"
	}
	return "unknown"
}

func (u *UnhandledPolicy) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "warn", "":
		*u = UnhandledWarn
	case "ignore":
		*u = UnhandledIgnore
	case "error":
		*u = UnhandledError
	default:
		return errors.Errorf("unknown unhandled attribute policy %q, want warn, ignore or error", text)
	}
	return nil
}

// Run replays the directives of p on s, in order. Sections must already be
// built in ctx.
func Run(s mc.Streamer, ctx *mc.Context, p *Program, policy UnhandledPolicy, log logrus.FieldLogger) error {
	for i := range p.Directives {
		d := &p.Directives[i]
		if err := run(s, ctx, d, policy, log); err != nil {
			return errors.Wrapf(err, "directive %d (%s)", i, d.kind)
		}
	}
	return nil
}

func run(s mc.Streamer, ctx *mc.Context, d *Directive, policy UnhandledPolicy, log logrus.FieldLogger) error {
	switch d.kind {
	case DirectiveSection:
		sec, ok := ctx.GetSection(d.Section)
		if !ok {
			return errors.Errorf("unknown section %q", d.Section)
		}
		s.ChangeSection(sec, d.Subsection)
	case DirectiveLabel:
		return s.EmitLabel(mc.GetSymbolByName(ctx, d.Label))
	case DirectiveAttribute:
		if s.EmitSymbolAttribute(mc.GetSymbolByName(ctx, d.Symbol), d.attr) {
			return nil
		}
		switch policy {
		case UnhandledError:
			return errors.Errorf("attribute %s of %q is not supported by the object format", d.attr, d.Symbol)
		case UnhandledWarn:
			log.WithFields(logrus.Fields{
				"symbol":    d.Symbol,
				"attribute": d.attr,
			}).Warn("Ignoring unsupported symbol attribute")
		case UnhandledIgnore:
		}
	case DirectiveBytes, DirectiveASCII:
		return s.EmitBytes(d.data)
	case DirectiveFill:
		return s.EmitFill(*d.Fill, d.Value)
	default:
		return errors.Errorf("unknown directive kind %d", d.kind)
	}
	return nil
}

// Assemble streams p through a GOFF streamer and writes the object to out.
func Assemble(p *Program, out io.Writer, policy UnhandledPolicy, log logrus.FieldLogger) (int64, error) {
	ctx := mc.NewContext()
	if err := Build(ctx, p); err != nil {
		return 0, err
	}

	asm := mc.NewAssembler(ctx, goff.NewWriter(log), log)
	streamer := mc.NewGOFFStreamer(asm)
	if err := Run(streamer, ctx, p, policy, log); err != nil {
		return 0, err
	}
	return streamer.Finish(out)
}
