// Package program loads an assembled program description and replays it,
// directive by directive, on an object streamer.
package program

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"goffas/pkg/mc"
)

type SectionDef struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Kind       string `yaml:"kind"`
	Parent     string `yaml:"parent"`
	Alignment  uint8  `yaml:"alignment"`
	Executable bool   `yaml:"executable"`
	ReadOnly   bool   `yaml:"readonly"`
	Loading    string `yaml:"loading"`

	kind    mc.SectionKind
	loading mc.LoadingBehavior
}

type DirectiveKind uint8

const (
	DirectiveSection DirectiveKind = iota + 1
	DirectiveLabel
	DirectiveAttribute
	DirectiveBytes
	DirectiveASCII
	DirectiveFill
)

// Directive holds exactly one operation.
type Directive struct {
	Section    string  `yaml:"section"`
	Subsection uint32  `yaml:"subsection"`
	Label      string  `yaml:"label"`
	Symbol     string  `yaml:"symbol"`
	Attr       string  `yaml:"attr"`
	Bytes      string  `yaml:"bytes"`
	ASCII      *string `yaml:"ascii"`
	Fill       *uint64 `yaml:"fill"`
	Value      uint8   `yaml:"value"`

	kind DirectiveKind
	attr mc.SymbolAttr
	data []byte
}

func (d *Directive) Kind() DirectiveKind {
	return d.kind
}

type Program struct {
	Sections   []SectionDef `yaml:"sections"`
	Directives []Directive  `yaml:"directives"`

	byID map[string]*SectionDef
}

func Load(fs afero.Fs, path string) (*Program, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "read program")
	}
	prog, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return prog, nil
}

// Parse decodes and validates a program. Every problem found is reported.
func Parse(data []byte) (*Program, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	prog := &Program{}
	if err := dec.Decode(prog); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty program")
		}
		return nil, errors.Wrap(err, "decode program")
	}
	if err := prog.validate(); err != nil {
		return nil, err
	}
	return prog, nil
}

func (p *Program) validate() error {
	var result *multierror.Error

	p.byID = make(map[string]*SectionDef, len(p.Sections))
	for i := range p.Sections {
		def := &p.Sections[i]
		if def.Name == "" {
			result = multierror.Append(result, errors.Errorf("section %d: missing name", i))
			continue
		}
		if def.ID == "" {
			def.ID = def.Name
		}
		if _, ok := p.byID[def.ID]; ok {
			result = multierror.Append(result, errors.Errorf("section %q: defined twice", def.ID))
			continue
		}
		p.byID[def.ID] = def

		var err error
		if def.kind, err = mc.ParseSectionKind(def.Kind); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "section %q", def.ID))
		}
		if def.loading, err = mc.ParseLoadingBehavior(def.Loading); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "section %q", def.ID))
		}
	}

	for i := range p.Sections {
		def := &p.Sections[i]
		if def.Parent == "" || p.byID[def.ID] != def {
			continue
		}
		if _, ok := p.byID[def.Parent]; !ok {
			result = multierror.Append(result, errors.Errorf("section %q: unknown parent %q", def.ID, def.Parent))
		} else if cycle := p.parentCycle(def.ID); cycle != nil {
			result = multierror.Append(result, errors.Errorf("section %q: parent cycle %s", def.ID, strings.Join(cycle, " -> ")))
		}
	}

	for i := range p.Directives {
		if err := p.validateDirective(&p.Directives[i]); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "directive %d", i))
		}
	}

	return result.ErrorOrNil()
}

// parentCycle returns the chain starting at id if following parents leads
// back to a section already on it.
func (p *Program) parentCycle(id string) []string {
	seen := map[string]bool{}
	var chain []string
	for cur := id; cur != ""; {
		if seen[cur] {
			return append(chain, cur)
		}
		seen[cur] = true
		chain = append(chain, cur)
		def, ok := p.byID[cur]
		if !ok {
			return nil
		}
		cur = def.Parent
	}
	return nil
}

func (p *Program) validateDirective(d *Directive) error {
	ops := 0
	count := func(set bool, kind DirectiveKind) {
		if set {
			ops++
			d.kind = kind
		}
	}
	count(d.Section != "", DirectiveSection)
	count(d.Label != "", DirectiveLabel)
	count(d.Attr != "" || d.Symbol != "", DirectiveAttribute)
	count(d.Bytes != "", DirectiveBytes)
	count(d.ASCII != nil, DirectiveASCII)
	count(d.Fill != nil, DirectiveFill)
	if ops != 1 {
		return errors.Errorf("want exactly one operation, got %d", ops)
	}

	var err error
	switch d.kind {
	case DirectiveSection:
		if _, ok := p.byID[d.Section]; !ok {
			return errors.Errorf("unknown section %q", d.Section)
		}
	case DirectiveAttribute:
		if d.Symbol == "" || d.Attr == "" {
			return errors.New("attribute needs both symbol and attr")
		}
		d.attr, err = mc.ParseSymbolAttr(d.Attr)
	case DirectiveBytes:
		d.data, err = hex.DecodeString(strings.Join(strings.Fields(d.Bytes), ""))
		err = errors.Wrap(err, "bytes")
	case DirectiveASCII:
		d.data = []byte(*d.ASCII)
	}
	return err
}

// Build creates the section descriptors of p in ctx, parents first. p must
// come from Parse or Load.
func Build(ctx *mc.Context, p *Program) error {
	var create func(def *SectionDef) (*mc.Section, error)
	create = func(def *SectionDef) (*mc.Section, error) {
		if sec, ok := ctx.GetSection(def.ID); ok {
			return sec, nil
		}
		var parent *mc.Section
		if def.Parent != "" {
			var err error
			if parent, err = create(p.byID[def.Parent]); err != nil {
				return nil, err
			}
		}
		sec, err := ctx.NewSection(def.ID, def.Name, def.kind, parent)
		if err != nil {
			return nil, err
		}
		sec.Alignment = def.Alignment
		sec.Executable = def.Executable
		sec.ReadOnly = def.ReadOnly
		sec.Loading = def.loading
		return sec, nil
	}

	for i := range p.Sections {
		if _, err := create(&p.Sections[i]); err != nil {
			return err
		}
	}
	return nil
}

func (d DirectiveKind) String() string {
	switch d {
	case DirectiveSection:
		return "section"
	case DirectiveLabel:
		return "label"
	case DirectiveAttribute:
		return "attribute"
	case DirectiveBytes:
		return "bytes"
	case DirectiveASCII:
		return "ascii"
	case DirectiveFill:
		return "fill"
	}
	return fmt.Sprintf("directive(%d)", uint8(d))
}
