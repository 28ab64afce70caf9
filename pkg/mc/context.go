package mc

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Context owns the section and symbol tables of one compilation unit.
type Context struct {
	SectionMap map[string]*Section
	Sections   []*Section

	SymbolMap map[string]*Symbol
	Symbols   []*Symbol
}

func NewContext() *Context {
	return &Context{
		SectionMap: make(map[string]*Section),
		SymbolMap:  make(map[string]*Symbol),
	}
}

// NewSection creates a section owned by the context. The parent must already
// belong to the context and have the kind the GOFF hierarchy requires, so the
// parent chains built here are always finite.
func (c *Context) NewSection(id, name string, kind SectionKind, parent *Section) (*Section, error) {
	if _, ok := c.SectionMap[id]; ok {
		return nil, errors.Errorf("section %q already defined", id)
	}

	want, needsParent := kind.ParentKind()
	switch {
	case parent == nil && needsParent:
		return nil, errors.Errorf("section %q: %s needs a %s parent", id, kind, want)
	case parent != nil && !needsParent:
		return nil, errors.Errorf("section %q: %s cannot have a parent", id, kind)
	case parent != nil && parent.Kind != want:
		return nil, errors.Errorf("section %q: parent %q is %s, want %s", id, parent.ID, parent.Kind, want)
	case parent != nil && !lo.Contains(c.Sections, parent):
		return nil, errors.Errorf("section %q: parent %q belongs to another context", id, parent.ID)
	}

	sec := NewSection(name, kind, parent)
	sec.ID = id
	c.SectionMap[id] = sec
	c.Sections = append(c.Sections, sec)
	return sec, nil
}

func (c *Context) GetSection(id string) (*Section, bool) {
	sec, ok := c.SectionMap[id]
	return sec, ok
}
