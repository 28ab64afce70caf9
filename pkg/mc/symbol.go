package mc

import "goffas/pkg/utils"

type Symbol struct {
	Name string

	// Set when the symbol is bound to an output location.
	Fragment *Fragment
	offset   uint64

	external bool
	weak     bool
	hidden   bool

	attributesInitialized bool
}

func NewSymbol(name string) *Symbol {
	s := &Symbol{
		Name: name,
	}

	return s
}

func GetSymbolByName(ctx *Context, name string) *Symbol {
	if sym, ok := ctx.SymbolMap[name]; ok {
		return sym
	}
	ctx.SymbolMap[name] = NewSymbol(name)
	ctx.Symbols = append(ctx.Symbols, ctx.SymbolMap[name])
	return ctx.SymbolMap[name]
}

func (s *Symbol) IsDefined() bool {
	return s.Fragment != nil
}

func (s *Symbol) Section() *Section {
	if s.Fragment == nil {
		return nil
	}
	return s.Fragment.Section
}

// Offset is the section-relative value of a defined symbol. Valid after the
// owning section has been laid out.
func (s *Symbol) Offset() uint64 {
	utils.Assert(s.IsDefined())
	return s.Fragment.Addr(s.offset)
}

func (s *Symbol) bind(frag *Fragment, offset uint64) {
	s.Fragment = frag
	s.offset = offset
}

func (s *Symbol) SetExternal(v bool) {
	s.external = v
}

func (s *Symbol) IsExternal() bool {
	return s.external
}

// SetWeak marks the symbol weak. There is no way back to strong binding.
func (s *Symbol) SetWeak() {
	s.weak = true
}

func (s *Symbol) IsWeak() bool {
	return s.weak
}

func (s *Symbol) SetHidden(v bool) {
	s.hidden = v
}

func (s *Symbol) IsHidden() bool {
	return s.hidden
}

// InitAttributes marks the point after which the object writer may read the
// linkage flags. It is a no-op once set.
func (s *Symbol) InitAttributes() {
	s.attributesInitialized = true
}

func (s *Symbol) AttributesInitialized() bool {
	return s.attributesInitialized
}
