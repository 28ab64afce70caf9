package mc

import "github.com/pkg/errors"

// SymbolAttr is a generic symbol attribute directive. The set covers every
// object file family the pipeline knows about; each streamer decides which of
// them its format can represent.
type SymbolAttr uint8

const (
	SymbolAttrInvalid SymbolAttr = iota
	SymbolAttrCold
	SymbolAttrELFTypeFunction
	SymbolAttrELFTypeIndFunction
	SymbolAttrELFTypeObject
	SymbolAttrELFTypeTLS
	SymbolAttrELFTypeCommon
	SymbolAttrELFTypeNoType
	SymbolAttrELFTypeGnuUniqueObject
	SymbolAttrGlobal
	SymbolAttrLGlobal
	SymbolAttrExtern
	SymbolAttrExported
	SymbolAttrHidden
	SymbolAttrIndirectSymbol
	SymbolAttrInternal
	SymbolAttrLazyReference
	SymbolAttrLocal
	SymbolAttrNoDeadStrip
	SymbolAttrSymbolResolver
	SymbolAttrAltEntry
	SymbolAttrPrivateExtern
	SymbolAttrProtected
	SymbolAttrReference
	SymbolAttrWeak
	SymbolAttrWeakDefinition
	SymbolAttrWeakReference
	SymbolAttrWeakDefAutoPrivate
	SymbolAttrWeakAntiDep
	SymbolAttrMemtag

	numSymbolAttrs
)

var symbolAttrNames = [numSymbolAttrs]string{
	SymbolAttrInvalid:                "invalid",
	SymbolAttrCold:                   "cold",
	SymbolAttrELFTypeFunction:        "type_function",
	SymbolAttrELFTypeIndFunction:     "type_gnu_indirect_function",
	SymbolAttrELFTypeObject:          "type_object",
	SymbolAttrELFTypeTLS:             "type_tls_object",
	SymbolAttrELFTypeCommon:          "type_common",
	SymbolAttrELFTypeNoType:          "type_notype",
	SymbolAttrELFTypeGnuUniqueObject: "type_gnu_unique_object",
	SymbolAttrGlobal:                 "global",
	SymbolAttrLGlobal:                "lglobl",
	SymbolAttrExtern:                 "extern",
	SymbolAttrExported:               "exported",
	SymbolAttrHidden:                 "hidden",
	SymbolAttrIndirectSymbol:         "indirect_symbol",
	SymbolAttrInternal:               "internal",
	SymbolAttrLazyReference:          "lazy_reference",
	SymbolAttrLocal:                  "local",
	SymbolAttrNoDeadStrip:            "no_dead_strip",
	SymbolAttrSymbolResolver:         "symbol_resolver",
	SymbolAttrAltEntry:               "alt_entry",
	SymbolAttrPrivateExtern:          "private_extern",
	SymbolAttrProtected:              "protected",
	SymbolAttrReference:              "reference",
	SymbolAttrWeak:                   "weak",
	SymbolAttrWeakDefinition:         "weak_definition",
	SymbolAttrWeakReference:          "weak_reference",
	SymbolAttrWeakDefAutoPrivate:     "weak_def_can_be_hidden",
	SymbolAttrWeakAntiDep:            "weak_anti_dep",
	SymbolAttrMemtag:                 "memtag",
}

// Directive spellings that mean the same attribute.
var symbolAttrAliases = map[string]SymbolAttr{
	"globl":   SymbolAttrGlobal,
	"export":  SymbolAttrGlobal,
	"weakref": SymbolAttrWeakReference,
}

func (a SymbolAttr) String() string {
	if a >= numSymbolAttrs {
		return "unknown"
	}
	return symbolAttrNames[a]
}

// ParseSymbolAttr maps a directive spelling (with or without the leading
// dot) to its attribute. Invalid is never returned on success.
func ParseSymbolAttr(name string) (SymbolAttr, error) {
	if len(name) > 0 && name[0] == '.' {
		name = name[1:]
	}
	if a, ok := symbolAttrAliases[name]; ok {
		return a, nil
	}
	for a := SymbolAttrCold; a < numSymbolAttrs; a++ {
		if symbolAttrNames[a] == name {
			return a, nil
		}
	}
	return SymbolAttrInvalid, errors.Errorf("unknown symbol attribute %q", name)
}

// AllSymbolAttrs lists every attribute, Invalid included.
func AllSymbolAttrs() []SymbolAttr {
	attrs := make([]SymbolAttr, 0, numSymbolAttrs)
	for a := SymbolAttrInvalid; a < numSymbolAttrs; a++ {
		attrs = append(attrs, a)
	}
	return attrs
}
