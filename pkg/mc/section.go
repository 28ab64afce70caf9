package mc

import (
	"strings"

	"github.com/pkg/errors"
)

// SectionKind is the place a section takes in the GOFF hierarchy: a section
// definition (SD) owns element definitions (ED), which own parts (PR).
type SectionKind uint8

const (
	SectionSD SectionKind = iota
	SectionED
	SectionPR
)

func (k SectionKind) String() string {
	switch k {
	case SectionSD:
		return "sd"
	case SectionED:
		return "ed"
	case SectionPR:
		return "pr"
	}
	return "unknown"
}

func ParseSectionKind(s string) (SectionKind, error) {
	switch strings.ToLower(s) {
	case "sd":
		return SectionSD, nil
	case "ed":
		return SectionED, nil
	case "pr":
		return SectionPR, nil
	}
	return 0, errors.Errorf("unknown section kind %q", s)
}

// ParentKind reports which kind a parent of k must have. Roots are SDs.
func (k SectionKind) ParentKind() (SectionKind, bool) {
	switch k {
	case SectionED:
		return SectionSD, true
	case SectionPR:
		return SectionED, true
	}
	return 0, false
}

type LoadingBehavior uint8

const (
	LoadInitial LoadingBehavior = iota
	LoadDeferred
	LoadNoLoad
)

func ParseLoadingBehavior(s string) (LoadingBehavior, error) {
	switch strings.ToLower(s) {
	case "", "initial":
		return LoadInitial, nil
	case "deferred":
		return LoadDeferred, nil
	case "noload":
		return LoadNoLoad, nil
	}
	return 0, errors.Errorf("unknown loading behavior %q", s)
}

// Section is a node of the section tree. Parent is a non-owning link; the
// owning table is the Context.
type Section struct {
	// ID is unique within the compilation unit; Name need not be.
	ID     string
	Name   string
	Kind   SectionKind
	Parent *Section

	Alignment  uint8 // log2
	Executable bool
	ReadOnly   bool
	Loading    LoadingBehavior

	// Position in the assembler's registration order, -1 until registered.
	Ordinal int

	Fragments []*Fragment

	registered bool
	size       uint64
}

func NewSection(name string, kind SectionKind, parent *Section) *Section {
	return &Section{
		ID:      name,
		Name:    name,
		Kind:    kind,
		Parent:  parent,
		Ordinal: -1,
	}
}

func (s *Section) IsRegistered() bool {
	return s.registered
}

// Depth is the number of ancestors above s.
func (s *Section) Depth() int {
	d := 0
	for p := s.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// Layout places the fragments back to back in subsection order and returns
// the section size.
func (s *Section) Layout() uint64 {
	offset := uint64(0)
	for _, frag := range s.Fragments {
		frag.Offset = offset
		offset += uint64(len(frag.Contents))
	}
	s.size = offset
	return s.size
}

// Size is valid after Layout.
func (s *Section) Size() uint64 {
	return s.size
}

// Contents concatenates the fragments. Valid after Layout.
func (s *Section) Contents() []byte {
	buf := make([]byte, 0, s.size)
	for _, frag := range s.Fragments {
		buf = append(buf, frag.Contents...)
	}
	return buf
}
