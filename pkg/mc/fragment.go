package mc

import "sort"

// Fragment holds the bytes emitted into one subsection of a section.
type Fragment struct {
	Section    *Section
	Subsection uint32
	Contents   []byte
	Offset     uint64
}

// Fragment returns the fragment for subsection, creating it in sorted
// position when the section has not seen that subsection yet.
func (s *Section) Fragment(subsection uint32) *Fragment {
	pos := sort.Search(len(s.Fragments), func(i int) bool {
		return subsection <= s.Fragments[i].Subsection
	})

	if pos < len(s.Fragments) && s.Fragments[pos].Subsection == subsection {
		return s.Fragments[pos]
	}

	frag := &Fragment{Section: s, Subsection: subsection}
	s.Fragments = append(s.Fragments, nil)
	copy(s.Fragments[pos+1:], s.Fragments[pos:])
	s.Fragments[pos] = frag
	return frag
}

func (f *Fragment) Size() uint64 {
	return uint64(len(f.Contents))
}

// Addr is the section-relative address of offset within the fragment.
func (f *Fragment) Addr(offset uint64) uint64 {
	return f.Offset + offset
}
