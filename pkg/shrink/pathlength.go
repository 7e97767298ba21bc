package shrink

import "github.com/matzehuels/neuroc/pkg/morph"

// PathLength is the distance from the start of a neurite to the end of one
// of its sections, following the tree.
type PathLength struct {
	ID     morph.SectionID
	Length float64
}

// SectionPathLengths returns, in pre-order over the subtree rooted at root,
// the summed polyline length of each section and all of its ancestors.
func SectionPathLengths(m *morph.Morphology, root morph.SectionID) []PathLength {
	var out []PathLength
	cum := make(map[morph.SectionID]float64)
	for s := range m.Iter(root) {
		l := s.Length()
		if p, ok := m.Parent(s.ID); ok && s.ID != root {
			l += cum[p]
		}
		cum[s.ID] = l
		out = append(out, PathLength{ID: s.ID, Length: l})
	}
	return out
}

// Anchor returns the section with the greatest path length. Ties resolve to
// the earliest entry, which is the first in pre-order for the output of
// SectionPathLengths. It reports false for an empty slice.
func Anchor(lengths []PathLength) (morph.SectionID, bool) {
	if len(lengths) == 0 {
		return morph.NoParent, false
	}
	best := lengths[0]
	for _, pl := range lengths[1:] {
		if pl.Length > best.Length {
			best = pl
		}
	}
	return best.ID, true
}
