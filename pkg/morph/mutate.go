package morph

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
)

// DeleteSubtree removes id and all of its descendants. The ids are retired
// and never handed out again.
func (m *Morphology) DeleteSubtree(id SectionID) error {
	s, ok := m.Section(id)
	if !ok {
		return ErrUnknownSection
	}
	if s.parent == NoParent {
		m.roots = slices.DeleteFunc(m.roots, func(r SectionID) bool { return r == id })
	} else if p, ok := m.Section(s.parent); ok {
		p.children = slices.DeleteFunc(p.children, func(c SectionID) bool { return c == id })
	}
	doomed := slices.Collect(m.Iter(id))
	for _, d := range doomed {
		m.sections[d.ID] = nil
	}
	return nil
}

// DeleteChildren removes every child subtree of id, leaving id itself in place.
func (m *Morphology) DeleteChildren(id SectionID) error {
	if _, ok := m.Section(id); !ok {
		return ErrUnknownSection
	}
	for _, c := range slices.Clone(m.Children(id)) {
		if err := m.DeleteSubtree(c); err != nil {
			return err
		}
	}
	return nil
}

// AppendSubtree copies the subtree rooted at srcID in src under parent and
// returns the new id of the copied root. The copied root keeps its own type.
// src may be m itself; the subtree is snapshotted before insertion.
func (m *Morphology) AppendSubtree(parent SectionID, src *Morphology, srcID SectionID) (SectionID, error) {
	if _, ok := m.Section(parent); !ok {
		return 0, ErrUnknownSection
	}
	if _, ok := src.Section(srcID); !ok {
		return 0, ErrUnknownSection
	}

	type item struct {
		sec    *Section
		parent int // index into order, -1 for the subtree root
	}
	var order []item
	index := make(map[SectionID]int)
	for s := range src.Iter(srcID) {
		pi := -1
		if s.ID != srcID {
			pi = index[s.parent]
		}
		index[s.ID] = len(order)
		order = append(order, item{sec: s, parent: pi})
	}

	ids := make([]SectionID, len(order))
	for i, it := range order {
		target := parent
		if it.parent >= 0 {
			target = ids[it.parent]
		}
		id, err := m.AppendSectionWithType(target, it.sec.Type, it.sec.Points, it.sec.Diameters)
		if err != nil {
			return 0, err
		}
		ids[i] = id
	}
	return ids[0], nil
}

// Clone returns a deep copy in which every section keeps its id.
func (m *Morphology) Clone() *Morphology {
	c := &Morphology{
		Soma: SomaShape{
			Points:    slices.Clone(m.Soma.Points),
			Diameters: slices.Clone(m.Soma.Diameters),
		},
		sections: make([]*Section, len(m.sections)),
		roots:    slices.Clone(m.roots),
	}
	for i, s := range m.sections {
		if s == nil {
			continue
		}
		c.sections[i] = &Section{
			ID:        s.ID,
			Type:      s.Type,
			Points:    slices.Clone(s.Points),
			Diameters: slices.Clone(s.Diameters),
			parent:    s.parent,
			children:  slices.Clone(s.children),
		}
	}
	return c
}

// Translate shifts every point of the subtree rooted at id by v.
func (m *Morphology) Translate(id SectionID, v r3.Vec) {
	for s := range m.Iter(id) {
		for i := range s.Points {
			s.Points[i] = r3.Add(s.Points[i], v)
		}
	}
}

// TranslateAll shifts the soma and every section by v.
func (m *Morphology) TranslateAll(v r3.Vec) {
	for i := range m.Soma.Points {
		m.Soma.Points[i] = r3.Add(m.Soma.Points[i], v)
	}
	for _, r := range m.roots {
		m.Translate(r, v)
	}
}
