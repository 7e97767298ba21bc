package morph

import "iter"

// Sections yields every live section in id order.
func (m *Morphology) Sections() iter.Seq[*Section] {
	return func(yield func(*Section) bool) {
		for _, s := range m.sections {
			if s != nil && !yield(s) {
				return
			}
		}
	}
}

// Iter yields the subtree rooted at id in pre-order (a section before its
// children, children in insertion order).
func (m *Morphology) Iter(id SectionID) iter.Seq[*Section] {
	return func(yield func(*Section) bool) {
		if _, ok := m.Section(id); !ok {
			return
		}
		stack := []SectionID{id}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			s := m.sections[cur]
			if !yield(s) {
				return
			}
			for i := len(s.children) - 1; i >= 0; i-- {
				stack = append(stack, s.children[i])
			}
		}
	}
}

// IterAll yields every root subtree in pre-order, roots in insertion order.
func (m *Morphology) IterAll() iter.Seq[*Section] {
	return func(yield func(*Section) bool) {
		for _, r := range m.roots {
			for s := range m.Iter(r) {
				if !yield(s) {
					return
				}
			}
		}
	}
}

// PostOrder yields the subtree rooted at id in post-order: every child
// subtree before its parent.
func (m *Morphology) PostOrder(id SectionID) iter.Seq[*Section] {
	return func(yield func(*Section) bool) {
		if _, ok := m.Section(id); !ok {
			return
		}
		m.postOrder(id, yield)
	}
}

func (m *Morphology) postOrder(id SectionID, yield func(*Section) bool) bool {
	s := m.sections[id]
	for _, c := range s.children {
		if !m.postOrder(c, yield) {
			return false
		}
	}
	return yield(s)
}

// Upstream yields id and then each of its ancestors up to the root.
func (m *Morphology) Upstream(id SectionID) iter.Seq[*Section] {
	return func(yield func(*Section) bool) {
		s, ok := m.Section(id)
		for ok {
			if !yield(s) {
				return
			}
			if s.parent == NoParent {
				return
			}
			s, ok = m.Section(s.parent)
		}
	}
}
