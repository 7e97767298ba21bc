package morph

import (
	"errors"
	"slices"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// fork builds a root with two children and one grandchild under the first:
//
//	0 ─┬─ 1 ── 3
//	   └─ 2
func fork(t *testing.T) *Morphology {
	t.Helper()
	m := New()
	root, err := m.AddRoot(Axon, []r3.Vec{{}, {Y: 1}}, []float64{1, 1})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := m.AppendSection(root, []r3.Vec{{Y: 1}, {X: 1, Y: 2}}, []float64{1, 1})
	_, _ = m.AppendSection(root, []r3.Vec{{Y: 1}, {X: -1, Y: 2}}, []float64{1, 1})
	_, _ = m.AppendSection(a, []r3.Vec{{X: 1, Y: 2}, {X: 1, Y: 3}}, []float64{1, 1})
	return m
}

func ids(seq func(func(*Section) bool)) []SectionID {
	var out []SectionID
	for s := range seq {
		out = append(out, s.ID)
	}
	return out
}

func TestAddRoot_Errors(t *testing.T) {
	m := New()
	if _, err := m.AddRoot(Axon, nil, nil); !errors.Is(err, ErrEmptySection) {
		t.Errorf("AddRoot(empty) error = %v, want ErrEmptySection", err)
	}
	if _, err := m.AddRoot(Axon, []r3.Vec{{}}, []float64{1, 2}); !errors.Is(err, ErrDiameterMismatch) {
		t.Errorf("AddRoot(mismatch) error = %v, want ErrDiameterMismatch", err)
	}
	if _, err := m.AppendSection(7, []r3.Vec{{}}, []float64{1}); !errors.Is(err, ErrUnknownSection) {
		t.Errorf("AppendSection(unknown) error = %v, want ErrUnknownSection", err)
	}
}

func TestAppendSection_InheritsType(t *testing.T) {
	m := fork(t)
	for s := range m.Sections() {
		if s.Type != Axon {
			t.Errorf("section %d type = %v, want axon", s.ID, s.Type)
		}
	}
}

func TestTraversalOrders(t *testing.T) {
	m := fork(t)

	tests := []struct {
		name string
		got  []SectionID
		want []SectionID
	}{
		{"pre-order", ids(m.Iter(0)), []SectionID{0, 1, 3, 2}},
		{"post-order", ids(m.PostOrder(0)), []SectionID{3, 1, 2, 0}},
		{"upstream", ids(m.Upstream(3)), []SectionID{3, 1, 0}},
		{"all", ids(m.IterAll()), []SectionID{0, 1, 3, 2}},
		{"unknown", ids(m.Iter(42)), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !slices.Equal(tt.got, tt.want) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestIter_EarlyStop(t *testing.T) {
	m := fork(t)
	n := 0
	for range m.Iter(0) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("visited %d sections, want 2", n)
	}
}

func TestLinks(t *testing.T) {
	m := fork(t)
	if p, ok := m.Parent(3); !ok || p != 1 {
		t.Errorf("Parent(3) = %d, %v, want 1, true", p, ok)
	}
	if _, ok := m.Parent(0); ok {
		t.Error("Parent(root) should report false")
	}
	if !m.IsRoot(0) || m.IsRoot(1) {
		t.Error("IsRoot mismatch")
	}
	if !m.IsLeaf(2) || m.IsLeaf(1) {
		t.Error("IsLeaf mismatch")
	}
	if got := m.Children(0); !slices.Equal(got, []SectionID{1, 2}) {
		t.Errorf("Children(0) = %v, want [1 2]", got)
	}
}

func TestDeleteSubtree(t *testing.T) {
	m := fork(t)
	if err := m.DeleteSubtree(1); err != nil {
		t.Fatal(err)
	}
	if m.SectionCount() != 2 {
		t.Errorf("SectionCount() = %d, want 2", m.SectionCount())
	}
	if _, ok := m.Section(3); ok {
		t.Error("grandchild should be deleted with its parent")
	}
	if got := m.Children(0); !slices.Equal(got, []SectionID{2}) {
		t.Errorf("Children(0) = %v, want [2]", got)
	}

	id, _ := m.AppendSection(0, []r3.Vec{{Y: 1}, {Y: 5}}, []float64{1, 1})
	if id != 4 {
		t.Errorf("new id = %d, want 4 (deleted ids are not reused)", id)
	}
}

func TestDeleteSubtree_Root(t *testing.T) {
	m := fork(t)
	if err := m.DeleteSubtree(0); err != nil {
		t.Fatal(err)
	}
	if len(m.Roots()) != 0 || m.SectionCount() != 0 {
		t.Errorf("roots = %v, count = %d, want empty", m.Roots(), m.SectionCount())
	}
	if err := m.DeleteSubtree(0); !errors.Is(err, ErrUnknownSection) {
		t.Errorf("second delete error = %v, want ErrUnknownSection", err)
	}
}

func TestDeleteChildren(t *testing.T) {
	m := fork(t)
	if err := m.DeleteChildren(0); err != nil {
		t.Fatal(err)
	}
	if !m.IsLeaf(0) || m.SectionCount() != 1 {
		t.Errorf("children = %v, count = %d", m.Children(0), m.SectionCount())
	}
}

func TestClone_IDCorrespondence(t *testing.T) {
	m := fork(t)
	_ = m.DeleteSubtree(2)
	c := m.Clone()

	for s := range m.Sections() {
		cs, ok := c.Section(s.ID)
		if !ok {
			t.Fatalf("clone missing section %d", s.ID)
		}
		if !slices.Equal(cs.Points, s.Points) {
			t.Errorf("section %d points differ", s.ID)
		}
	}

	cs, _ := c.Section(1)
	cs.Points[0] = r3.Vec{X: 99}
	s, _ := m.Section(1)
	if s.Points[0].X == 99 {
		t.Error("clone shares point storage with source")
	}

	id, _ := c.AppendSection(0, []r3.Vec{{Y: 1}}, []float64{1})
	if id != 4 {
		t.Errorf("clone next id = %d, want 4", id)
	}
}

func TestAppendSubtree_CrossArena(t *testing.T) {
	src := fork(t)
	dst := New()
	root, _ := dst.AddRoot(BasalDendrite, []r3.Vec{{}, {Y: 1}}, []float64{2, 2})

	id, err := dst.AppendSubtree(root, src, 1)
	if err != nil {
		t.Fatal(err)
	}
	if dst.SectionCount() != 3 {
		t.Errorf("SectionCount() = %d, want 3", dst.SectionCount())
	}
	s, _ := dst.Section(id)
	if s.Type != Axon {
		t.Errorf("copied root type = %v, want axon", s.Type)
	}
	if got := dst.Children(id); len(got) != 1 {
		t.Fatalf("copied root children = %v, want 1", got)
	}
	if err := dst.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestAppendSubtree_SameArena(t *testing.T) {
	m := fork(t)
	if _, err := m.AppendSubtree(2, m, 0); err != nil {
		t.Fatal(err)
	}
	if m.SectionCount() != 8 {
		t.Errorf("SectionCount() = %d, want 8", m.SectionCount())
	}
}

func TestTranslate(t *testing.T) {
	m := fork(t)
	m.Translate(1, r3.Vec{Z: 2})
	s, _ := m.Section(3)
	if s.LastPoint() != (r3.Vec{X: 1, Y: 3, Z: 2}) {
		t.Errorf("LastPoint() = %v", s.LastPoint())
	}
	root, _ := m.Section(0)
	if root.LastPoint().Z != 0 {
		t.Error("Translate moved a section outside the subtree")
	}
}

func TestValidate_Discontinuous(t *testing.T) {
	m := fork(t)
	s, _ := m.Section(2)
	s.Points[0] = r3.Vec{X: 5}

	err := m.Validate()
	var se *SectionError
	if !errors.As(err, &se) || se.ID != 2 || !errors.Is(err, ErrDiscontinuous) {
		t.Errorf("Validate() = %v, want discontinuity at section 2", err)
	}
}

func TestValidate(t *testing.T) {
	m := fork(t)
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	s, _ := m.Section(1)
	s.Diameters = s.Diameters[:1]
	var se *SectionError
	if err := m.Validate(); !errors.As(err, &se) || se.ID != 1 || !errors.Is(err, ErrDiameterMismatch) {
		t.Errorf("Validate() = %v, want geometry error at section 1", err)
	}
}

func TestSectionLength(t *testing.T) {
	s := &Section{Points: []r3.Vec{{}, {X: 3, Y: 4}, {X: 3, Y: 4, Z: 1}}}
	if got := s.Length(); got != 6 {
		t.Errorf("Length() = %v, want 6", got)
	}
}

func TestAxis(t *testing.T) {
	p := r3.Vec{X: 1, Y: 2, Z: 3}
	for _, tt := range []struct {
		axis Axis
		want float64
	}{{X, 1}, {Y, 2}, {Z, 3}} {
		if got := tt.axis.Of(p); got != tt.want {
			t.Errorf("Axis(%d).Of = %v, want %v", tt.axis, got, tt.want)
		}
		if got := r3.Dot(tt.axis.Unit(), p); got != tt.want {
			t.Errorf("Axis(%d).Unit dot = %v, want %v", tt.axis, got, tt.want)
		}
	}
}
