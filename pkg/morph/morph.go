package morph

import (
	"errors"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrUnknownSection is returned when an operation references a section id
	// that does not exist or was deleted.
	ErrUnknownSection = errors.New("unknown section")

	// ErrEmptySection is returned when a section is created without points.
	ErrEmptySection = errors.New("section must have at least one point")

	// ErrDiameterMismatch is returned when the number of diameters differs
	// from the number of points.
	ErrDiameterMismatch = errors.New("point and diameter counts differ")

	// ErrDiscontinuous is returned by [Morphology.Validate] when a section does
	// not start where its parent ends.
	ErrDiscontinuous = errors.New("section does not start at its parent's last point")
)

// SectionID identifies a section within one Morphology.
type SectionID int

// NoParent is the parent id of root sections.
const NoParent SectionID = -1

// SectionType tags what part of the neuron a section belongs to.
// Values match the SWC structure identifiers.
type SectionType int

const (
	Undefined      SectionType = 0
	Soma           SectionType = 1
	Axon           SectionType = 2
	BasalDendrite  SectionType = 3
	ApicalDendrite SectionType = 4
)

// IsDendrite reports whether t is a basal or apical dendrite.
func (t SectionType) IsDendrite() bool {
	return t == BasalDendrite || t == ApicalDendrite
}

// String returns a lower-case name for known types.
func (t SectionType) String() string {
	switch t {
	case Undefined:
		return "undefined"
	case Soma:
		return "soma"
	case Axon:
		return "axon"
	case BasalDendrite:
		return "basal_dendrite"
	case ApicalDendrite:
		return "apical_dendrite"
	}
	return "custom"
}

// Axis selects one coordinate of a point.
type Axis int

const (
	X Axis = iota
	Y
	Z

	// AllAxes means "no axis restriction" where an Axis is optional.
	AllAxes Axis = -1
)

// Of returns the component of p along a. It panics for AllAxes.
func (a Axis) Of(p r3.Vec) float64 {
	switch a {
	case X:
		return p.X
	case Y:
		return p.Y
	case Z:
		return p.Z
	}
	panic("morph: invalid axis")
}

// Unit returns the unit vector of a. It panics for AllAxes.
func (a Axis) Unit() r3.Vec {
	switch a {
	case X:
		return r3.Vec{X: 1}
	case Y:
		return r3.Vec{Y: 1}
	case Z:
		return r3.Vec{Z: 1}
	}
	panic("morph: invalid axis")
}

// Section is a polyline of the neuron tree.
//
// Points and Diameters may be replaced or modified freely; keeping their
// lengths equal is the caller's responsibility. Links are read through the
// owning Morphology.
type Section struct {
	ID        SectionID
	Type      SectionType
	Points    []r3.Vec
	Diameters []float64

	parent   SectionID
	children []SectionID
}

// FirstPoint returns the first point of the section.
func (s *Section) FirstPoint() r3.Vec { return s.Points[0] }

// LastPoint returns the last point of the section.
func (s *Section) LastPoint() r3.Vec { return s.Points[len(s.Points)-1] }

// LastDiameter returns the diameter at the last point.
func (s *Section) LastDiameter() float64 { return s.Diameters[len(s.Diameters)-1] }

// Length returns the sum of Euclidean distances between consecutive points.
func (s *Section) Length() float64 {
	var total float64
	for i := 1; i < len(s.Points); i++ {
		total += r3.Norm(r3.Sub(s.Points[i], s.Points[i-1]))
	}
	return total
}

// SomaShape holds the cell body points. It may be empty.
type SomaShape struct {
	Points    []r3.Vec
	Diameters []float64
}

// Morphology is a soma plus a forest of sections stored in one arena.
// The zero value is not usable; create instances with New.
type Morphology struct {
	Soma SomaShape

	sections []*Section // index is the SectionID; nil once deleted
	roots    []SectionID
}

// New creates an empty morphology.
func New() *Morphology {
	return &Morphology{}
}

// AddRoot adds a root section. Diameters are copied.
func (m *Morphology) AddRoot(typ SectionType, points []r3.Vec, diameters []float64) (SectionID, error) {
	if err := checkGeometry(points, diameters); err != nil {
		return 0, err
	}
	id := m.insert(typ, NoParent, points, diameters)
	m.roots = append(m.roots, id)
	return id, nil
}

// AppendSection adds a child section to parent. The child inherits the
// parent's type.
func (m *Morphology) AppendSection(parent SectionID, points []r3.Vec, diameters []float64) (SectionID, error) {
	p, ok := m.Section(parent)
	if !ok {
		return 0, ErrUnknownSection
	}
	return m.AppendSectionWithType(parent, p.Type, points, diameters)
}

// AppendSectionWithType adds a child section with an explicit type.
func (m *Morphology) AppendSectionWithType(parent SectionID, typ SectionType, points []r3.Vec, diameters []float64) (SectionID, error) {
	p, ok := m.Section(parent)
	if !ok {
		return 0, ErrUnknownSection
	}
	if err := checkGeometry(points, diameters); err != nil {
		return 0, err
	}
	id := m.insert(typ, parent, points, diameters)
	p.children = append(p.children, id)
	return id, nil
}

func (m *Morphology) insert(typ SectionType, parent SectionID, points []r3.Vec, diameters []float64) SectionID {
	id := SectionID(len(m.sections))
	m.sections = append(m.sections, &Section{
		ID:        id,
		Type:      typ,
		Points:    slices.Clone(points),
		Diameters: slices.Clone(diameters),
		parent:    parent,
	})
	return id
}

func checkGeometry(points []r3.Vec, diameters []float64) error {
	if len(points) == 0 {
		return ErrEmptySection
	}
	if len(points) != len(diameters) {
		return ErrDiameterMismatch
	}
	return nil
}

// Section returns the section with the given id. The returned pointer refers
// to the live section, so geometry edits affect the morphology.
func (m *Morphology) Section(id SectionID) (*Section, bool) {
	if id < 0 || int(id) >= len(m.sections) || m.sections[id] == nil {
		return nil, false
	}
	return m.sections[id], true
}

// Roots returns the root section ids in insertion order.
// The returned slice should not be modified.
func (m *Morphology) Roots() []SectionID { return m.roots }

// Parent returns the parent id of a section, or NoParent and false for roots
// and unknown ids.
func (m *Morphology) Parent(id SectionID) (SectionID, bool) {
	s, ok := m.Section(id)
	if !ok || s.parent == NoParent {
		return NoParent, false
	}
	return s.parent, true
}

// Children returns the child ids of a section in insertion order.
// The returned slice should not be modified.
func (m *Morphology) Children(id SectionID) []SectionID {
	s, ok := m.Section(id)
	if !ok {
		return nil
	}
	return s.children
}

// IsRoot reports whether id is a root section.
func (m *Morphology) IsRoot(id SectionID) bool {
	s, ok := m.Section(id)
	return ok && s.parent == NoParent
}

// IsLeaf reports whether id has no children.
func (m *Morphology) IsLeaf(id SectionID) bool {
	return len(m.Children(id)) == 0
}

// SectionCount returns the number of live sections.
func (m *Morphology) SectionCount() int {
	n := 0
	for _, s := range m.sections {
		if s != nil {
			n++
		}
	}
	return n
}

// Validate checks the arena invariants: matching point and diameter counts,
// non-empty sections, consistent parent/child links and tree continuity.
func (m *Morphology) Validate() error {
	for s := range m.Sections() {
		if err := checkGeometry(s.Points, s.Diameters); err != nil {
			return &SectionError{ID: s.ID, Err: err}
		}
		if s.parent == NoParent {
			continue
		}
		p, ok := m.Section(s.parent)
		if !ok || !slices.Contains(p.children, s.ID) {
			return &SectionError{ID: s.ID, Err: ErrUnknownSection}
		}
		if s.FirstPoint() != p.LastPoint() {
			return &SectionError{ID: s.ID, Err: ErrDiscontinuous}
		}
	}
	return nil
}

// SectionError annotates a structural error with the offending section.
type SectionError struct {
	ID  SectionID
	Err error
}

func (e *SectionError) Error() string {
	return "section " + strconv.Itoa(int(e.ID)) + ": " + e.Err.Error()
}

func (e *SectionError) Unwrap() error { return e.Err }
