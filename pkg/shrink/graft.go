package shrink

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/neuroc/pkg/errors"
	"github.com/matzehuels/neuroc/pkg/morph"
)

// Result is the outcome of CutAndGraft.
type Result struct {
	// Morphology is the shrunk copy.
	Morphology *morph.Morphology
	// YDiff is how far the grafted part moved along Y.
	YDiff float64

	StartCut   morph.SectionID // trimmed section, same id as in the input
	StartGraft morph.SectionID // grafted section's id in the input
	Bridge     morph.SectionID // vertical section in Morphology
	Grafted    morph.SectionID // grafted section's id in Morphology
}

// CutAndGraft returns a copy of original in which the main axon branch is cut
// at coords.YStartCut, extended by a vertical bridge of the given height and
// continued by the part of the branch that starts at coords.YStartGraft.
// original is not modified.
func CutAndGraft(original *morph.Morphology, coords Coordinates, height float64) (*Result, error) {
	startCut, startGraft, err := FindCutAndGraftSections(original, coords)
	if err != nil {
		return nil, err
	}

	m := original.Clone()
	if err := CutBranch(m, coords.Upward, startCut, coords.YStartCut); err != nil {
		return nil, err
	}
	bridge, err := AddVerticalSegment(m, startCut, height)
	if err != nil {
		return nil, err
	}

	work := original.Clone()
	yDiff, grafted, err := GraftBranch(m, work, coords.Upward, bridge, startGraft, coords.YStartGraft)
	if err != nil {
		return nil, err
	}

	return &Result{
		Morphology: m,
		YDiff:      yDiff,
		StartCut:   startCut,
		StartGraft: startGraft,
		Bridge:     bridge,
		Grafted:    grafted,
	}, nil
}

// FindCutAndGraftSections locates the sections to cut and to graft along the
// main axon branch.
//
// The main branch runs from the single axon root to the axon section with the
// greatest path length. Walking it from the root, the cut section is the first
// whose last point lies past YStartCut, and the graft section is the first
// strictly later one whose last point lies past YStartGraft ("past" meaning
// above when Upward, below otherwise).
func FindCutAndGraftSections(m *morph.Morphology, coords Coordinates) (cut, graft morph.SectionID, err error) {
	var axons []morph.SectionID
	for _, r := range m.Roots() {
		if s, _ := m.Section(r); s.Type == morph.Axon {
			axons = append(axons, r)
		}
	}
	switch {
	case len(axons) == 0:
		return 0, 0, errors.New(errors.ErrCodeNoAxon, "Neuron has no axon")
	case len(axons) > 1:
		return 0, 0, errors.New(errors.ErrCodeTooManyAxons, "Neuron has more than one axon")
	}

	anchor, _ := Anchor(SectionPathLengths(m, axons[0]))
	var branch []*morph.Section
	for s := range m.Upstream(anchor) {
		branch = append(branch, s)
	}

	cut, graft = morph.NoParent, morph.NoParent
	for i := len(branch) - 1; i >= 0; i-- {
		s := branch[i]
		y := s.LastPoint().Y
		if cut == morph.NoParent {
			if coords.Upward == (y > coords.YStartCut) {
				cut = s.ID
			}
			continue
		}
		if coords.Upward == (y > coords.YStartGraft) {
			graft = s.ID
			break
		}
	}

	if cut == morph.NoParent {
		return 0, 0, errors.New(errors.ErrCodeNoSectionToCut, "No section to cut from")
	}
	if graft == morph.NoParent {
		return 0, 0, errors.New(errors.ErrCodeNoSectionToCut, "No section to graft from")
	}
	return cut, graft, nil
}

// CutBranch trims section id of m so that it ends at the plane y and deletes
// all of its descendants.
func CutBranch(m *morph.Morphology, upward bool, id morph.SectionID, y float64) error {
	s, ok := m.Section(id)
	if !ok {
		return fmt.Errorf("cut section %d: %w", id, morph.ErrUnknownSection)
	}
	if err := CutAtPlane(s, morph.Y, y, upward, false); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "cut section %d", id)
	}
	return m.DeleteChildren(id)
}

// AddVerticalSegment appends to section id a two-point section going from its
// last point straight along Y by height. Both diameters equal the parent's
// last diameter; the type is inherited from the parent.
func AddVerticalSegment(m *morph.Morphology, id morph.SectionID, height float64) (morph.SectionID, error) {
	s, ok := m.Section(id)
	if !ok {
		return 0, fmt.Errorf("bridge parent %d: %w", id, morph.ErrUnknownSection)
	}
	last := s.LastPoint()
	d := s.LastDiameter()
	return m.AppendSection(id,
		[]r3.Vec{last, r3.Add(last, r3.Vec{Y: height})},
		[]float64{d, d})
}

// GraftBranch trims section graft of src so that it starts at the plane y,
// moves it with its descendants onto the last point of section parent of dst,
// and appends the moved subtree under parent. src is modified. It returns the
// Y component of the translation and the new id of the grafted section.
func GraftBranch(dst, src *morph.Morphology, upward bool, parent, graft morph.SectionID, y float64) (float64, morph.SectionID, error) {
	p, ok := dst.Section(parent)
	if !ok {
		return 0, 0, fmt.Errorf("graft parent %d: %w", parent, morph.ErrUnknownSection)
	}
	g, ok := src.Section(graft)
	if !ok {
		return 0, 0, fmt.Errorf("graft section %d: %w", graft, morph.ErrUnknownSection)
	}
	if err := CutAtPlane(g, morph.Y, y, upward, true); err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInternal, err, "graft section %d", graft)
	}

	translation := r3.Sub(p.LastPoint(), g.FirstPoint())
	src.Translate(graft, translation)
	g.Points[0] = p.LastPoint()

	id, err := dst.AppendSubtree(parent, src, graft)
	if err != nil {
		return 0, 0, err
	}
	return translation.Y, id, nil
}
