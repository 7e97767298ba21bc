package jitter

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/neuroc/pkg/morph"
)

// RotationalJitter rotates every non-root section, with its whole subtree,
// about its first point by an angle drawn from p.
//
// Sections are visited in post-order so descendants are settled before their
// ancestors move them rigidly. A leaf rotates about the tangent of its parent
// over the parent's last PieceNumber points; any other section rotates about
// its PrincipalDirection. A section with a degenerate axis still consumes its
// angle sample but is left in place.
func RotationalJitter(m *morph.Morphology, p RotationParameters, rng *rand.Rand) {
	for _, root := range m.Roots() {
		for s := range m.PostOrder(root) {
			if m.IsRoot(s.ID) {
				continue
			}
			axis, ok := rotationAxis(m, s, p.PieceNumber)
			theta := (p.MeanAngle + p.StdAngle*rng.NormFloat64()) * math.Pi / 180
			if !ok {
				continue
			}
			rotateSubtree(m, s.ID, s.FirstPoint(), r3.NewRotation(theta, axis))
		}
	}
}

func rotationAxis(m *morph.Morphology, s *morph.Section, pieces int) (r3.Vec, bool) {
	var axis r3.Vec
	if m.IsLeaf(s.ID) {
		pid, _ := m.Parent(s.ID)
		parent, _ := m.Section(pid)
		n := len(parent.Points)
		k := min(max(pieces, 1), n)
		axis = r3.Sub(parent.LastPoint(), parent.Points[n-k])
	} else {
		var ok bool
		if axis, ok = PrincipalDirection(m, s.ID); !ok {
			return r3.Vec{}, false
		}
	}
	if r3.Norm(axis) == 0 {
		return r3.Vec{}, false
	}
	return r3.Unit(axis), true
}

func rotateSubtree(m *morph.Morphology, id morph.SectionID, origin r3.Vec, rot r3.Rotation) {
	for s := range m.Iter(id) {
		for i, p := range s.Points {
			s.Points[i] = r3.Add(origin, rot.Rotate(r3.Sub(p, origin)))
		}
	}
}
