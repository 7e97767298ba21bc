package jitter

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/neuroc/pkg/morph"
)

// PrincipalDirection returns the first principal component of the unit
// vectors going from the first point of section id to every point of the
// section and its descendants. The first point of each section is left out
// since it repeats the parent's last point. Zero-length vectors are dropped.
//
// The sign is chosen so that the largest component is positive. It reports
// false when no direction can be estimated.
func PrincipalDirection(m *morph.Morphology, id morph.SectionID) (r3.Vec, bool) {
	s, ok := m.Section(id)
	if !ok {
		return r3.Vec{}, false
	}
	p0 := s.FirstPoint()

	var data []float64
	for sub := range m.Iter(id) {
		for _, p := range sub.Points[1:] {
			d := r3.Sub(p, p0)
			if r3.Norm(d) == 0 {
				continue
			}
			u := r3.Unit(d)
			data = append(data, u.X, u.Y, u.Z)
		}
	}

	switch n := len(data) / 3; n {
	case 0:
		return r3.Vec{}, false
	case 1:
		return orient(r3.Vec{X: data[0], Y: data[1], Z: data[2]}), true
	default:
		var pc stat.PC
		if !pc.PrincipalComponents(mat.NewDense(n, 3, data), nil) {
			return r3.Vec{}, false
		}
		var vecs mat.Dense
		pc.VectorsTo(&vecs)
		return orient(r3.Vec{X: vecs.At(0, 0), Y: vecs.At(1, 0), Z: vecs.At(2, 0)}), true
	}
}

// orient flips v so that its largest-magnitude component is positive.
func orient(v r3.Vec) r3.Vec {
	c := [3]float64{v.X, v.Y, v.Z}
	best := 0
	for i := 1; i < 3; i++ {
		if math.Abs(c[i]) > math.Abs(c[best]) {
			best = i
		}
	}
	if c[best] < 0 {
		return r3.Scale(-1, v)
	}
	return v
}
