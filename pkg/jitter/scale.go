package jitter

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/neuroc/pkg/morph"
)

// ScalingJitter stretches every section segment by segment and then as a
// whole, keeping the first point of each root fixed.
//
// For each section (post-order) one factor per segment is drawn from segment
// and one factor for the whole section from section. The scaled segment
// vectors are summed back into points starting at the section's first point.
// Child subtrees, already scaled, are moved onto the new last point.
// Diameters are not changed.
func ScalingJitter(m *morph.Morphology, segment, section ScaleParameters, rng *rand.Rand) {
	for _, root := range m.Roots() {
		for s := range m.PostOrder(root) {
			scaleSection(m, s, segment, section, rng)
		}
	}
}

// ScaleMorphology multiplies every section by a constant factor, keeping
// diameters. Factors below MinScale are clamped.
func ScaleMorphology(m *morph.Morphology, factor float64) {
	section := DefaultScale()
	section.Mean = factor
	// Std is zero, so the stream is never observed.
	ScalingJitter(m, DefaultScale(), section, rand.New(rand.NewPCG(0, 0)))
}

func scaleSection(m *morph.Morphology, s *morph.Section, segment, section ScaleParameters, rng *rand.Rand) {
	n := len(s.Points)
	xs := make([]float64, n)
	ys := make([]float64, n)
	zs := make([]float64, n)
	for i := range n {
		// the first vector is zero so the cumulative sum starts at the first point
		var d r3.Vec
		if i > 0 {
			d = r3.Sub(s.Points[i], s.Points[i-1])
		}
		f := segment.sample(rng)
		xs[i], ys[i], zs[i] = d.X*f.X, d.Y*f.Y, d.Z*f.Z
	}
	floats.CumSum(xs, xs)
	floats.CumSum(ys, ys)
	floats.CumSum(zs, zs)

	sf := section.sample(rng)
	p0 := s.FirstPoint()
	pts := make([]r3.Vec, n)
	for i := range pts {
		pts[i] = r3.Add(p0, r3.Vec{X: xs[i] * sf.X, Y: ys[i] * sf.Y, Z: zs[i] * sf.Z})
	}

	last := pts[n-1]
	shift := r3.Sub(last, s.LastPoint())
	for _, c := range m.Children(s.ID) {
		m.Translate(c, shift)
		child, _ := m.Section(c)
		child.Points[0] = last
	}
	s.Points = pts
}
