package shrink

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/neuroc/pkg/morph"
)

// ErrNoCrossing is returned by CutAtPlane when no point of the section lies
// on the requested side of the plane.
var ErrNoCrossing = errors.New("section does not cross the plane")

// CutAtPlane trims a section at the plane where the given axis equals value.
//
// The crossing index is the first point i for which (p[i][axis] > value)
// equals upward. When i is 0 the section already starts past the plane and is
// left untouched. Otherwise a boundary point is interpolated linearly (position
// and diameter) between points i-1 and i at the plane. With cutBefore the
// section becomes the boundary point followed by points i onwards; without it
// the section becomes points before i followed by the boundary point.
func CutAtPlane(s *morph.Section, axis morph.Axis, value float64, upward, cutBefore bool) error {
	idx := -1
	for i, p := range s.Points {
		if (axis.Of(p) > value) == upward {
			idx = i
			break
		}
	}
	switch {
	case idx < 0:
		return ErrNoCrossing
	case idx == 0:
		return nil
	}

	point, diam := interpolate(s, idx-1, idx, axis, value)
	if cutBefore {
		s.Points = append([]r3.Vec{point}, s.Points[idx:]...)
		s.Diameters = append([]float64{diam}, s.Diameters[idx:]...)
	} else {
		s.Points = append(s.Points[:idx:idx], point)
		s.Diameters = append(s.Diameters[:idx:idx], diam)
	}
	return nil
}

// interpolate returns the point and diameter at the fraction of the way from
// point i to point j where the axis reaches value.
func interpolate(s *morph.Section, i, j int, axis morph.Axis, value float64) (r3.Vec, float64) {
	p1, p2 := s.Points[i], s.Points[j]
	d1, d2 := s.Diameters[i], s.Diameters[j]
	frac := (value - axis.Of(p1)) / (axis.Of(p2) - axis.Of(p1))
	return r3.Add(p1, r3.Scale(frac, r3.Sub(p2, p1))), d1 + frac*(d2-d1)
}
