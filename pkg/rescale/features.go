package rescale

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/neuroc/pkg/morph"
)

// Features are the dendritic measurements compared between species.
type Features struct {
	// YStd is the standard deviation of dendritic point Y coordinates.
	YStd float64
	// RadialStd is the standard deviation of the distance of dendritic points
	// to the Y axis.
	RadialStd float64
	// Diameter is the mean diameter over dendritic points.
	Diameter float64
}

// DendriticPoints returns the points and diameters of every non-axon neurite.
// Each neurite contributes its root's first point and then every point except
// the first of each section, so branch points are not counted twice.
func DendriticPoints(m *morph.Morphology) ([]r3.Vec, []float64) {
	var pts []r3.Vec
	var diams []float64
	for _, root := range m.Roots() {
		r, _ := m.Section(root)
		if r.Type == morph.Axon {
			continue
		}
		pts = append(pts, r.Points[0])
		diams = append(diams, r.Diameters[0])
		for s := range m.Iter(root) {
			pts = append(pts, s.Points[1:]...)
			diams = append(diams, s.Diameters[1:]...)
		}
	}
	return pts, diams
}

// Measure computes the features of one morphology. Standard deviations are
// population deviations. A morphology without dendrites yields NaN features.
func Measure(m *morph.Morphology) Features {
	pts, diams := DendriticPoints(m)
	if len(pts) == 0 {
		return Features{YStd: math.NaN(), RadialStd: math.NaN(), Diameter: math.NaN()}
	}
	ys := make([]float64, len(pts))
	radial := make([]float64, len(pts))
	for i, p := range pts {
		ys[i] = p.Y
		radial[i] = math.Hypot(p.X, p.Z)
	}
	return Features{
		YStd:      popStd(ys),
		RadialStd: popStd(radial),
		Diameter:  stat.Mean(diams, nil),
	}
}

func popStd(x []float64) float64 {
	_, v := stat.PopMeanVariance(x, nil)
	return math.Sqrt(v)
}

// Factors scale a rat cell to human dimensions.
type Factors struct {
	Y    float64
	XZ   float64
	Diam float64
}

// ComputeFactors returns the ratio of the mean human features to the mean rat
// features.
func ComputeFactors(humans, rats []Features) Factors {
	h, r := meanFeatures(humans), meanFeatures(rats)
	return Factors{
		Y:    h.YStd / r.YStd,
		XZ:   h.RadialStd / r.RadialStd,
		Diam: h.Diameter / r.Diameter,
	}
}

func meanFeatures(fs []Features) Features {
	ys := make([]float64, len(fs))
	xzs := make([]float64, len(fs))
	ds := make([]float64, len(fs))
	for i, f := range fs {
		ys[i], xzs[i], ds[i] = f.YStd, f.RadialStd, f.Diameter
	}
	return Features{
		YStd:      stat.Mean(ys, nil),
		RadialStd: stat.Mean(xzs, nil),
		Diameter:  stat.Mean(ds, nil),
	}
}
