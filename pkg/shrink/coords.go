package shrink

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/neuroc/pkg/annotation"
	"github.com/matzehuels/neuroc/pkg/errors"
)

// Coordinates locate the cut and graft planes along Y.
type Coordinates struct {
	// Upward is true when the axon annotation starts above the dendrite one.
	Upward bool
	// YStartCut is where the main branch is cut: the far end of the dendrite
	// interval.
	YStartCut float64
	// YStartGraft is where the grafted part begins: the near end of the axon
	// interval.
	YStartGraft float64
}

// CoordinatesFromRules derives the cut and graft planes from the dendrite and
// axon placement rules. A missing axon rule fails with NO_AXON_ANNOTATION; a
// missing dendrite rule is an input error.
func CoordinatesFromRules(rules annotation.Rules) (Coordinates, error) {
	axon, ok := rules[annotation.RuleAxon]
	if !ok {
		return Coordinates{}, errors.New(errors.ErrCodeNoAxonAnnotation, "No axon annotation")
	}
	dend, ok := rules[annotation.RuleDendrite]
	if !ok {
		return Coordinates{}, errors.New(errors.ErrCodeInvalidInput, "No dendrite annotation")
	}

	c := Coordinates{Upward: dend.YMin < axon.YMin}
	if c.Upward {
		c.YStartGraft = axon.YMin
		c.YStartCut = dend.YMax
	} else {
		c.YStartGraft = axon.YMax
		c.YStartCut = dend.YMin
	}
	return c, nil
}

// HeightRange returns the gap between the far end of the dendrite interval
// and the near end of the axon interval.
func HeightRange(rules annotation.Rules, upward bool) float64 {
	axon, dend := rules[annotation.RuleAxon], rules[annotation.RuleDendrite]
	if upward {
		return math.Abs(axon.YMin - dend.YMax)
	}
	return math.Abs(axon.YMax - dend.YMin)
}

// Heights returns the bridge heights to generate. Explicit heights are used
// as given; otherwise n values are spaced evenly from 0 to the height range.
// Heights are negated when the axon grows downward.
func Heights(rules annotation.Rules, upward bool, explicit []float64, n int) []float64 {
	hs := explicit
	if len(hs) == 0 {
		hs = Linspace(0, HeightRange(rules, upward), n)
	}
	out := make([]float64, len(hs))
	for i, h := range hs {
		if !upward {
			h = -h
		}
		out[i] = h
	}
	return out
}

// Linspace returns n evenly spaced values over [start, stop].
func Linspace(start, stop float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{start}
	}
	return floats.Span(make([]float64, n), start, stop)
}
