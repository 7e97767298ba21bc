package jitter

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/neuroc/pkg/morph"
)

// MinScale is the smallest factor a sampled scaling may take. Segments never
// shrink below 1% of their length or flip direction.
const MinScale = 0.01

// ScaleParameters describe a normal law of scaling factors. With Axis set to
// one of morph.X, morph.Y or morph.Z only that component is scaled; with
// morph.AllAxes the same factor scales all three.
type ScaleParameters struct {
	Mean float64    `toml:"mean" json:"mean"`
	Std  float64    `toml:"std" json:"std"`
	Axis morph.Axis `toml:"axis" json:"axis"`
}

// DefaultScale leaves geometry unchanged.
func DefaultScale() ScaleParameters {
	return ScaleParameters{Mean: 1, Std: 0, Axis: morph.AllAxes}
}

// UnmarshalJSON decodes a law over DefaultScale, so omitted fields keep
// their defaults.
func (p *ScaleParameters) UnmarshalJSON(data []byte) error {
	type plain ScaleParameters
	v := plain(DefaultScale())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = ScaleParameters(v)
	return nil
}

// Validate checks the standard deviation and axis.
func (p ScaleParameters) Validate() error {
	if p.Std < 0 {
		return fmt.Errorf("scale std must be >= 0, got %v", p.Std)
	}
	if p.Axis < morph.AllAxes || p.Axis > morph.Z {
		return fmt.Errorf("scale axis must be -1, 0, 1 or 2, got %d", p.Axis)
	}
	return nil
}

// sample draws one clamped factor and spreads it over the axes.
func (p ScaleParameters) sample(rng *rand.Rand) r3.Vec {
	f := max(p.Mean+p.Std*rng.NormFloat64(), MinScale)
	switch p.Axis {
	case morph.X:
		return r3.Vec{X: f, Y: 1, Z: 1}
	case morph.Y:
		return r3.Vec{X: 1, Y: f, Z: 1}
	case morph.Z:
		return r3.Vec{X: 1, Y: 1, Z: f}
	}
	return r3.Vec{X: f, Y: f, Z: f}
}

// RotationParameters describe the normal law of rotation angles, in degrees.
// PieceNumber is how many trailing points of the parent define the rotation
// axis of a leaf section.
type RotationParameters struct {
	MeanAngle   float64 `toml:"mean_angle" json:"mean_angle"`
	StdAngle    float64 `toml:"std_angle" json:"std_angle"`
	PieceNumber int     `toml:"piece_number" json:"piece_number"`
}

// DefaultRotation is the clone command's default rotation law.
func DefaultRotation() RotationParameters {
	return RotationParameters{MeanAngle: 0, StdAngle: 10, PieceNumber: 5}
}

func (p *RotationParameters) UnmarshalJSON(data []byte) error {
	type plain RotationParameters
	v := plain(DefaultRotation())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = RotationParameters(v)
	return nil
}

// Validate checks the standard deviation and piece number.
func (p RotationParameters) Validate() error {
	if p.StdAngle < 0 {
		return fmt.Errorf("rotation std must be >= 0, got %v", p.StdAngle)
	}
	if p.PieceNumber < 1 {
		return fmt.Errorf("piece number must be >= 1, got %d", p.PieceNumber)
	}
	return nil
}

// CloneParameters bundle the three laws used to build a clone.
type CloneParameters struct {
	Rotation RotationParameters `toml:"rotation" json:"rotation"`
	Segment  ScaleParameters    `toml:"segment" json:"segment"`
	Section  ScaleParameters    `toml:"section" json:"section"`
}

// DefaultClone rotates with DefaultRotation and does not scale.
func DefaultClone() CloneParameters {
	return CloneParameters{
		Rotation: DefaultRotation(),
		Segment:  DefaultScale(),
		Section:  DefaultScale(),
	}
}

// UnmarshalJSON decodes over DefaultClone. A body that names only the
// rotation keeps the default scaling laws.
func (p *CloneParameters) UnmarshalJSON(data []byte) error {
	type plain CloneParameters
	v := plain(DefaultClone())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = CloneParameters(v)
	return nil
}

// Validate checks every law.
func (p CloneParameters) Validate() error {
	if err := p.Rotation.Validate(); err != nil {
		return err
	}
	if err := p.Segment.Validate(); err != nil {
		return fmt.Errorf("segment: %w", err)
	}
	if err := p.Section.Validate(); err != nil {
		return fmt.Errorf("section: %w", err)
	}
	return nil
}
