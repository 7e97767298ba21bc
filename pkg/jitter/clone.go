package jitter

import (
	"fmt"
	"math/rand/v2"
	"path"

	"github.com/matzehuels/neuroc/pkg/morph"
)

// CreateClone returns a jittered copy of m: rotational jitter followed by
// scaling jitter. m is not modified.
func CreateClone(m *morph.Morphology, p CloneParameters, rng *rand.Rand) *morph.Morphology {
	c := m.Clone()
	RotationalJitter(c, p.Rotation, rng)
	ScalingJitter(c, p.Segment, p.Section, rng)
	return c
}

// CloneName returns the output file name of clone i of the file at location:
// "{stem}_clone_{i}{ext}".
func CloneName(location string, i int) string {
	base := path.Base(location)
	ext := path.Ext(base)
	return fmt.Sprintf("%s_clone_%d%s", base[:len(base)-len(ext)], i, ext)
}

// NewRand returns the generator used for item index of a seeded batch.
// Every item gets its own stream so results do not depend on scheduling.
func NewRand(seed uint64, index int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef^uint64(index)))
}
