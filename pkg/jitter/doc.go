// Package jitter produces randomized variants ("clones") of a morphology.
//
// Two passes perturb the geometry while keeping the tree connected:
//
//   - [RotationalJitter] rotates each non-root section, and everything
//     attached to it, about the section's first point.
//   - [ScalingJitter] stretches each section segment by segment and then as a
//     whole, moving child subtrees so they stay attached.
//
// Both passes draw from an explicit *rand.Rand. Batch drivers give every item
// its own generator via [NewRand], so clones are reproducible from a seed and
// independent of worker scheduling:
//
//	rng := jitter.NewRand(seed, i)
//	clone := jitter.CreateClone(m, jitter.DefaultClone(), rng)
//
// [ScaleMorphology] is the deterministic special case used by the scale
// commands: every section is multiplied by one constant factor.
package jitter
