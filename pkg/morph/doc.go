// Package morph provides a mutable neuronal morphology: a soma plus a forest
// of sections, each section a polyline of 3D points with one diameter per point.
//
// # Overview
//
// All sections of a [Morphology] live in a single arena and are addressed by
// [SectionID]. Parent and child links are ids, never pointers, so mutating one
// section's geometry never invalidates references held elsewhere. Ids are
// stable for the lifetime of the morphology and are never reused after a
// deletion.
//
// # Basic Usage
//
//	m := morph.New()
//	root, _ := m.AddRoot(morph.Axon,
//	    []r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 0, Y: -4, Z: 0}},
//	    []float64{2, 2})
//	child, _ := m.AppendSection(root,
//	    []r3.Vec{{X: 0, Y: -4, Z: 0}, {X: 6, Y: -4, Z: 0}},
//	    []float64{2, 2})
//
// Traverse with [Morphology.Iter] (pre-order), [Morphology.PostOrder] and
// [Morphology.Upstream]; query links with [Morphology.Parent] and
// [Morphology.Children].
//
// # Copies
//
// [Morphology.Clone] produces an independent arena in which every id refers to
// the section with the same id in the source. Algorithms that need a pristine
// reference next to a mutated copy rely on this correspondence.
// [Morphology.AppendSubtree] copies a subtree from any morphology (including
// the receiver) under a new parent and assigns fresh ids.
//
// # Continuity
//
// The first point of every non-root section equals the last point of its
// parent. [Morphology.AppendSection] does not enforce this, since callers
// often build sections before fixing geometry; [Morphology.Validate] checks it.
//
// # Concurrency
//
// A Morphology is not safe for concurrent use. Independent morphologies share
// no state and may be processed in parallel.
package morph
