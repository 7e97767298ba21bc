// Package io reads and writes neuronal morphologies.
//
// # Formats
//
// SWC is the exchange format: one sample per line,
//
//	index type x y z radius parent
//
// with '#' comments. [ReadSWC] builds a [morph.Morphology] from the samples:
// type 1 samples form the soma, every other chain is split into sections at
// branch points, and each section that starts at a branch point repeats its
// parent's last point. [WriteSWC] reverses this and drops the repeated points.
//
// A JSON rendition of the section tree ([ReadJSON], [WriteJSON]) is used by the
// HTTP API and for debugging. Neurolucida (.asc) and HDF5 (.h5) files are
// recognized by [IsMorphologyFile] so batch listings match the usual folder
// contents, but [Decode] rejects them with an UNSUPPORTED error.
//
// # Storage
//
// [Load], [Save], [ListMorphologies] and [EnsureDir] go through an
// afs.Service, so batch drivers work the same on local folders and on any
// storage afs supports (file://, mem://, gs://, s3://):
//
//	fs := afs.New()
//	m, err := io.Load(ctx, fs, "/data/cells/C010398B-P2.swc")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = io.Save(ctx, fs, "/data/out/C010398B-P2.swc", m)
//
// # Concurrency
//
// All functions are safe for concurrent use on distinct morphologies.
package io
