// Package pkg provides the core libraries of neuroc, a toolkit that builds new
// neuron morphologies from existing ones.
//
// # Overview
//
// The pkg directory is organized into four areas:
//
//  1. Model: [morph] (section tree), [io] (SWC and JSON codecs, afs storage)
//     and [annotation] (placement rules)
//  2. Algorithms: [shrink] (axon cut and graft), [jitter] (clones and
//     scaling) and [rescale] (rat to human scaling)
//  3. Orchestration: [pipeline] (batch runs over folders), [cache] and
//     [report] (batch summaries and metadata.csv)
//  4. Surfaces: [api] (HTTP) and [render/topology] (section tree diagrams)
//
// # Architecture
//
// The typical data flow of a batch:
//
//	morphology folder + annotations
//	         ↓
//	    [io] package (list, download, decode)
//	         ↓
//	    [shrink] / [jitter] / [rescale] (transform one cell)
//	         ↓
//	    [io] package (encode, upload)
//	         ↓
//	    [report] package (summary of skipped cells)
//
// # Quick Start
//
// Shrink the axon of one cell at a bridge height of 50 µm:
//
//	import (
//	    "github.com/matzehuels/neuroc/pkg/annotation"
//	    "github.com/matzehuels/neuroc/pkg/io"
//	    "github.com/matzehuels/neuroc/pkg/shrink"
//	)
//
//	m, _ := io.Load(ctx, afs.New(), "cells/cell.swc")
//	doc, _ := annotation.Parse(xmlData)
//	rules, _ := doc.Rules()
//	coords, _ := shrink.CoordinatesFromRules(rules)
//	res, err := shrink.CutAndGraft(m, coords, 50)
//
// Or run the whole folder through a [pipeline.Runner]:
//
//	runner := pipeline.NewRunner(afs.New(), nil, nil, logger)
//	summary, err := runner.ShrinkAll(ctx, pipeline.ShrinkOptions{
//	    Input:       "cells/",
//	    Annotations: "annotations/",
//	    Output:      "out/",
//	})
//
// # Errors
//
// Operations return coded errors from [errors]. A cell without an axon, with
// several axons, with nothing to cut, or with an annotation missing its axon
// rule fails with a domain code; batches record those and go on.
package pkg
