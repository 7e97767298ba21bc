// Package pipeline runs the morphology operations over whole folders.
//
// The CLI, the HTTP server and tests share one [Runner]. It owns the file
// system (any afs URL), the result cache and the logger, and fans items out to
// a bounded pool of workers.
//
// # Operations
//
//   - [Runner.ShrinkAll]: cut and graft every morphology of a folder at
//     several bridge heights, writing a morphology and an annotation per height
//   - [Runner.CloneAll]: write jittered clones of one morphology or a folder
//   - [Runner.ScaleFolder] and [Runner.ScaleFile]: scale by a constant factor
//   - [Runner.RatToHuman]: rescale rat cells to the dimensions of human cells
//
// # Failures
//
// An item that fails with an expected domain error (a neuron without an
// axon, an annotation without an axon rule, ...) is recorded in the returned
// [report.Summary] and the batch goes on. Any other error cancels the
// remaining items and is returned.
//
// # Usage
//
//	runner := pipeline.NewRunner(afs.New(), cache, nil, logger)
//	summary, err := runner.ShrinkAll(ctx, pipeline.ShrinkOptions{
//	    Input:       "cells/",
//	    Annotations: "annotations/",
//	    Output:      "out/",
//	    NSamples:    5,
//	})
package pipeline

import (
	"math"
	"runtime"

	"github.com/matzehuels/neuroc/pkg/errors"
	"github.com/matzehuels/neuroc/pkg/jitter"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultNSamples is how many heights are spaced over the annotation gap
	// when none are given.
	DefaultNSamples = 10

	// DefaultClones is how many clones CloneAll writes per input.
	DefaultClones = 10

	// DefaultSeed seeds clone generation.
	DefaultSeed = uint64(42)

	// DefaultScaling is the identity scaling factor.
	DefaultScaling = 1.0
)

// DefaultWorkers is the size of the worker pool when none is configured.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// =============================================================================
// Options
// =============================================================================

// ShrinkOptions configure ShrinkAll.
type ShrinkOptions struct {
	// Input is a morphology file or a folder of morphologies.
	Input string `json:"input"`
	// Annotations is the folder holding one "{stem}.xml" per input.
	Annotations string `json:"annotations"`
	// Output is created if missing.
	Output string `json:"output"`
	// Heights are explicit bridge heights. When empty, NSamples heights are
	// spaced from 0 to the annotation gap.
	Heights  []float64 `json:"heights,omitempty"`
	NSamples int       `json:"nsamples,omitempty"`
	// Refresh ignores cached results.
	Refresh bool `json:"refresh,omitempty"`
}

// SetDefaults fills unset fields.
func (o *ShrinkOptions) SetDefaults() {
	if o.NSamples == 0 && len(o.Heights) == 0 {
		o.NSamples = DefaultNSamples
	}
}

// Validate checks required fields and values.
func (o *ShrinkOptions) Validate() error {
	if err := requireAll(map[string]string{"input": o.Input, "annotations": o.Annotations, "output": o.Output}); err != nil {
		return err
	}
	if o.NSamples < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "nsamples must be >= 0, got %d", o.NSamples)
	}
	for _, h := range o.Heights {
		if math.IsNaN(h) || math.IsInf(h, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "height must be finite, got %v", h)
		}
	}
	return nil
}

// CloneOptions configure CloneAll.
type CloneOptions struct {
	// Input is a morphology file or a folder of morphologies.
	Input  string `json:"input"`
	Output string `json:"output"`
	// N is the number of clones per input.
	N    int    `json:"n"`
	Seed uint64 `json:"seed"`
	// Params are the jitter laws. The zero value, which is never valid,
	// means jitter.DefaultClone.
	Params  jitter.CloneParameters `json:"params"`
	Refresh bool                   `json:"refresh,omitempty"`
}

// SetDefaults fills unset fields.
func (o *CloneOptions) SetDefaults() {
	if o.N == 0 {
		o.N = DefaultClones
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Params == (jitter.CloneParameters{}) {
		o.Params = jitter.DefaultClone()
	}
}

// Validate checks required fields and the jitter laws.
func (o *CloneOptions) Validate() error {
	if err := requireAll(map[string]string{"input": o.Input, "output": o.Output}); err != nil {
		return err
	}
	if o.N < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "number of clones must be >= 1, got %d", o.N)
	}
	if err := o.Params.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid jitter parameters")
	}
	return nil
}

// ScaleOptions configure ScaleFolder.
type ScaleOptions struct {
	Input   string  `json:"input"`
	Output  string  `json:"output"`
	Scaling float64 `json:"scaling"`
}

// Validate checks required fields and the factor. A zero factor is rejected
// rather than defaulted.
func (o *ScaleOptions) Validate() error {
	if err := requireAll(map[string]string{"input": o.Input, "output": o.Output}); err != nil {
		return err
	}
	if !(o.Scaling > 0) || math.IsInf(o.Scaling, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "scaling must be a positive number, got %v", o.Scaling)
	}
	return nil
}

// RatToHumanOptions configure RatToHuman.
type RatToHumanOptions struct {
	HumanDir string `json:"human_dir"`
	RatDir   string `json:"rat_dir"`
	// Mapping is the location of the YAML mtype mapping.
	Mapping string `json:"mapping"`
	Output  string `json:"output"`
}

// Validate checks required fields.
func (o *RatToHumanOptions) Validate() error {
	return requireAll(map[string]string{
		"human folder": o.HumanDir,
		"rat folder":   o.RatDir,
		"mapping":      o.Mapping,
		"output":       o.Output,
	})
}

func requireAll(fields map[string]string) error {
	for _, name := range []string{"input", "annotations", "human folder", "rat folder", "mapping", "output"} {
		v, ok := fields[name]
		if !ok {
			continue
		}
		if v == "" {
			return errors.New(errors.ErrCodeInvalidInput, "%s is required", name)
		}
		if err := errors.ValidateDir(v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "invalid %s", name)
		}
	}
	return nil
}
