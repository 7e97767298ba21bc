package pipeline

import (
	"context"
	"path"

	"github.com/viant/afs/url"

	pkgio "github.com/matzehuels/neuroc/pkg/io"
	"github.com/matzehuels/neuroc/pkg/jitter"
	"github.com/matzehuels/neuroc/pkg/report"
)

// Scale multiplies every section of the morphology in data by factor and
// encodes the result in the format of name.
func (r *Runner) Scale(name string, data []byte, factor float64) ([]byte, error) {
	m, err := pkgio.Decode(name, data)
	if err != nil {
		return nil, err
	}
	jitter.ScaleMorphology(m, factor)
	return pkgio.Encode(name, m)
}

// ScaleFile scales the morphology at input by factor and writes it to output.
// Input and output must share a format.
func (r *Runner) ScaleFile(ctx context.Context, input, output string, factor float64) error {
	opts := ScaleOptions{Input: input, Output: output, Scaling: factor}
	if err := opts.Validate(); err != nil {
		return err
	}
	data, err := pkgio.Download(ctx, r.FS, input)
	if err != nil {
		return err
	}
	out, err := r.Scale(input, data, factor)
	if err != nil {
		return err
	}
	if err := pkgio.Upload(ctx, r.FS, output, out); err != nil {
		return err
	}
	r.Logger.Debug("scaled", "file", input, "factor", factor)
	return nil
}

// ScaleFolder scales every morphology of opts.Input and writes it under the
// same name to opts.Output.
func (r *Runner) ScaleFolder(ctx context.Context, opts ScaleOptions) (*report.Summary, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	files, err := r.inputs(ctx, opts.Input)
	if err != nil {
		return nil, err
	}
	if err := pkgio.EnsureDir(ctx, r.FS, opts.Output); err != nil {
		return nil, err
	}
	return r.run(ctx, "scale", files, func(ctx context.Context, _ int, file string) (int, error) {
		if err := r.ScaleFile(ctx, file, url.Join(opts.Output, path.Base(file)), opts.Scaling); err != nil {
			return 0, err
		}
		return 1, nil
	})
}
