package pipeline

import (
	"context"
	"fmt"

	"github.com/viant/afs/url"

	"github.com/matzehuels/neuroc/pkg/cache"
	pkgio "github.com/matzehuels/neuroc/pkg/io"
	"github.com/matzehuels/neuroc/pkg/jitter"
	"github.com/matzehuels/neuroc/pkg/report"
)

// Clone returns clone index of the morphology in data, encoded in the format
// of name. The clone draws from jitter.NewRand(seed, index), so the same
// arguments always give the same bytes.
func (r *Runner) Clone(ctx context.Context, name string, data []byte, p jitter.CloneParameters, seed uint64, index int, refresh bool) ([]byte, error) {
	key := r.Keyer.CloneKey(cache.Hash(data), cache.CloneKeyOpts{
		Seed:   seed,
		Index:  index,
		Format: string(pkgio.FormatOf(name)),
		Params: p,
	})
	return r.cached(ctx, "clone", key, cache.TTLClone, refresh, func() ([]byte, error) {
		m, err := pkgio.Decode(name, data)
		if err != nil {
			return nil, err
		}
		c := jitter.CreateClone(m, p, jitter.NewRand(seed, index))
		return pkgio.Encode(name, c)
	})
}

// CloneAll writes opts.N clones of every input to opts.Output as
// "{stem}_clone_{i}{ext}". Clone i of every input uses the same seed stream,
// so adding inputs does not change existing clones.
func (r *Runner) CloneAll(ctx context.Context, opts CloneOptions) (*report.Summary, error) {
	opts.SetDefaults()
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

	type job struct {
		file  string
		index int
	}
	jobs := make([]job, 0, len(files)*opts.N)
	items := make([]string, 0, cap(jobs))
	for _, f := range files {
		for i := range opts.N {
			jobs = append(jobs, job{f, i})
			items = append(items, fmt.Sprintf("%s#%d", f, i))
		}
	}

	return r.run(ctx, "clone", items, func(ctx context.Context, k int, _ string) (int, error) {
		j := jobs[k]
		data, err := pkgio.Download(ctx, r.FS, j.file)
		if err != nil {
			return 0, err
		}
		out, err := r.Clone(ctx, j.file, data, opts.Params, opts.Seed, j.index, opts.Refresh)
		if err != nil {
			return 0, err
		}
		if err := pkgio.Upload(ctx, r.FS, url.Join(opts.Output, jitter.CloneName(j.file, j.index)), out); err != nil {
			return 0, err
		}
		return 1, nil
	})
}
