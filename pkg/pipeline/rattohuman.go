package pipeline

import (
	"bytes"
	"context"

	"github.com/viant/afs/url"
	"golang.org/x/sync/errgroup"

	pkgio "github.com/matzehuels/neuroc/pkg/io"
	"github.com/matzehuels/neuroc/pkg/report"
	"github.com/matzehuels/neuroc/pkg/rescale"
)

// RatToHumanResult is the outcome of RatToHuman.
type RatToHumanResult struct {
	Summary *report.Summary
	// Records are the rows written to metadata.csv, in group order.
	Records []report.ScaleRecord
	// Missing lists mapped rat mtypes without any cell.
	Missing []rescale.Missing
}

// RatToHuman scales the rat cells of every mapped group to the dimensions of
// the group's human cells. Scaled cells and metadata.csv are written to
// opts.Output.
func (r *Runner) RatToHuman(ctx context.Context, opts RatToHumanOptions) (*RatToHumanResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := rescale.ValidateFolders(ctx, r.FS, opts.HumanDir, opts.RatDir); err != nil {
		return nil, err
	}
	raw, err := pkgio.Download(ctx, r.FS, opts.Mapping)
	if err != nil {
		return nil, err
	}
	mapping, err := rescale.ParseMapping(raw)
	if err != nil {
		return nil, err
	}
	catalog, err := rescale.LoadCatalog(ctx, r.FS, opts.HumanDir, opts.RatDir)
	if err != nil {
		return nil, err
	}
	groups, missing := catalog.Match(mapping)
	for _, m := range missing {
		r.Logger.Warn("rat mtype not found", "layer", m.Layer, "human", m.Human, "rat", m.Rat)
	}
	if err := pkgio.EnsureDir(ctx, r.FS, opts.Output); err != nil {
		return nil, err
	}

	items := make([]string, len(groups))
	for i, g := range groups {
		items[i] = g.Layer + "/" + g.MType
	}
	records := make([][]report.ScaleRecord, len(groups))
	summary, err := r.run(ctx, "rat-to-human", items, func(ctx context.Context, i int, item string) (int, error) {
		g := groups[i]
		if len(g.Humans) == 0 {
			r.Logger.Debug("no human cell", "group", item)
			return 0, nil
		}
		if len(g.Rats) == 0 {
			r.Logger.Warn("no rat cell, skipping", "group", item)
			return 0, nil
		}
		recs, err := r.scaleGroup(ctx, g, opts.Output)
		if err != nil {
			return 0, err
		}
		records[i] = recs
		return len(recs), nil
	})
	if err != nil {
		return nil, err
	}

	res := &RatToHumanResult{Summary: summary, Missing: missing}
	for _, recs := range records {
		res.Records = append(res.Records, recs...)
	}
	var buf bytes.Buffer
	if err := report.WriteMetadata(&buf, res.Records); err != nil {
		return nil, err
	}
	if err := pkgio.Upload(ctx, r.FS, url.Join(opts.Output, report.MetadataFile), buf.Bytes()); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Runner) scaleGroup(ctx context.Context, g rescale.Group, output string) ([]report.ScaleRecord, error) {
	humans, err := r.measureAll(ctx, g.Humans)
	if err != nil {
		return nil, err
	}
	rats, err := r.measureAll(ctx, g.Rats)
	if err != nil {
		return nil, err
	}
	f := rescale.ComputeFactors(humans, rats)
	r.Logger.Info("scaling group", "layer", g.Layer, "mtype", g.MType,
		"humans", len(g.Humans), "rats", len(g.Rats), "y", f.Y, "xz", f.XZ, "diam", f.Diam)

	recs := make([]report.ScaleRecord, 0, len(g.Rats))
	for _, rat := range g.Rats {
		m, err := pkgio.Load(ctx, r.FS, rat)
		if err != nil {
			return nil, err
		}
		rescale.ScaleCell(m, f)
		if err := pkgio.Save(ctx, r.FS, url.Join(output, rescale.OutputName(rat, f)), m); err != nil {
			return nil, err
		}
		recs = append(recs, report.ScaleRecord{Name: rat, Y: f.Y, XZ: f.XZ, Diam: f.Diam})
	}
	return recs, nil
}

// measureAll loads and measures cells concurrently, keeping their order.
func (r *Runner) measureAll(ctx context.Context, cells []string) ([]rescale.Features, error) {
	out := make([]rescale.Features, len(cells))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i, cell := range cells {
		g.Go(func() error {
			m, err := pkgio.Load(gctx, r.FS, cell)
			if err != nil {
				return err
			}
			out[i] = rescale.Measure(m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
