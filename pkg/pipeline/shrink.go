package pipeline

import (
	"context"
	"encoding/json"
	"path"

	"github.com/viant/afs/url"

	"github.com/matzehuels/neuroc/pkg/annotation"
	"github.com/matzehuels/neuroc/pkg/cache"
	pkgio "github.com/matzehuels/neuroc/pkg/io"
	"github.com/matzehuels/neuroc/pkg/report"
	"github.com/matzehuels/neuroc/pkg/shrink"
)

// ShrinkOutput is one height variant of a shrunk morphology.
type ShrinkOutput struct {
	Height float64 `json:"height"`
	YDiff  float64 `json:"y_diff"`
	// Name is the morphology file name; the annotation is named the same
	// with an ".xml" extension.
	Name       string `json:"name"`
	Morphology []byte `json:"morphology"`
	Annotation []byte `json:"annotation"`
}

// AnnotationName returns the file name of the annotation of o.
func (o ShrinkOutput) AnnotationName() string {
	return pkgio.Stem(o.Name) + ".xml"
}

// ShrinkName returns "{stem}_height_{h}{ext}" for the file at location.
func ShrinkName(location string, height float64) string {
	return pkgio.Stem(location) + "_height_" + pkgio.FormatFloat(height) + path.Ext(location)
}

// Shrink cuts and grafts the morphology in data at each height. name gives
// the format and the output names. The axon rule of each output annotation is
// shifted by the distance the grafted part moved.
//
// heights and nSamples behave as in ShrinkOptions.
func (r *Runner) Shrink(ctx context.Context, name string, data, annot []byte, heights []float64, nSamples int, refresh bool) ([]ShrinkOutput, error) {
	doc, err := annotation.Parse(annot)
	if err != nil {
		return nil, err
	}
	rules, err := doc.Rules()
	if err != nil {
		return nil, err
	}
	coords, err := shrink.CoordinatesFromRules(rules)
	if err != nil {
		return nil, err
	}
	m, err := pkgio.Decode(name, data)
	if err != nil {
		return nil, err
	}

	inputHash := cache.Hash(data)
	annotHash := cache.Hash(annot)
	hs := shrink.Heights(rules, coords.Upward, heights, nSamples)
	out := make([]ShrinkOutput, 0, len(hs))
	for _, h := range hs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		key := r.Keyer.ShrinkKey(inputHash, cache.ShrinkKeyOpts{
			AnnotationHash: annotHash,
			Height:         h,
			Format:         string(pkgio.FormatOf(name)),
		})
		raw, err := r.cached(ctx, "shrink", key, cache.TTLShrink, refresh, func() ([]byte, error) {
			res, err := shrink.CutAndGraft(m, coords, h)
			if err != nil {
				return nil, err
			}
			morphData, err := pkgio.Encode(name, res.Morphology)
			if err != nil {
				return nil, err
			}
			updated := doc.Clone()
			if err := updated.UpdateRule(annotation.RuleAxon, rules[annotation.RuleAxon].Shift(res.YDiff)); err != nil {
				return nil, err
			}
			annotData, err := updated.Bytes()
			if err != nil {
				return nil, err
			}
			return json.Marshal(ShrinkOutput{
				Height:     h,
				YDiff:      res.YDiff,
				Morphology: morphData,
				Annotation: annotData,
			})
		})
		if err != nil {
			return nil, err
		}

		var o ShrinkOutput
		if err := json.Unmarshal(raw, &o); err != nil {
			return nil, err
		}
		o.Name = ShrinkName(name, h)
		out = append(out, o)
		r.Logger.Debug("shrunk", "file", name, "height", h, "y_diff", o.YDiff)
	}
	return out, nil
}

// ShrinkAll shrinks every input at every height and writes the morphology
// and the updated annotation of each variant to opts.Output. Each input needs
// an annotation "{stem}.xml" in opts.Annotations.
func (r *Runner) ShrinkAll(ctx context.Context, opts ShrinkOptions) (*report.Summary, error) {
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

	return r.run(ctx, "shrink", files, func(ctx context.Context, _ int, file string) (int, error) {
		data, err := pkgio.Download(ctx, r.FS, file)
		if err != nil {
			return 0, err
		}
		annot, err := pkgio.Download(ctx, r.FS, url.Join(opts.Annotations, pkgio.Stem(file)+".xml"))
		if err != nil {
			return 0, err
		}
		outputs, err := r.Shrink(ctx, file, data, annot, opts.Heights, opts.NSamples, opts.Refresh)
		if err != nil {
			return 0, err
		}
		for _, o := range outputs {
			if err := pkgio.Upload(ctx, r.FS, url.Join(opts.Output, o.Name), o.Morphology); err != nil {
				return 0, err
			}
			if err := pkgio.Upload(ctx, r.FS, url.Join(opts.Output, o.AnnotationName()), o.Annotation); err != nil {
				return 0, err
			}
		}
		r.Logger.Info("shrunk", "file", path.Base(file), "heights", len(outputs))
		return 2 * len(outputs), nil
	})
}
