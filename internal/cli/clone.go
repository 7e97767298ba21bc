package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/neuroc/pkg/morph"
	"github.com/matzehuels/neuroc/pkg/pipeline"
	"github.com/matzehuels/neuroc/pkg/report"
)

// cloneCommand creates the clone command.
func (c *CLI) cloneCommand() *cobra.Command {
	var (
		opts       pipeline.CloneOptions
		configPath string
		flags      cloneFlags
	)

	cmd := &cobra.Command{
		Use:   "clone FILE OUTPUT",
		Short: "Create jittered clones of morphologies",
		Long: `Create N clones of a morphology (or of every morphology of a folder) by
rotating sections around their parent's direction and scaling segments and
sections with random factors.

Clones are written as "{name}_clone_{i}{ext}". The same --seed always yields the
same clones, whatever the number of workers.

Jitter laws come from the [clone] section of --config and can be overridden by
flags.`,
		Example: `  neuroc clone cell.swc out/ --n 10
  neuroc clone cells/ out/ --n 5 --seed 7 --angle-std 20
  neuroc clone cell.swc out/ --config clone.toml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := absPaths(args)
			if err != nil {
				return err
			}
			opts.Input, opts.Output = paths[0], paths[1]

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			opts.Params = cfg.Clone
			flags.apply(cmd, &opts)
			opts.SetDefaults()
			if err := opts.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close(ctx)

			prog := newProgress(c.Logger)
			var summary *report.Summary
			err = c.withProgress(ctx, "clone", func(ctx context.Context) (err error) {
				summary, err = runner.CloneAll(ctx, opts)
				return err
			})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Wrote %d clones", summary.Written))
			printSummary(summary)
			printFile(opts.Output)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.N, "n", "n", pipeline.DefaultClones, "number of clones per morphology")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", pipeline.DefaultSeed, "random seed")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute cached results")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file ([clone] section)")
	flags.register(cmd)

	return cmd
}

// cloneFlags override single jitter parameters of the config file.
type cloneFlags struct {
	angleMean   float64
	angleStd    float64
	pieceNumber int
	segmentMean float64
	segmentStd  float64
	segmentAxis int
	sectionMean float64
	sectionStd  float64
	sectionAxis int
}

func (f *cloneFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Float64Var(&f.angleMean, "angle-mean", 0, "mean rotation angle in degrees")
	fl.Float64Var(&f.angleStd, "angle-std", 10, "standard deviation of the rotation angle in degrees")
	fl.IntVar(&f.pieceNumber, "piece-number", 5, "parent points used for the rotation axis of leaf sections")
	fl.Float64Var(&f.segmentMean, "segment-mean", 1, "mean segment scaling factor")
	fl.Float64Var(&f.segmentStd, "segment-std", 0, "standard deviation of the segment scaling factor")
	fl.IntVar(&f.segmentAxis, "segment-axis", int(morph.AllAxes), "segment scaling axis (0=x, 1=y, 2=z, -1=all)")
	fl.Float64Var(&f.sectionMean, "section-mean", 1, "mean section scaling factor")
	fl.Float64Var(&f.sectionStd, "section-std", 0, "standard deviation of the section scaling factor")
	fl.IntVar(&f.sectionAxis, "section-axis", int(morph.AllAxes), "section scaling axis (0=x, 1=y, 2=z, -1=all)")
}

// apply copies the flags the user set into opts.Params.
func (f *cloneFlags) apply(cmd *cobra.Command, opts *pipeline.CloneOptions) {
	set := cmd.Flags().Changed
	p := &opts.Params
	if set("angle-mean") {
		p.Rotation.MeanAngle = f.angleMean
	}
	if set("angle-std") {
		p.Rotation.StdAngle = f.angleStd
	}
	if set("piece-number") {
		p.Rotation.PieceNumber = f.pieceNumber
	}
	if set("segment-mean") {
		p.Segment.Mean = f.segmentMean
	}
	if set("segment-std") {
		p.Segment.Std = f.segmentStd
	}
	if set("segment-axis") {
		p.Segment.Axis = morph.Axis(f.segmentAxis)
	}
	if set("section-mean") {
		p.Section.Mean = f.sectionMean
	}
	if set("section-std") {
		p.Section.Std = f.sectionStd
	}
	if set("section-axis") {
		p.Section.Axis = morph.Axis(f.sectionAxis)
	}
}
