package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/neuroc/pkg/pipeline"
	"github.com/matzehuels/neuroc/pkg/report"
)

// shrinkCommand creates the axon-shrinker command.
func (c *CLI) shrinkCommand() *cobra.Command {
	var (
		opts       pipeline.ShrinkOptions
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "axon-shrinker FILES ANNOTATIONS OUTPUT",
		Short: "Shrink axons by cutting and grafting them at several heights",
		Long: `Cut the main axon branch of every morphology inside the annotated axon band
and graft the part beyond the cut back at several bridge heights.

FILES is a morphology file or a folder of morphologies. ANNOTATIONS holds one
"{name}.xml" per morphology with "dendrite" and "axon" placement rules. For each
height, OUTPUT receives "{name}_height_{h}{ext}" and the matching annotation
with the axon rule moved by the same amount as the graft.

Without --heights, --nsamples heights are spaced evenly from 0 to the gap
between the dendrite and axon bands.`,
		Example: `  neuroc axon-shrinker cells/ annotations/ out/
  neuroc axon-shrinker cells/ annotations/ out/ --heights 0,50,100
  neuroc axon-shrinker cell.swc annotations/ out/ --nsamples 5`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := absPaths(args)
			if err != nil {
				return err
			}
			opts.Input, opts.Annotations, opts.Output = paths[0], paths[1], paths[2]

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("heights") && len(cfg.Shrink.Heights) > 0 {
				opts.Heights = cfg.Shrink.Heights
			}
			if !cmd.Flags().Changed("nsamples") && cfg.Shrink.NSamples > 0 {
				opts.NSamples = cfg.Shrink.NSamples
			}
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
			err = c.withProgress(ctx, "shrink", func(ctx context.Context) (err error) {
				summary, err = runner.ShrinkAll(ctx, opts)
				return err
			})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Shrunk %d cells", summary.Processed-len(summary.Failures)))
			printSummary(summary)
			printFile(opts.Output)
			return nil
		},
	}

	cmd.Flags().Float64SliceVar(&opts.Heights, "heights", nil, "bridge heights (comma-separated)")
	cmd.Flags().IntVar(&opts.NSamples, "nsamples", pipeline.DefaultNSamples, "number of heights when --heights is not set")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute cached results")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file ([shrink] section)")

	return cmd
}
