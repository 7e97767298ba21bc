package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/afs/url"

	"github.com/matzehuels/neuroc/pkg/pipeline"
	"github.com/matzehuels/neuroc/pkg/report"
)

// ratToHumanCommand creates the rat-to-human command.
func (c *CLI) ratToHumanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rat-to-human HUMAN_DIR RAT_DIR MAPPING OUTPUT",
		Short: "Rescale rat cells to the dimensions of human cells",
		Long: `Scale rat cells so that their dendrites match the extent and diameter of
human cells of the same layer and mtype.

HUMAN_DIR holds one folder per layer (L1 to L6) of cells named
"{mtype}_{...}{ext}". RAT_DIR holds the rat cells and their neuronDB.xml.
MAPPING is a YAML file associating human mtypes with rat mtypes per layer:

  L1:
    all: [all]
  L2:
    PC: [TPC, UPC]

Scaled cells are named "{name}_-_Y-Scale_{y}_-_XZ-Scale_{xz}_-_Diam-Scale_{d}{ext}"
and listed with their factors in OUTPUT/metadata.csv.`,
		Example: `  neuroc rat-to-human human/ rat/ mapping.yaml out/`,
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := absPaths(args)
			if err != nil {
				return err
			}
			opts := pipeline.RatToHumanOptions{
				HumanDir: paths[0],
				RatDir:   paths[1],
				Mapping:  paths[2],
				Output:   paths[3],
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close(ctx)

			prog := newProgress(c.Logger)
			var res *pipeline.RatToHumanResult
			err = c.withProgress(ctx, "rat-to-human", func(ctx context.Context) (err error) {
				res, err = runner.RatToHuman(ctx, opts)
				return err
			})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Scaled %d rat cells", len(res.Records)))
			for _, m := range res.Missing {
				printWarning("%s: no rat cell for %s (human %s)", m.Layer, m.Rat, m.Human)
			}
			printSummary(res.Summary)
			printFile(url.Join(opts.Output, report.MetadataFile))
			return nil
		},
	}

	return cmd
}
