package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/neuroc/pkg/pipeline"
	"github.com/matzehuels/neuroc/pkg/report"
)

// scaleCommand creates the scale command and its file/folder subcommands.
func (c *CLI) scaleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scale",
		Short: "Scale morphologies by a constant factor",
		Long: `Multiply every point and diameter of a morphology by a constant factor.
The soma is left unchanged.`,
	}

	cmd.AddCommand(c.scaleFileCommand())
	cmd.AddCommand(c.scaleFolderCommand())

	return cmd
}

// scaleFileCommand creates the "scale file" subcommand.
func (c *CLI) scaleFileCommand() *cobra.Command {
	var scaling float64

	cmd := &cobra.Command{
		Use:     "file INPUT OUTPUT",
		Short:   "Scale one morphology",
		Example: `  neuroc scale file cell.swc scaled.swc --scaling 1.2`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := absPaths(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close(ctx)

			if err := runner.ScaleFile(ctx, paths[0], paths[1], scaling); err != nil {
				return err
			}
			printSuccess("Scaled by %s", StyleNumber.Render(fmt.Sprint(scaling)))
			printFile(paths[1])
			return nil
		},
	}

	cmd.Flags().Float64VarP(&scaling, "scaling", "s", pipeline.DefaultScaling, "scaling factor")

	return cmd
}

// scaleFolderCommand creates the "scale folder" subcommand.
func (c *CLI) scaleFolderCommand() *cobra.Command {
	var opts pipeline.ScaleOptions

	cmd := &cobra.Command{
		Use:     "folder INPUT_DIR OUTPUT_DIR",
		Short:   "Scale every morphology of a folder",
		Example: `  neuroc scale folder cells/ scaled/ --scaling 0.8`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := absPaths(args)
			if err != nil {
				return err
			}
			opts.Input, opts.Output = paths[0], paths[1]

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close(ctx)

			prog := newProgress(c.Logger)
			var summary *report.Summary
			err = c.withProgress(ctx, "scale", func(ctx context.Context) (err error) {
				summary, err = runner.ScaleFolder(ctx, opts)
				return err
			})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Scaled %d cells", summary.Written))
			printSummary(summary)
			printFile(opts.Output)
			return nil
		},
	}

	cmd.Flags().Float64VarP(&opts.Scaling, "scaling", "s", pipeline.DefaultScaling, "scaling factor")

	return cmd
}
