package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/afs"

	pkgio "github.com/matzehuels/neuroc/pkg/io"
	"github.com/matzehuels/neuroc/pkg/render/topology"
)

// topologyCommand creates the topology command.
func (c *CLI) topologyCommand() *cobra.Command {
	var (
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "topology FILE",
		Short: "Draw the section tree of a morphology",
		Long: `Draw the section tree of a morphology as Graphviz DOT or SVG.

The format follows the extension of --output (.dot, .svg or .png). Without --output,
DOT is written to stdout.`,
		Example: `  neuroc topology cell.swc
  neuroc topology cell.swc -o cell.svg --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := absPath(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			m, err := pkgio.Load(ctx, afs.New(), input)
			if err != nil {
				return err
			}
			dot := topology.ToDOT(m, topology.Options{Detailed: detailed})

			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), dot)
				return nil
			}

			var data []byte
			switch ext := strings.ToLower(filepath.Ext(output)); ext {
			case ".dot":
				data = []byte(dot)
			case ".svg", ".png":
				render := topology.RenderSVG
				if ext == ".png" {
					render = topology.RenderPNG
				}
				spinner := newSpinnerWithContext(ctx, "Rendering "+strings.ToUpper(ext[1:])+"...")
				spinner.Start()
				data, err = render(ctx, dot)
				spinner.Stop()
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported output format %q (must be .dot, .svg or .png)", ext)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Drew %s sections", StyleNumber.Render(fmt.Sprint(m.SectionCount())))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.dot, .svg or .png)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "add point count and length to labels")
	_ = cmd.MarkFlagFilename("output", "dot", "svg", "png")

	return cmd
}
