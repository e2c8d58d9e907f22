package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mosaicviz/mosaic/pkg/errors"
	"github.com/mosaicviz/mosaic/pkg/pipeline"
	"github.com/mosaicviz/mosaic/pkg/render/outline"
)

// outlineCommand creates the outline command for node-link diagrams.
func (c *CLI) outlineCommand() *cobra.Command {
	var (
		output   string
		format   string
		detailed bool
		flat     bool
	)

	cmd := &cobra.Command{
		Use:   "outline [portfolio.(json|toml)]",
		Short: "Export the portfolio hierarchy as a node-link diagram",
		Long: `Export the portfolio hierarchy as a node-link diagram.

The outline command builds a Graphviz graph of the portfolio: the root
node links to sectors, sectors link to positions. Output is raw DOT by
default, or SVG/PNG rendered through Graphviz.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "dot", "svg", "png":
			default:
				return errors.New(errors.ErrCodeInvalidFormat, "invalid outline format: %q (must be one of: dot, svg, png)", format)
			}
			return c.runOutline(cmd.Context(), args[0], format, output, detailed, flat)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot (default), svg, png")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include values on nodes")
	cmd.Flags().BoolVar(&flat, "flat", false, "link positions directly to the root, skipping sectors")

	return cmd
}

func (c *CLI) runOutline(ctx context.Context, input, format, output string, detailed, flat bool) error {
	pr := newProgress(c.Logger)

	opts := pipeline.Options{Source: input}
	p, err := pipeline.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load portfolio %s: %w", input, err)
	}

	dot := outline.ToDOT(*p, outline.Options{
		Detailed: detailed,
		Grouped:  !flat,
	})

	var data []byte
	switch format {
	case "svg":
		data, err = outline.RenderSVG(dot)
	case "png":
		data, err = outline.RenderPNG(dot)
	default:
		data = []byte(dot)
	}
	if err != nil {
		return fmt.Errorf("render outline: %w", err)
	}

	path := output
	if path == "" {
		path = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}

	pr.done(fmt.Sprintf("Outlined %d positions", len(p.Positions)))
	printSuccess("Outline complete")
	printFile(path)
	printStats(len(p.Positions), len(p.GroupBySector()), 0, false)
	return nil
}
