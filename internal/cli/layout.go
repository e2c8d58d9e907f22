package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mosaicviz/mosaic/pkg/pipeline"
)

// layoutCommand creates the layout command for computing tile positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}
	opts.SetLayoutDefaults()

	cmd := &cobra.Command{
		Use:   "layout [portfolio.(json|toml)]",
		Short: "Compute treemap tile positions for a portfolio",
		Long: `Compute treemap tile positions for a portfolio.

The layout command reads a portfolio file and computes the squarified
treemap layout without rendering it. The output is a layout.json file
that can be rendered to SVG or PNG using the 'visualize' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Source = args[0]
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&opts.Grouping, "grouping", "g", opts.Grouping, "grouping mode: sector (default), flat")
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "frame width")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "frame height")
	cmd.Flags().Float64Var(&opts.Padding, "padding", opts.Padding, "inset between sector outline and tiles")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", opts.MaxDepth, "limit layout nesting depth (0 = unlimited)")

	return cmd
}

// runLayout loads the portfolio, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	p, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load portfolio %s: %w", opts.Source, err)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Grouping))
	spinner.Start()

	layout, cacheHit, err := runner.GenerateLayoutWithCacheInfo(ctx, p, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(opts.Source, filepath.Ext(opts.Source))
		outputPath = base + ".layout.json"
	}

	if err := pipeline.WriteLayoutFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(p.Positions), len(p.GroupBySector()), len(layout.Tiles), cacheHit)
	printNewline()
	printNextStep("Render", "mosaic visualize "+outputPath)

	return nil
}
