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
)

// renderCommand creates the render command for generating treemap artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
	)
	opts := pipeline.Options{}
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()

	cmd := &cobra.Command{
		Use:   "render [portfolio.(json|toml)]",
		Short: "Render a portfolio as a squarified treemap",
		Long: `Render a portfolio as a squarified treemap.

The render command reads a portfolio file (JSON or TOML), computes a
squarified treemap layout, and writes the result in one or more output
formats. Positions can be tiled flat or nested under sector outlines.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Source = args[0]
			opts.Formats = parseFormats(formatsStr)
			if err := errors.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json, dot (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "reload the portfolio even if cached")

	// Layout flags
	cmd.Flags().StringVarP(&opts.Grouping, "grouping", "g", opts.Grouping, "grouping mode: sector (default), flat")
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "frame width")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "frame height")
	cmd.Flags().Float64Var(&opts.Padding, "padding", opts.Padding, "inset between sector outline and tiles")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", opts.MaxDepth, "limit layout nesting depth (0 = unlimited)")

	// Render flags
	cmd.Flags().StringVar(&opts.Title, "title", "", "title banner text (default: portfolio name)")
	cmd.Flags().BoolVar(&opts.NoLabels, "no-labels", false, "omit tile labels")
	cmd.Flags().BoolVar(&opts.Hover, "hover", false, "embed hover highlighting in SVG output")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include values in DOT output")

	return cmd
}

// runRender executes the full pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.Source))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := basePath(output, opts.Source)
	written := make([]string, 0, len(result.Artifacts))
	for _, format := range opts.Formats {
		path := output
		if output == "" || len(opts.Formats) > 1 {
			path = base + "." + format
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		written = append(written, path)
	}

	printSuccess("Render complete")
	for _, path := range written {
		printFile(path)
	}
	cached := result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit
	printStats(result.Stats.PositionCount, result.Stats.SectorCount, result.Stats.TileCount, cached)

	return nil
}

// validOutputExts is the set of format extensions stripped from output base paths.
var validOutputExts = map[string]bool{"svg": true, "png": true, "json": true, "dot": true}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output has a
// format extension, that extension is stripped so per-format suffixes can be
// appended.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validOutputExts[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
