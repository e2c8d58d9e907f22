package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mosaicviz/mosaic/pkg/errors"
	"github.com/mosaicviz/mosaic/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering from a layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}
	opts.SetRenderDefaults()

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render treemap output from a computed layout",
		Long: `Render treemap output from a computed layout.

The visualize command takes a layout.json file (produced by 'layout') and
renders it to SVG, PNG, or JSON format. The layout contains all positioning
information, so this step is purely about rendering.

Use 'render' as a shortcut to go directly from a portfolio to visual output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := errors.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			// DOT output needs the portfolio hierarchy, which a layout
			// file no longer carries.
			for _, f := range opts.Formats {
				if f == pipeline.FormatDOT {
					return errors.New(errors.ErrCodeUnsupported, "dot output requires a portfolio; use 'mosaic render'")
				}
			}
			return c.runVisualize(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "title banner text (default: layout title)")
	cmd.Flags().BoolVar(&opts.NoLabels, "no-labels", false, "omit tile labels")
	cmd.Flags().BoolVar(&opts.Hover, "hover", false, "embed hover highlighting in SVG output")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "PNG scale factor")

	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	layout, err := pipeline.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	if opts.Title != "" {
		layout.Title = opts.Title
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering layout...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, layout, nil, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	base := basePath(output, strings.TrimSuffix(input, ".layout.json"))
	written := make([]string, 0, len(artifacts))
	for _, format := range opts.Formats {
		path := output
		if output == "" || len(opts.Formats) > 1 {
			path = base + "." + format
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		written = append(written, path)
	}

	printSuccess("Visualization complete")
	for _, path := range written {
		printFile(path)
	}
	printStats(0, 0, len(layout.Tiles), cacheHit)

	return nil
}
