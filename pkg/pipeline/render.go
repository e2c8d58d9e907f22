package pipeline

import (
	"github.com/mosaicviz/mosaic/pkg/portfolio"
	"github.com/mosaicviz/mosaic/pkg/render"
	"github.com/mosaicviz/mosaic/pkg/render/outline"
	"github.com/mosaicviz/mosaic/pkg/render/sink"
)

// RenderFromLayout renders every requested format from a computed layout.
// The portfolio is needed for the DOT format, which exports the hierarchy
// rather than the tile positions; it may be nil when DOT is not requested.
func RenderFromLayout(l render.Layout, p *portfolio.Portfolio, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(l, p, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(l render.Layout, p *portfolio.Portfolio, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(l, svgOptions(l, opts)...), nil

	case FormatPNG:
		pngOpts := []sink.PNGOption{sink.WithScale(opts.Scale)}
		if l.Title != "" {
			pngOpts = append(pngOpts, sink.WithPNGTitle(l.Title))
		}
		if opts.NoLabels {
			pngOpts = append(pngOpts, sink.WithoutPNGLabels())
		}
		return sink.RenderPNG(l, pngOpts...)

	case FormatJSON:
		return sink.RenderJSON(l, sink.WithJSONGrouping(opts.Grouping))

	case FormatDOT:
		var pf portfolio.Portfolio
		if p != nil {
			pf = *p
		}
		dot := outline.ToDOT(pf, outline.Options{
			Detailed: opts.Detailed,
			Grouped:  opts.IsGrouped(),
		})
		return []byte(dot), nil

	default:
		// ValidateForRender rejects unknown formats before this point
		return nil, nil
	}
}

func svgOptions(l render.Layout, opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if l.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(l.Title))
	}
	if opts.NoLabels {
		svgOpts = append(svgOpts, sink.WithoutLabels())
	}
	if opts.Hover {
		svgOpts = append(svgOpts, sink.WithHover())
	}
	return svgOpts
}
