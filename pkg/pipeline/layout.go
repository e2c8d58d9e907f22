package pipeline

import (
	"encoding/json"

	"github.com/mosaicviz/mosaic/pkg/errors"
	"github.com/mosaicviz/mosaic/pkg/portfolio"
	"github.com/mosaicviz/mosaic/pkg/render"
	"github.com/mosaicviz/mosaic/pkg/treemap"
)

// GenerateLayout computes treemap positions for the portfolio.
//
// Flat grouping lays every position directly into the frame. Sector grouping
// nests positions inside sector rectangles with a padding inset. Positions
// with non-positive values are dropped by the layout; a portfolio with no
// positive positions yields an empty tile list, not an error.
func GenerateLayout(p *portfolio.Portfolio, opts Options) (render.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return render.Layout{}, err
	}

	root := layoutTree(p, opts)
	bounds := treemap.Bounds{Width: opts.Width, Height: opts.Height}
	rects := treemap.LayoutTree(root, bounds, treemap.TreeOptions{
		Padding:  opts.Padding,
		MaxDepth: opts.MaxDepth,
	})

	title := opts.Title
	if title == "" {
		title = p.Name
	}

	return render.Layout{
		Width:  opts.Width,
		Height: opts.Height,
		Title:  title,
		Tiles:  render.FromNodeRects(rects),
	}, nil
}

// layoutTree builds the hierarchy to lay out: positions under sectors for
// grouped layouts, or directly under the root for flat ones.
func layoutTree(p *portfolio.Portfolio, opts Options) *treemap.Node {
	if opts.IsGrouped() {
		return p.Tree()
	}
	root := &treemap.Node{Item: treemap.Item{Name: p.Name}}
	for _, item := range p.Items() {
		root.Children = append(root.Children, &treemap.Node{Item: item})
	}
	return root
}

// marshalLayout and unmarshalLayout serialize layouts for the cache.
func marshalLayout(l render.Layout) ([]byte, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to serialize layout")
	}
	return data, nil
}

func unmarshalLayout(data []byte) (render.Layout, error) {
	var l render.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return render.Layout{}, errors.Wrap(errors.ErrCodeInternal, err, "failed to deserialize layout")
	}
	return l, nil
}
