package sink

import (
	"encoding/json"

	"github.com/mosaicviz/mosaic/pkg/render"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	grouping string
}

// WithJSONGrouping records the grouping mode in the JSON output so the
// document can be re-rendered with the same structure.
func WithJSONGrouping(g string) JSONOption {
	return func(r *jsonRenderer) { r.grouping = g }
}

type jsonOutput struct {
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Title    string     `json:"title,omitempty"`
	Grouping string     `json:"grouping,omitempty"`
	Tiles    []jsonTile `json:"tiles"`
	Groups   []jsonTile `json:"groups,omitempty"`
}

type jsonTile struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  string  `json:"color,omitempty"`
	Depth  int     `json:"depth,omitempty"`
}

// RenderJSON exports the layout as a pretty-printed JSON document.
// This is the primary data interchange format, enabling external tools to
// consume computed layouts and re-render them without recomputation.
func RenderJSON(l render.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:    l.Width,
		Height:   l.Height,
		Title:    l.Title,
		Grouping: r.grouping,
		Tiles:    buildJSONTiles(l.Leaves()),
	}
	if groups := l.Groups(); len(groups) > 0 {
		out.Groups = buildJSONTiles(groups)
	}

	return json.MarshalIndent(out, "", "  ")
}

func buildJSONTiles(rects []render.Tile) []jsonTile {
	tiles := make([]jsonTile, 0, len(rects))
	for _, rect := range rects {
		t := jsonTile{
			X:      rect.X,
			Y:      rect.Y,
			Width:  rect.Width,
			Height: rect.Height,
			Color:  rect.Color,
			Depth:  rect.Depth,
		}
		if rect.Item != nil {
			t.ID = render.TileID(rect.Item.Name)
			t.Label = rect.Item.Name
			t.Value = rect.Item.Value
		}
		tiles = append(tiles, t)
	}
	return tiles
}
