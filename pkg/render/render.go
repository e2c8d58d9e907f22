// Package render turns computed treemap layouts into output artifacts.
//
// The sink subpackage renders SVG, PNG, and JSON documents from a [Layout].
// The outline subpackage exports the portfolio hierarchy as a Graphviz
// node-link diagram.
package render

import (
	"strings"

	"github.com/mosaicviz/mosaic/pkg/treemap"
)

// Tile is a positioned rectangle ready for drawing. Group tiles mark
// interior hierarchy nodes (sectors) and render as outlines; leaf tiles
// are filled position rectangles.
type Tile struct {
	treemap.Rect
	Depth int  `json:"depth,omitempty"`
	Group bool `json:"group,omitempty"`
}

// Layout is the renderer input: positioned treemap tiles inside a frame.
// The type is JSON-serializable so computed layouts can be cached and
// re-rendered without recomputation.
type Layout struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Title  string  `json:"title,omitempty"`
	Tiles  []Tile  `json:"tiles"`
}

// FromNodeRects converts hierarchical layout output into renderer tiles.
func FromNodeRects(rects []treemap.NodeRect) []Tile {
	tiles := make([]Tile, 0, len(rects))
	for _, r := range rects {
		tiles = append(tiles, Tile{
			Rect:  r.Rect,
			Depth: r.Depth,
			Group: r.Node != nil && len(r.Node.Children) > 0,
		})
	}
	return tiles
}

// Leaves returns the tiles that represent positions.
func (l Layout) Leaves() []Tile {
	leaves := make([]Tile, 0, len(l.Tiles))
	for _, t := range l.Tiles {
		if !t.Group {
			leaves = append(leaves, t)
		}
	}
	return leaves
}

// Groups returns the tiles that represent interior nodes (sectors).
func (l Layout) Groups() []Tile {
	groups := make([]Tile, 0)
	for _, t := range l.Tiles {
		if t.Group {
			groups = append(groups, t)
		}
	}
	return groups
}

// TileID derives a stable element ID from a label.
// Non-alphanumeric runs collapse to single dashes.
func TileID(label string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ParseHexColor parses #rgb and #rrggbb colors into 0..1 components.
// Unparseable input returns mid grey.
func ParseHexColor(s string) (r, g, b float64) {
	s = strings.TrimPrefix(s, "#")
	hex := func(c byte) int {
		switch {
		case c >= '0' && c <= '9':
			return int(c - '0')
		case c >= 'a' && c <= 'f':
			return int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			return int(c-'A') + 10
		}
		return -1
	}
	comp := func(hi, lo byte) (float64, bool) {
		h, l := hex(hi), hex(lo)
		if h < 0 || l < 0 {
			return 0, false
		}
		return float64(h*16+l) / 255, true
	}

	switch len(s) {
	case 3:
		if r, ok := comp(s[0], s[0]); ok {
			if g, ok := comp(s[1], s[1]); ok {
				if b, ok := comp(s[2], s[2]); ok {
					return r, g, b
				}
			}
		}
	case 6:
		if r, ok := comp(s[0], s[1]); ok {
			if g, ok := comp(s[2], s[3]); ok {
				if b, ok := comp(s[4], s[5]); ok {
					return r, g, b
				}
			}
		}
	}
	return 0.5, 0.5, 0.5
}
