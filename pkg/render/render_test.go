package render

import (
	"encoding/json"
	"testing"

	"github.com/mosaicviz/mosaic/pkg/treemap"
)

func TestTileID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Corp", "acme-corp"},
		{"AT&T Wireless", "at-t-wireless"},
		{"  spaced  out  ", "spaced-out"},
		{"already-fine", "already-fine"},
		{"ümläut", "ml-ut"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := TileID(tt.in); got != tt.want {
			t.Errorf("TileID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	r, g, b := ParseHexColor("#ff0000")
	if r != 1 || g != 0 || b != 0 {
		t.Errorf("ParseHexColor(#ff0000) = %v, %v, %v", r, g, b)
	}

	r, g, b = ParseHexColor("#0f0")
	if r != 0 || g != 1 || b != 0 {
		t.Errorf("ParseHexColor(#0f0) = %v, %v, %v", r, g, b)
	}

	// Unparseable input falls back to grey
	r, g, b = ParseHexColor("not-a-color")
	if r != 0.5 || g != 0.5 || b != 0.5 {
		t.Errorf("Fallback should be grey, got %v, %v, %v", r, g, b)
	}
}

func TestFromNodeRects(t *testing.T) {
	leaf := &treemap.Node{Item: treemap.Item{Name: "acme", Value: 100}}
	group := &treemap.Node{Item: treemap.Item{Name: "software"}, Children: []*treemap.Node{leaf}}

	tiles := FromNodeRects([]treemap.NodeRect{
		{Rect: treemap.Rect{Width: 100, Height: 100}, Node: group, Depth: 1},
		{Rect: treemap.Rect{Width: 90, Height: 90}, Node: leaf, Depth: 2},
	})

	if len(tiles) != 2 {
		t.Fatalf("Expected 2 tiles, got %d", len(tiles))
	}
	if !tiles[0].Group || tiles[1].Group {
		t.Error("Interior nodes should become group tiles, leaves should not")
	}
	if tiles[1].Depth != 2 {
		t.Errorf("Depth should carry over, got %d", tiles[1].Depth)
	}
}

func TestLayoutLeavesAndGroups(t *testing.T) {
	l := Layout{
		Width:  100,
		Height: 100,
		Tiles: []Tile{
			{Group: true},
			{},
			{},
		},
	}
	if len(l.Leaves()) != 2 {
		t.Errorf("Expected 2 leaves, got %d", len(l.Leaves()))
	}
	if len(l.Groups()) != 1 {
		t.Errorf("Expected 1 group, got %d", len(l.Groups()))
	}
}

func TestLayoutJSONRoundTrip(t *testing.T) {
	item := &treemap.Item{Name: "acme", Value: 100}
	l := Layout{
		Width:  100,
		Height: 80,
		Title:  "growth",
		Tiles: []Tile{
			{Rect: treemap.Rect{X: 1, Y: 2, Width: 50, Height: 40, Color: "#4e79a7", Item: item}, Depth: 1},
		},
	}

	data, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	var got Layout
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if got.Width != 100 || got.Title != "growth" {
		t.Errorf("Frame fields lost: %+v", got)
	}
	if len(got.Tiles) != 1 || got.Tiles[0].Item == nil || got.Tiles[0].Item.Name != "acme" {
		t.Errorf("Tile item lost: %+v", got.Tiles)
	}
}
