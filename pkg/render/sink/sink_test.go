package sink

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/mosaicviz/mosaic/pkg/render"
	"github.com/mosaicviz/mosaic/pkg/treemap"
)

func sampleLayout() render.Layout {
	acme := &treemap.Item{Name: "Acme Corp", Value: 50000}
	initech := &treemap.Item{Name: "Initech", Value: 30000}
	return render.Layout{
		Width:  400,
		Height: 300,
		Tiles: []render.Tile{
			{
				Rect:  treemap.Rect{X: 0, Y: 0, Width: 250, Height: 300, Color: "#4e79a7", Item: acme},
				Depth: 1,
			},
			{
				Rect:  treemap.Rect{X: 250, Y: 0, Width: 150, Height: 300, Color: "#f28e2b", Item: initech},
				Depth: 1,
			},
		},
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(sampleLayout()))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Error("SVG should start with svg element")
	}
	if !strings.Contains(svg, `viewBox="0 0 400.0 300.0"`) {
		t.Errorf("Unexpected viewBox: %s", svg[:120])
	}
	if !strings.Contains(svg, `id="tile-acme-corp"`) {
		t.Error("SVG should contain tile for Acme Corp")
	}
	if !strings.Contains(svg, `fill="#4e79a7"`) {
		t.Error("SVG should use tile colors")
	}
	if !strings.Contains(svg, ">Acme Corp</text>") {
		t.Error("SVG should label tiles by default")
	}
	if !strings.Contains(svg, "<title>Acme Corp: 50.0K</title>") {
		t.Error("SVG tiles should carry tooltips")
	}
	if strings.Contains(svg, "addEventListener") {
		t.Error("Hover script should be off by default")
	}
	if !strings.HasSuffix(strings.TrimSpace(svg), "</svg>") {
		t.Error("SVG should be closed")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	l := sampleLayout()

	svg := string(RenderSVG(l, WithTitle("Growth Fund"), WithHover(), WithStroke("#000000", 2)))
	if !strings.Contains(svg, ">Growth Fund</text>") {
		t.Error("WithTitle should add a title banner")
	}
	if !strings.Contains(svg, `viewBox="0 0 400.0 332.0"`) {
		t.Error("Title banner should extend the frame height")
	}
	if !strings.Contains(svg, "addEventListener") {
		t.Error("WithHover should embed the hover script")
	}
	if !strings.Contains(svg, `stroke="#000000" stroke-width="2.0"`) {
		t.Error("WithStroke should override tile borders")
	}

	svg = string(RenderSVG(l, WithoutLabels()))
	if strings.Contains(svg, ">Acme Corp</text>") {
		t.Error("WithoutLabels should suppress tile labels")
	}
}

func TestRenderSVGEscapesLabels(t *testing.T) {
	item := &treemap.Item{Name: `AT&T <Wireless>`, Value: 1000}
	l := render.Layout{
		Width:  200,
		Height: 200,
		Tiles: []render.Tile{
			{Rect: treemap.Rect{Width: 200, Height: 200, Color: "#4e79a7", Item: item}},
		},
	}

	svg := string(RenderSVG(l))
	if strings.Contains(svg, "<Wireless>") {
		t.Error("Labels must be XML-escaped")
	}
	if !strings.Contains(svg, "AT&amp;T &lt;Wireless&gt;") {
		t.Error("Escaped label should be present")
	}
}

func TestRenderSVGGroupOutlines(t *testing.T) {
	sector := &treemap.Item{Name: "software", Value: 80000}
	leaf := &treemap.Item{Name: "Acme Corp", Value: 80000}
	l := render.Layout{
		Width:  400,
		Height: 300,
		Tiles: []render.Tile{
			{
				Rect:  treemap.Rect{Width: 400, Height: 300, Item: sector},
				Depth: 1,
				Group: true,
			},
			{
				Rect:  treemap.Rect{X: 4, Y: 4, Width: 392, Height: 292, Color: "#4e79a7", Item: leaf},
				Depth: 2,
			},
		},
	}

	svg := string(RenderSVG(l))
	if !strings.Contains(svg, `fill="none" stroke="#333333"`) {
		t.Error("Group tiles should render as outlines")
	}
	if !strings.Contains(svg, ">software</text>") {
		t.Error("Group outlines should be labeled")
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(sampleLayout(), WithJSONGrouping("flat"))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}

	if out.Width != 400 || out.Height != 300 {
		t.Errorf("Unexpected frame: %v x %v", out.Width, out.Height)
	}
	if out.Grouping != "flat" {
		t.Errorf("Grouping = %q, want flat", out.Grouping)
	}
	if len(out.Tiles) != 2 {
		t.Fatalf("Tiles count = %d, want 2", len(out.Tiles))
	}
	if out.Tiles[0].ID != "acme-corp" || out.Tiles[0].Value != 50000 {
		t.Errorf("Unexpected first tile: %+v", out.Tiles[0])
	}
	if len(out.Groups) != 0 {
		t.Errorf("Flat layout should have no groups, got %d", len(out.Groups))
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(sampleLayout(), WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Output is not valid PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 400 || bounds.Dy() != 300 {
		t.Errorf("Unexpected dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderPNGScale(t *testing.T) {
	data, err := RenderPNG(sampleLayout(), WithScale(2))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Output is not valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 800 {
		t.Errorf("Scale 2 should double width, got %d", img.Bounds().Dx())
	}

	if _, err := RenderPNG(sampleLayout(), WithScale(0)); err == nil {
		t.Error("Non-positive scale should error")
	}
}

func TestFmtValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1_200_000_000, "1.2B"},
		{1_500_000, "1.5M"},
		{50_000, "50.0K"},
		{42, "42.0"},
	}
	for _, tt := range tests {
		if got := fmtValue(tt.in); got != tt.want {
			t.Errorf("fmtValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
