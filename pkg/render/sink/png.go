package sink

import (
	"bytes"
	"image/png"

	"github.com/flopp/go-findfont"
	"github.com/fogleman/gg"

	"github.com/mosaicviz/mosaic/pkg/errors"
	"github.com/mosaicviz/mosaic/pkg/render"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale  float64
	labels bool
	title  string
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGTitle adds a title banner above the treemap.
func WithPNGTitle(t string) PNGOption {
	return func(r *pngRenderer) { r.title = t }
}

// WithoutPNGLabels suppresses tile labels.
func WithoutPNGLabels() PNGOption {
	return func(r *pngRenderer) { r.labels = false }
}

// RenderPNG rasterizes the treemap layout directly.
// Labels require a system sans-serif font; rendering proceeds without
// labels when no font can be found.
func RenderPNG(l render.Layout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0, labels: true}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", r.scale)
	}

	offsetY := 0.0
	totalHeight := l.Height
	if r.title != "" {
		offsetY = titleBarHeight
		totalHeight += titleBarHeight
	}

	dc := gg.NewContext(int(l.Width*r.scale), int(totalHeight*r.scale))
	dc.Scale(r.scale, r.scale)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	haveFont := loadFont(dc, 12)

	for _, rect := range l.Leaves() {
		drawTile(dc, rect, offsetY)
	}
	for _, rect := range l.Groups() {
		drawGroupOutline(dc, rect, offsetY)
	}

	if r.labels && haveFont {
		for _, rect := range l.Leaves() {
			drawTileLabel(dc, rect, offsetY)
		}
	}
	if r.title != "" && haveFont {
		dc.SetRGB(0.1, 0.1, 0.1)
		dc.DrawStringAnchored(r.title, l.Width/2, titleBarHeight/2, 0.5, 0.35)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to encode PNG")
	}
	return buf.Bytes(), nil
}

func drawTile(dc *gg.Context, rect render.Tile, offsetY float64) {
	cr, cg, cb := render.ParseHexColor(rect.Color)
	dc.SetRGB(cr, cg, cb)
	dc.DrawRectangle(rect.X, rect.Y+offsetY, rect.Width, rect.Height)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(1)
	dc.DrawRectangle(rect.X, rect.Y+offsetY, rect.Width, rect.Height)
	dc.Stroke()
}

func drawGroupOutline(dc *gg.Context, rect render.Tile, offsetY float64) {
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.SetLineWidth(1.5)
	dc.DrawRectangle(rect.X, rect.Y+offsetY, rect.Width, rect.Height)
	dc.Stroke()
}

func drawTileLabel(dc *gg.Context, rect render.Tile, offsetY float64) {
	if rect.Item == nil || rect.Width < 40 || rect.Height < 16 {
		return
	}
	name := rect.Item.Name
	w, _ := dc.MeasureString(name)
	if w > rect.Width-6 {
		return
	}
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(name, rect.CenterX(), rect.CenterY()+offsetY, 0.5, 0.35)
}

// candidate system fonts, tried in order
var fontCandidates = []string{
	"DejaVuSans.ttf",
	"Arial.ttf",
	"Helvetica.ttf",
	"LiberationSans-Regular.ttf",
}

func loadFont(dc *gg.Context, size float64) bool {
	for _, name := range fontCandidates {
		path, err := findfont.Find(name)
		if err != nil {
			continue
		}
		if err := dc.LoadFontFace(path, size); err == nil {
			return true
		}
	}
	return false
}
