package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mosaicviz/mosaic/pkg/render"
)

const tileInteractionCSS = `
    .tile { transition: stroke-width 0.2s ease, filter 0.2s ease; }
    .tile.highlight { stroke-width: 3; filter: brightness(1.1); }
    .tile-text { pointer-events: none; }`

const tileInteractionJS = `
    function highlight(id) {
      document.querySelectorAll('.tile').forEach(t => t.classList.toggle('highlight', t.id === id));
    }
    function clearHighlight() {
      document.querySelectorAll('.tile').forEach(t => t.classList.remove('highlight'));
    }
    document.querySelectorAll('.tile').forEach(el => {
      el.addEventListener('mouseenter', () => highlight(el.id));
      el.addEventListener('mouseleave', clearHighlight);
    });`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title       string
	labels      bool
	hover       bool
	stroke      string
	strokeWidth float64
}

// WithTitle adds a title banner above the treemap.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// WithoutLabels suppresses tile labels.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// WithHover enables hover highlighting of tiles.
func WithHover() SVGOption { return func(r *svgRenderer) { r.hover = true } }

// WithStroke overrides the tile border color and width.
func WithStroke(color string, width float64) SVGOption {
	return func(r *svgRenderer) { r.stroke = color; r.strokeWidth = width }
}

const titleBarHeight = 32.0

// RenderSVG renders the treemap layout as an SVG document.
func RenderSVG(l render.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{labels: true, stroke: "#ffffff", strokeWidth: 1}
	for _, opt := range opts {
		opt(&r)
	}

	offsetY := 0.0
	totalHeight := l.Height
	if r.title != "" {
		offsetY = titleBarHeight
		totalHeight += titleBarHeight
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, totalHeight, l.Width, totalHeight)

	if r.title != "" {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="18" font-weight="bold">%s</text>`+"\n",
			l.Width/2, titleBarHeight*0.65, escapeXML(r.title))
	}

	for _, rect := range l.Leaves() {
		renderTile(&buf, &r, rect, offsetY)
	}
	for _, rect := range l.Groups() {
		renderGroupOutline(&buf, rect, offsetY)
	}
	if r.labels {
		for _, rect := range l.Leaves() {
			renderTileText(&buf, rect, offsetY)
		}
	}

	if r.hover {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", tileInteractionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", tileInteractionJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderTile(buf *bytes.Buffer, r *svgRenderer, rect render.Tile, offsetY float64) {
	label := tileLabel(rect)
	fmt.Fprintf(buf, `  <rect id="tile-%s" class="tile" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="%.1f">`,
		render.TileID(label), rect.X, rect.Y+offsetY, rect.Width, rect.Height, rect.Color, r.stroke, r.strokeWidth)
	fmt.Fprintf(buf, `<title>%s</title></rect>`+"\n", escapeXML(tileTooltip(rect)))
}

func renderGroupOutline(buf *bytes.Buffer, rect render.Tile, offsetY float64) {
	fmt.Fprintf(buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="#333333" stroke-width="1.5"/>`+"\n",
		rect.X, rect.Y+offsetY, rect.Width, rect.Height)
	if rect.Item != nil && rect.Item.Name != "" && rect.Width > 60 && rect.Height > 18 {
		fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="11" fill="#333333">%s</text>`+"\n",
			rect.X+4, rect.Y+offsetY+12, escapeXML(rect.Item.Name))
	}
}

func renderTileText(buf *bytes.Buffer, rect render.Tile, offsetY float64) {
	// Skip labels that cannot plausibly fit
	if rect.Width < 40 || rect.Height < 16 {
		return
	}
	name := tileLabel(rect)
	fontSize := 12.0
	if approxTextWidth(name, fontSize) > rect.Width-6 {
		fontSize = 9.0
		if approxTextWidth(name, fontSize) > rect.Width-6 {
			return
		}
	}

	cx, cy := rect.CenterX(), rect.CenterY()+offsetY
	fmt.Fprintf(buf, `  <text class="tile-text" x="%.2f" y="%.2f" text-anchor="middle" font-family="sans-serif" font-size="%.0f" fill="#ffffff">%s</text>`+"\n",
		cx, cy, fontSize, escapeXML(name))

	if rect.Item != nil && rect.Height > 34 {
		fmt.Fprintf(buf, `  <text class="tile-text" x="%.2f" y="%.2f" text-anchor="middle" font-family="sans-serif" font-size="9" fill="#ffffff" opacity="0.85">%s</text>`+"\n",
			cx, cy+13, escapeXML(fmtValue(rect.Item.Value)))
	}
}

func tileLabel(rect render.Tile) string {
	if rect.Item != nil && rect.Item.Name != "" {
		return rect.Item.Name
	}
	return "?"
}

func tileTooltip(rect render.Tile) string {
	if rect.Item == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", rect.Item.Name, fmtValue(rect.Item.Value))
}

// approxTextWidth estimates rendered width for a sans-serif string.
func approxTextWidth(s string, fontSize float64) float64 {
	return float64(len(s)) * fontSize * 0.6
}

// fmtValue formats a position value compactly (1.2M, 340.5K).
func fmtValue(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
