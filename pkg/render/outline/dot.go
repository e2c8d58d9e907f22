// Package outline exports the portfolio hierarchy as a Graphviz node-link
// diagram. This is a structural companion to the treemap: it shows the
// portfolio -> sector -> position tree with value annotations.
package outline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/mosaicviz/mosaic/pkg/portfolio"
)

// Options configures outline rendering.
type Options struct {
	// Detailed includes position values and sector totals in labels.
	// When false, only names are shown.
	Detailed bool

	// Grouped inserts sector nodes between the portfolio and positions.
	Grouped bool
}

// ToDOT converts a portfolio to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
func ToDOT(p portfolio.Portfolio, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph portfolio {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	rootID := p.Name
	if rootID == "" {
		rootID = "portfolio"
	}
	rootLabel := rootID
	if opts.Detailed {
		rootLabel = fmt.Sprintf("%s\ntotal: %.2f", rootID, p.TotalValue())
	}
	fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=lightgrey];\n", rootID, rootLabel)

	if opts.Grouped {
		writeGroupedNodes(&buf, p, rootID, opts.Detailed)
	} else {
		for _, pos := range p.Positions {
			writePosition(&buf, rootID, pos, opts.Detailed)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeGroupedNodes(buf *bytes.Buffer, p portfolio.Portfolio, rootID string, detailed bool) {
	for _, g := range p.GroupBySector() {
		sectorID := "sector:" + g.Sector
		label := g.Sector
		if detailed {
			label = fmt.Sprintf("%s\ntotal: %.2f", g.Sector, g.Value())
		}
		fmt.Fprintf(buf, "  %q [label=%q, style=\"rounded,filled,dashed\", fillcolor=white];\n", sectorID, label)
		fmt.Fprintf(buf, "  %q -> %q;\n", rootID, sectorID)
		for _, pos := range g.Positions {
			writePosition(buf, sectorID, pos, detailed)
		}
	}
}

func writePosition(buf *bytes.Buffer, parentID string, pos portfolio.Position, detailed bool) {
	label := pos.DisplayName()
	if detailed {
		label = fmt.Sprintf("%s\nvalue: %.2f", label, pos.Value)
	}
	attrs := fmt.Sprintf("label=%q", label)
	if pos.Color != "" {
		attrs += fmt.Sprintf(", fillcolor=%q", pos.Color)
	}
	fmt.Fprintf(buf, "  %q [%s];\n", pos.DisplayName(), attrs)
	fmt.Fprintf(buf, "  %q -> %q;\n", parentID, pos.DisplayName())
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG)
}

func renderFormat(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
