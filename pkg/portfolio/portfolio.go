// Package portfolio defines the portfolio data model and its file loaders.
//
// A portfolio is a flat list of positions (holdings) with marked values.
// Positions can be grouped by sector for hierarchical treemap layout, or
// converted directly to layout items with [Portfolio.Items].
//
// Two manifest formats are supported: JSON (the canonical interchange
// format, also used by the HTTP API) and TOML (for hand-written files).
// [ReadFile] dispatches on the file extension.
package portfolio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/mosaicviz/mosaic/pkg/errors"
	"github.com/mosaicviz/mosaic/pkg/treemap"
)

// Position is a single holding in a portfolio.
type Position struct {
	ID     string         `json:"id" bson:"id" toml:"id"`
	Name   string         `json:"name,omitempty" bson:"name,omitempty" toml:"name"`
	Value  float64        `json:"value" bson:"value" toml:"value"`
	Sector string         `json:"sector,omitempty" bson:"sector,omitempty" toml:"sector"`
	Color  string         `json:"color,omitempty" bson:"color,omitempty" toml:"color"`
	Meta   map[string]any `json:"meta,omitempty" bson:"meta,omitempty" toml:"meta"`
}

// DisplayName returns the name if set, otherwise the ID.
func (p *Position) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// Portfolio is a named collection of positions.
type Portfolio struct {
	Name      string     `json:"name,omitempty" bson:"name,omitempty" toml:"name"`
	Positions []Position `json:"positions" bson:"positions" toml:"positions"`
}

// Group is a set of positions sharing a sector.
type Group struct {
	Sector    string
	Positions []Position
}

// Value returns the group's combined positive value.
func (g Group) Value() float64 {
	sum := 0.0
	for _, p := range g.Positions {
		if p.Value > 0 {
			sum += p.Value
		}
	}
	return sum
}

// TotalValue returns the portfolio's combined positive value.
func (p *Portfolio) TotalValue() float64 {
	sum := 0.0
	for _, pos := range p.Positions {
		if pos.Value > 0 {
			sum += pos.Value
		}
	}
	return sum
}

// GroupBySector partitions positions by sector, sorted by descending group
// value (ties by sector name). Positions without a sector fall into the
// "other" group.
func (p *Portfolio) GroupBySector() []Group {
	byName := make(map[string]*Group)
	var order []string
	for _, pos := range p.Positions {
		sector := pos.Sector
		if sector == "" {
			sector = "other"
		}
		g, ok := byName[sector]
		if !ok {
			g = &Group{Sector: sector}
			byName[sector] = g
			order = append(order, sector)
		}
		g.Positions = append(g.Positions, pos)
	}

	groups := make([]Group, 0, len(order))
	for _, name := range order {
		groups = append(groups, *byName[name])
	}
	slices.SortStableFunc(groups, func(a, b Group) int {
		if av, bv := a.Value(), b.Value(); av != bv {
			if av > bv {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Sector, b.Sector)
	})
	return groups
}

// Items converts the portfolio to layout items. Each item's Meta carries the
// originating position under the "position" key so renderers and the TUI can
// recover it from a layout rectangle.
func (p *Portfolio) Items() []treemap.Item {
	items := make([]treemap.Item, len(p.Positions))
	for i := range p.Positions {
		pos := &p.Positions[i]
		items[i] = treemap.Item{
			Name:  pos.DisplayName(),
			Value: pos.Value,
			Color: pos.Color,
			Meta:  map[string]any{"position": pos},
		}
	}
	return items
}

// Tree builds the sector hierarchy for nested layout: a root node with one
// child per sector, each holding its positions as leaves.
func (p *Portfolio) Tree() *treemap.Node {
	root := &treemap.Node{Item: treemap.Item{Name: p.Name}}
	for _, g := range p.GroupBySector() {
		sector := &treemap.Node{Item: treemap.Item{Name: g.Sector}}
		for i := range g.Positions {
			pos := g.Positions[i]
			sector.Children = append(sector.Children, &treemap.Node{
				Item: treemap.Item{
					Name:  pos.DisplayName(),
					Value: pos.Value,
					Color: pos.Color,
					Meta:  map[string]any{"position": &pos},
				},
			})
		}
		root.Children = append(root.Children, sector)
	}
	return root
}

// Validate checks the portfolio for structural problems.
// Non-positive values are allowed (the layout drops them); non-finite
// values and duplicate IDs are not.
func (p *Portfolio) Validate() error {
	if len(p.Positions) == 0 {
		return errors.New(errors.ErrCodeInvalidPortfolio, "portfolio has no positions")
	}

	seen := make(map[string]struct{}, len(p.Positions))
	for i, pos := range p.Positions {
		if pos.ID == "" && pos.Name == "" {
			return errors.New(errors.ErrCodeInvalidPosition, "position %d has neither id nor name", i)
		}
		if math.IsNaN(pos.Value) || math.IsInf(pos.Value, 0) {
			return errors.New(errors.ErrCodeInvalidPosition, "position %q has non-finite value", pos.DisplayName())
		}
		if pos.ID != "" {
			if _, dup := seen[pos.ID]; dup {
				return errors.New(errors.ErrCodeInvalidPosition, "duplicate position id %q", pos.ID)
			}
			seen[pos.ID] = struct{}{}
		}
	}
	return nil
}

// ReadJSON decodes a portfolio from r and validates it.
func ReadJSON(r io.Reader) (*Portfolio, error) {
	var p Portfolio
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPortfolio, err, "decode portfolio")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// WriteJSON encodes the portfolio as indented JSON to w.
func (p *Portfolio) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode portfolio: %w", err)
	}
	return nil
}

// Marshal encodes the portfolio as JSON bytes.
func (p *Portfolio) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// Unmarshal decodes and validates a portfolio from JSON bytes.
func Unmarshal(data []byte) (*Portfolio, error) {
	return ReadJSON(bytes.NewReader(data))
}
