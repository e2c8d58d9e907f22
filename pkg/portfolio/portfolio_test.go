package portfolio

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/mosaicviz/mosaic/pkg/errors"
)

func samplePortfolio() *Portfolio {
	return &Portfolio{
		Name: "Growth Fund II",
		Positions: []Position{
			{ID: "acme", Name: "Acme Robotics", Value: 40, Sector: "industrial"},
			{ID: "globex", Name: "Globex", Value: 20, Sector: "software"},
			{ID: "initech", Name: "Initech", Value: 30, Sector: "software"},
			{ID: "umbrella", Value: 10},
		},
	}
}

func TestTotalValue(t *testing.T) {
	p := samplePortfolio()
	if got := p.TotalValue(); got != 100 {
		t.Errorf("TotalValue = %v, want 100", got)
	}

	// Non-positive values are excluded.
	p.Positions = append(p.Positions, Position{ID: "dud", Value: -5})
	if got := p.TotalValue(); got != 100 {
		t.Errorf("TotalValue with negative = %v, want 100", got)
	}
}

func TestGroupBySector(t *testing.T) {
	groups := samplePortfolio().GroupBySector()

	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	// Sorted by descending value: software (50), industrial (40), other (10).
	want := []struct {
		sector string
		value  float64
	}{
		{"software", 50},
		{"industrial", 40},
		{"other", 10},
	}
	for i, w := range want {
		if groups[i].Sector != w.sector {
			t.Errorf("groups[%d].Sector = %q, want %q", i, groups[i].Sector, w.sector)
		}
		if groups[i].Value() != w.value {
			t.Errorf("groups[%d].Value = %v, want %v", i, groups[i].Value(), w.value)
		}
	}
}

func TestItems(t *testing.T) {
	p := samplePortfolio()
	items := p.Items()

	if len(items) != len(p.Positions) {
		t.Fatalf("expected %d items, got %d", len(p.Positions), len(items))
	}
	if items[0].Name != "Acme Robotics" || items[0].Value != 40 {
		t.Errorf("items[0] = %+v", items[0])
	}
	pos, ok := items[0].Meta["position"].(*Position)
	if !ok || pos.ID != "acme" {
		t.Error("item meta should reference the originating position")
	}
	// Name falls back to the ID.
	if items[3].Name != "umbrella" {
		t.Errorf("items[3].Name = %q, want id fallback", items[3].Name)
	}
}

func TestTree(t *testing.T) {
	root := samplePortfolio().Tree()

	if root.Name != "Growth Fund II" {
		t.Errorf("root name = %q", root.Name)
	}
	if len(root.Children) != 3 {
		t.Fatalf("expected 3 sector children, got %d", len(root.Children))
	}
	if w := root.Weight(); w != 100 {
		t.Errorf("root weight = %v, want 100", w)
	}
	if root.Children[0].Name != "software" || root.Children[0].Weight() != 50 {
		t.Errorf("first sector = %q (%v), want software (50)", root.Children[0].Name, root.Children[0].Weight())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		p        Portfolio
		wantCode errors.Code
	}{
		{
			name:     "empty",
			p:        Portfolio{},
			wantCode: errors.ErrCodeInvalidPortfolio,
		},
		{
			name: "anonymous position",
			p: Portfolio{Positions: []Position{
				{Value: 10},
			}},
			wantCode: errors.ErrCodeInvalidPosition,
		},
		{
			name: "nan value",
			p: Portfolio{Positions: []Position{
				{ID: "a", Value: math.NaN()},
			}},
			wantCode: errors.ErrCodeInvalidPosition,
		},
		{
			name: "infinite value",
			p: Portfolio{Positions: []Position{
				{ID: "a", Value: math.Inf(1)},
			}},
			wantCode: errors.ErrCodeInvalidPosition,
		},
		{
			name: "duplicate id",
			p: Portfolio{Positions: []Position{
				{ID: "a", Value: 1},
				{ID: "a", Value: 2},
			}},
			wantCode: errors.ErrCodeInvalidPosition,
		},
		{
			name: "valid",
			p: Portfolio{Positions: []Position{
				{ID: "a", Value: 1},
				{ID: "b", Value: 0}, // non-positive is allowed, just excluded from layout
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("Validate() = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	p := samplePortfolio()

	var buf bytes.Buffer
	if err := p.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Name != p.Name || len(got.Positions) != len(p.Positions) {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Positions[0].Sector != "industrial" {
		t.Errorf("sector lost in round trip: %+v", got.Positions[0])
	}
}

func TestReadJSONInvalid(t *testing.T) {
	_, err := ReadJSON(strings.NewReader("{not json"))
	if !errors.Is(err, errors.ErrCodeInvalidPortfolio) {
		t.Errorf("malformed JSON should map to INVALID_PORTFOLIO, got %v", err)
	}

	// Well-formed JSON but invalid content fails validation.
	_, err = ReadJSON(strings.NewReader(`{"positions": []}`))
	if !errors.Is(err, errors.ErrCodeInvalidPortfolio) {
		t.Errorf("empty portfolio should fail validation, got %v", err)
	}
}
