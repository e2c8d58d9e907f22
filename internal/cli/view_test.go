package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mosaicviz/mosaic/pkg/portfolio"
)

func viewPortfolio() *portfolio.Portfolio {
	return &portfolio.Portfolio{
		Name: "Test Fund",
		Positions: []portfolio.Position{
			{ID: "b", Name: "Beta", Value: 10, Sector: "energy"},
			{ID: "a", Name: "Alpha", Value: 60, Sector: "tech"},
			{ID: "c", Name: "Gamma", Value: 30},
		},
	}
}

func TestNewPositionListModelSortsByValue(t *testing.T) {
	m := NewPositionListModel(viewPortfolio())

	want := []string{"Alpha", "Gamma", "Beta"}
	for i, name := range want {
		if m.Positions[i].Name != name {
			t.Errorf("position %d = %q, want %q", i, m.Positions[i].Name, name)
		}
	}
	if m.Total != 100 {
		t.Errorf("total = %g, want 100", m.Total)
	}
}

func TestPositionListModelNavigation(t *testing.T) {
	m := NewPositionListModel(viewPortfolio())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(PositionListModel)
	if m.Cursor != 1 {
		t.Errorf("cursor after down = %d, want 1", m.Cursor)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(PositionListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor after up = %d, want 0", m.Cursor)
	}

	// Cursor stays in range at the top
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(PositionListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor clamped = %d, want 0", m.Cursor)
	}
}

func TestPositionListModelQuit(t *testing.T) {
	m := NewPositionListModel(viewPortfolio())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestPositionListModelView(t *testing.T) {
	m := NewPositionListModel(viewPortfolio())
	out := m.View()

	for _, want := range []string{"Test Fund", "Alpha", "60.0%", "3 positions"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
	// Missing sector renders as a dash
	if !strings.Contains(out, "—") {
		t.Error("view missing placeholder for empty sector")
	}
}

func TestPositionListModelViewUnnamedPosition(t *testing.T) {
	m := NewPositionListModel(&portfolio.Portfolio{
		Name: "Test Fund",
		Positions: []portfolio.Position{
			{ID: "aapl", Value: 50, Sector: "tech"},
		},
	})

	// A position without a name falls back to its ID
	if !strings.Contains(m.View(), "aapl") {
		t.Error("view missing ID fallback for unnamed position")
	}
}
