package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mosaicviz/mosaic/pkg/portfolio"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// viewCommand creates the view command for interactive portfolio browsing.
func (c *CLI) viewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view [portfolio.(json|toml)]",
		Short: "Browse a portfolio interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := portfolio.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load portfolio %s: %w", args[0], err)
			}
			if err := p.Validate(); err != nil {
				return err
			}

			model := NewPositionListModel(p)
			prog := tea.NewProgram(model, tea.WithContext(cmd.Context()))
			_, err = prog.Run()
			return err
		},
	}
}

// =============================================================================
// PositionListModel - Interactive position browsing
// =============================================================================

// PositionListModel is the bubbletea model for browsing portfolio positions.
type PositionListModel struct {
	Portfolio *portfolio.Portfolio
	Positions []portfolio.Position
	Total     float64
	Cursor    int
	Height    int
	Offset    int
}

// NewPositionListModel creates a position list sorted by value, largest first.
func NewPositionListModel(p *portfolio.Portfolio) PositionListModel {
	positions := make([]portfolio.Position, len(p.Positions))
	copy(positions, p.Positions)
	sort.SliceStable(positions, func(i, j int) bool {
		return positions[i].Value > positions[j].Value
	})
	return PositionListModel{
		Portfolio: p,
		Positions: positions,
		Total:     p.TotalValue(),
		Height:    15,
	}
}

func (m PositionListModel) Init() tea.Cmd {
	return nil
}

func (m PositionListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Positions)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PositionListModel) View() string {
	var b strings.Builder

	title := m.Portfolio.Name
	if title == "" {
		title = "Portfolio"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Positions) {
		end = len(m.Positions)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		pos := m.Positions[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		sector := pos.Sector
		if sector == "" {
			sector = "—"
		}

		share := "—"
		if m.Total > 0 {
			share = fmt.Sprintf("%.1f%%", pos.Value/m.Total*100)
		}

		rows = append(rows, []string{cursor, pos.DisplayName(), sector, fmt.Sprintf("%.2f", pos.Value), share})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Position", "Sector", "Value", "Share").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d positions · total %.2f", len(m.Positions), m.Total)))
	b.WriteString("\n")

	return b.String()
}
