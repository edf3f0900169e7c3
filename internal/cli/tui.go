package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pathforge/pathforge/pkg/hosting"
)

// List styles
var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// PathwayListModel - Interactive hosted pathway selection
// =============================================================================

// PathwayListModel is the bubbletea model for interactive pathway selection.
type PathwayListModel struct {
	Pathways []hosting.Summary
	Cursor   int
	Selected *hosting.Summary
	Height   int
	Offset   int
}

// NewPathwayListModel creates a new pathway list model.
func NewPathwayListModel(pathways []hosting.Summary) PathwayListModel {
	return PathwayListModel{
		Pathways: pathways,
		Cursor:   0,
		Height:   15,
		Offset:   0,
	}
}

func (m PathwayListModel) Init() tea.Cmd {
	return nil
}

func (m PathwayListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Pathways)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			selected := m.Pathways[m.Cursor]
			m.Selected = &selected
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PathwayListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Pathway"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Pathways) {
		end = len(m.Pathways)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Pathways[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		desc := p.Description
		if desc == "" {
			desc = "—"
		}
		if len(desc) > 50 {
			desc = desc[:50] + "..."
		}

		rows = append(rows, []string{cursor, p.Name, p.ID, desc})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "ID", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Pathways) {
				return lipgloss.NewStyle()
			}

			base := lipgloss.NewStyle()
			if col == 3 {
				base = base.Foreground(colorDim)
			}
			if actualIdx == m.Cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Pathways))))

	return b.String()
}
