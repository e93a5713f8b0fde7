package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PackageListModel - Interactive package selection
// =============================================================================

// PackageListModel is the bubbletea model behind depviz pick. Typing
// narrows the list to names containing the filter text.
type PackageListModel struct {
	Packages []string
	Filter   string
	Matches  []string
	Cursor   int
	Offset   int
	Height   int
	Selected string
}

// NewPackageListModel creates a picker over packages, shown in the given order.
func NewPackageListModel(packages []string) PackageListModel {
	return PackageListModel{
		Packages: packages,
		Matches:  packages,
		Height:   15,
	}
}

func (m PackageListModel) Init() tea.Cmd {
	return nil
}

func (m PackageListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			m.moveCursor(-1)
		case tea.KeyDown:
			m.moveCursor(1)
		case tea.KeyEnter:
			if len(m.Matches) == 0 {
				return m, nil
			}
			m.Selected = m.Matches[m.Cursor]
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.Filter != "" {
				r := []rune(m.Filter)
				m.setFilter(string(r[:len(r)-1]))
			}
		case tea.KeyRunes:
			m.setFilter(m.Filter + string(msg.Runes))
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m *PackageListModel) moveCursor(delta int) {
	next := m.Cursor + delta
	if next < 0 || next >= len(m.Matches) {
		return
	}
	m.Cursor = next
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m *PackageListModel) setFilter(filter string) {
	m.Filter = filter
	m.Cursor, m.Offset = 0, 0
	if filter == "" {
		m.Matches = m.Packages
		return
	}
	m.Matches = nil
	for _, p := range m.Packages {
		if strings.Contains(p, filter) {
			m.Matches = append(m.Matches, p)
		}
	}
}

func (m PackageListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Package"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to filter  ↑/↓ navigate  ⏎ select  esc quit"))
	b.WriteString("\n")
	b.WriteString(StyleHighlight.Render("/ ") + listNormalStyle.Render(m.Filter))
	b.WriteString("\n\n")

	if len(m.Matches) == 0 {
		b.WriteString(listDimStyle.Render("  no matching packages"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Matches))
	for i := m.Offset; i < end; i++ {
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + m.Matches[i]))
		} else {
			b.WriteString(listNormalStyle.Render("  " + m.Matches[i]))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Matches))))

	return b.String()
}
