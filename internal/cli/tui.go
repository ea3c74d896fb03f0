package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/legalscan/pkg/licenses"
)

// List styles
var (
	listDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
	listTextStyle = lipgloss.NewStyle().Foreground(colorWhite).PaddingLeft(2)
)

// detailLines caps the license text shown in the detail view.
const detailLines = 20

// =============================================================================
// LicenseListModel - Interactive registry browser
// =============================================================================

// LicenseListModel is the bubbletea model for browsing the registry.
// Enter toggles the text of the license under the cursor.
type LicenseListModel struct {
	Licenses []*licenses.KnownLicense
	Cursor   int
	Height   int
	Offset   int
	Expanded bool
}

// newLicenseListModel creates a browser over ls.
func newLicenseListModel(ls []*licenses.KnownLicense) LicenseListModel {
	return LicenseListModel{Licenses: ls, Height: 15}
}

func (m LicenseListModel) Init() tea.Cmd {
	return nil
}

func (m LicenseListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Licenses)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Expanded = !m.Expanded
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m LicenseListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Known Licenses"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ show text  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Licenses))
	b.WriteString(renderLicenseTable(m.Licenses[m.Offset:end], m.Cursor-m.Offset))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Licenses))))

	if m.Expanded && m.Cursor < len(m.Licenses) {
		b.WriteString("\n\n")
		b.WriteString(listTextStyle.Render(excerpt(m.Licenses[m.Cursor].Text, detailLines)))
	}
	return b.String()
}

// renderLicenseTable renders ls as a bordered table. The row at cursor is
// highlighted; pass -1 for none. Viral licenses are shown in amber and
// ad-hoc ones dimmed.
func renderLicenseTable(ls []*licenses.KnownLicense, cursor int) string {
	rows := make([][]string, 0, len(ls))
	for i, l := range ls {
		mark := "  "
		if i == cursor {
			mark = "▸ "
		}
		viral := ""
		if l.Viral {
			viral = "yes"
		}
		spdxID := l.SPDX
		if spdxID == "" {
			spdxID = "—"
		}
		rows = append(rows, []string{mark, l.ID, l.Name, spdxID, viral, fmt.Sprint(len(l.Variants))})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Name", "SPDX", "Viral", "Variants").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < 0 || row >= len(ls) {
				return lipgloss.NewStyle()
			}
			l := ls[row]
			base := lipgloss.NewStyle()
			switch {
			case l.AdHoc:
				base = base.Foreground(colorDim)
			case l.Viral:
				base = base.Foreground(colorYellow)
			}
			if row == cursor {
				return base.Foreground(colorGreen).Bold(true)
			}
			return base
		})

	return t.Render()
}

// excerpt returns the first n lines of text, marking any cut.
func excerpt(text string, n int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[:n], "\n") + fmt.Sprintf("\n… %d more lines", len(lines)-n)
}
