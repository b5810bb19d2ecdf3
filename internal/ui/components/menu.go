package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studydesk/internal/ui/theme"
)

// MenuItem is one selectable row. Detail is rendered dimmed after the
// label.
type MenuItem struct {
	Label  string
	Detail string
	Action func() tea.Cmd
}

// Menu is a vertical list navigated with the arrow keys.
type Menu struct {
	Items    []MenuItem
	Selected int
	Active   bool
}

func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items}
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Items)-1 {
			m.Selected++
		}
	case "enter":
		if item := m.Items[m.Selected]; item.Action != nil {
			return m, item.Action()
		}
	}
	return m, nil
}

func (m Menu) View() string {
	var s string
	for i, item := range m.Items {
		line := "    " + item.Label
		style := theme.Unselected
		if m.Active && i == m.Selected {
			line = "  ▸ " + item.Label
			style = theme.Selected
		}
		s += style.Render(line)
		if item.Detail != "" {
			s += theme.Dim.Render("  " + item.Detail)
		}
		s += "\n"
	}
	return s
}
