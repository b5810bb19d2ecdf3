package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydesk/internal/ui/theme"
)

// ProgressBar shows how far through a list the user is.
type ProgressBar struct {
	Label string
	Done  int
	Total int
	Width int
}

func (p ProgressBar) View() string {
	result := ""
	if p.Label != "" {
		result = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}
	counter := fmt.Sprintf("  %d/%d", p.Done, p.Total)

	barWidth := p.Width - lipgloss.Width(result) - len(counter)
	if barWidth < 4 {
		barWidth = 4
	}
	filled := 0
	if p.Total > 0 {
		filled = barWidth * p.Done / p.Total
	}
	filled = max(0, min(filled, barWidth))

	result += lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled))
	result += lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))
	return result + theme.Dim.Render(counter)
}
