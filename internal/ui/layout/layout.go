// Package layout draws the frame around the active screen: a header bar
// with the app name, screen title and status, and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydesk/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	appName = "StudyDesk"
)

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// BackHints are shown for screens above the root that provide none.
var BackHints = []KeyHint{
	{Key: "Esc", Description: "Back"},
	{Key: "Ctrl+C", Description: "Quit"},
}

// Frame describes one rendered terminal frame.
type Frame struct {
	Width  int
	Height int
	Title  string
	Status string
	Hints  []KeyHint
}

// TooSmall reports whether the terminal cannot fit the frame.
func (f Frame) TooSmall() bool {
	return f.Width < MinWidth || f.Height < MinHeight
}

// ContentHeight is the number of rows left for the screen body.
func (f Frame) ContentHeight() int {
	return max(0, f.Height-lipgloss.Height(f.header())-lipgloss.Height(f.footer()))
}

// Render draws the header, body and footer. When the terminal is too small
// a resize notice is drawn instead of body.
func (f Frame) Render(body string) string {
	if f.TooSmall() {
		return lipgloss.NewStyle().
			Width(f.Width).
			Height(f.Height).
			Align(lipgloss.Center).
			Foreground(theme.Text).
			Render(fmt.Sprintf("Terminal too small!\n\nResize to at least %d x %d\n\nCurrent: %d x %d",
				MinWidth, MinHeight, f.Width, f.Height))
	}

	body = lipgloss.NewStyle().Width(f.Width).Height(f.ContentHeight()).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, f.header(), body, f.footer())
}

func (f Frame) header() string {
	name := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  " + appName)
	title := lipgloss.NewStyle().Foreground(theme.Text).Render(f.Title)
	status := lipgloss.NewStyle().Foreground(theme.Accent).Render(f.Status)

	inner := max(0, f.Width-4)
	nameW, titleW, statusW := lipgloss.Width(name), lipgloss.Width(title), lipgloss.Width(status)

	// Center the title on the bar, keeping at least one space either side.
	left := max(1, (inner-titleW)/2-nameW)
	right := max(1, inner-nameW-left-titleW-statusW)

	return bar(f.Width).Render(name + strings.Repeat(" ", left) + title + strings.Repeat(" ", right) + status)
}

func (f Frame) footer() string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	b.WriteString("  ")
	for i, h := range f.Hints {
		if i > 0 {
			b.WriteString("   ")
		}
		b.WriteString(key.Render(h.Key) + " " + desc.Render(h.Description))
	}
	return bar(f.Width).Render(b.String())
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}
