// Package theme holds the colors and styles shared by the quiz screens.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette is one set of colors the styles are derived from.
type Palette struct {
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	BgCard    color.Color
	Border    color.Color
}

// Slate is the default palette, muted for long reading sessions.
var Slate = Palette{
	Primary:   lipgloss.Color("#6366F1"),
	Secondary: lipgloss.Color("#0EA5E9"),
	Accent:    lipgloss.Color("#F59E0B"),
	Success:   lipgloss.Color("#22C55E"),
	Error:     lipgloss.Color("#F43F5E"),
	Text:      lipgloss.Color("#F8FAFC"),
	TextDim:   lipgloss.Color("#94A3B8"),
	BgCard:    lipgloss.Color("#1E293B"),
	Border:    lipgloss.Color("#334155"),
}

var (
	Primary   = Slate.Primary
	Secondary = Slate.Secondary
	Accent    = Slate.Accent
	Success   = Slate.Success
	Error     = Slate.Error
	Text      = Slate.Text
	TextDim   = Slate.TextDim
	BgCard    = Slate.BgCard
	Border    = Slate.Border
)

var (
	Title      = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Body       = lipgloss.NewStyle().Foreground(Text)
	Hint       = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	Dim        = lipgloss.NewStyle().Foreground(TextDim)
	Card       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Border).Padding(1, 2)
	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
)

// Option verdicts shown after an answer is revealed.
var (
	Correct   = verdict(Success)
	Incorrect = verdict(Error)
	Missed    = verdict(Accent)
)

func verdict(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

