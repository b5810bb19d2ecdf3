package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydesk/internal/store"
	"github.com/abhisek/studydesk/internal/study"
	"github.com/abhisek/studydesk/internal/ui/components"
	"github.com/abhisek/studydesk/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return renderMessage(width, theme.Incorrect, fmt.Sprintf("Error: %s\n\n  Press any key to continue.", s.errMsg))
	case !s.loaded:
		return renderMessage(width, theme.Dim, "Loading questions...")
	case s.generating:
		return renderMessage(width, theme.Dim, fmt.Sprintf("Asking for new questions about %s...", s.conv.Name))
	case len(s.questions) == 0:
		msg := "No questions yet. Press M to generate some."
		if s.notice != "" {
			msg = s.notice
		}
		return renderMessage(width, theme.Dim, msg)
	}

	cardWidth := min(width-4, 100)
	q := s.questions[s.index]

	var b strings.Builder
	b.WriteString(components.ProgressBar{
		Label: fmt.Sprintf("Question %d", s.index+1),
		Done:  len(s.results),
		Total: len(s.questions),
		Width: cardWidth - 6,
	}.View())
	b.WriteString("\n\n")
	b.WriteString(theme.Title.Width(cardWidth - 6).Render(q.Question))
	b.WriteString("\n")
	if q.IsMultipleChoice {
		b.WriteString(theme.Hint.Render("Select all that apply."))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if res := s.current(); res != nil {
		b.WriteString(renderResult(q, res, cardWidth-6))
	} else {
		b.WriteString(s.checklist.View())
	}
	if s.notice != "" {
		b.WriteString("\n" + theme.Hint.Render(s.notice))
	}

	card := theme.Card.Width(cardWidth).Render(b.String())
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(card)
}

func renderResult(q store.StudyQuestion, res *study.AnswerResult, width int) string {
	var b strings.Builder
	for _, c := range q.Choices {
		right, picked := res.Correctness[c.Letter]
		mark, style := " ", theme.Dim
		switch {
		case picked && right:
			mark, style = "✓", theme.Correct
		case picked:
			mark, style = "✗", theme.Incorrect
		case c.Correct:
			mark, style = "•", theme.Missed
		}
		b.WriteString(style.Render(fmt.Sprintf("%s %s)  %s", mark, c.Letter, c.Text)))
		b.WriteString("\n")
		if reason := res.Reasoning[c.Letter]; reason != "" {
			b.WriteString(theme.Hint.Width(width).PaddingLeft(6).Render(reason))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	if res.AllCorrect {
		b.WriteString(theme.Correct.Render("All correct!"))
	} else {
		b.WriteString(theme.Incorrect.Render(fmt.Sprintf("Not quite. The answer is %s.", res.CorrectAnswer)))
	}
	return b.String()
}

func renderMessage(width int, style lipgloss.Style, msg string) string {
	return style.
		Width(width).
		Align(lipgloss.Center).
		Render("\n\n\n  " + msg)
}
