// Package quiz is the screen that walks through a conversation's
// questions, scores answers and asks for more questions on demand.
package quiz

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studydesk/internal/router"
	"github.com/abhisek/studydesk/internal/screen"
	"github.com/abhisek/studydesk/internal/store"
	"github.com/abhisek/studydesk/internal/study"
	"github.com/abhisek/studydesk/internal/ui/components"
	"github.com/abhisek/studydesk/internal/ui/layout"
)

// Service is the part of study.Service the quiz needs.
type Service interface {
	Questions(ctx context.Context, conversationID uint) ([]store.StudyQuestion, error)
	AddQuestions(ctx context.Context, conversationID uint) (*study.CycleResult, error)
}

type QuizScreen struct {
	svc  Service
	conv store.StudyConversation

	questions []store.StudyQuestion
	index     int
	checklist components.Checklist
	results   map[uint]*study.AnswerResult

	loaded     bool
	generating bool
	notice     string
	errMsg     string
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
	_ screen.StatusProvider  = (*QuizScreen)(nil)
)

func New(svc Service, conv store.StudyConversation) *QuizScreen {
	return &QuizScreen{svc: svc, conv: conv, results: make(map[uint]*study.AnswerResult)}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.loadQuestions()
}

func (s *QuizScreen) Title() string {
	return s.conv.Name
}

// Status reports correctly answered questions out of those answered.
func (s *QuizScreen) Status() string {
	right := 0
	for _, r := range s.results {
		if r.AllCorrect {
			right++
		}
	}
	return fmt.Sprintf("✓ %d/%d", right, len(s.results))
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.generating || !s.loaded:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case len(s.questions) == 0:
		return []layout.KeyHint{
			{Key: "M", Description: "More questions"},
			{Key: "Esc", Description: "Back"},
		}
	case s.current() != nil:
		return []layout.KeyHint{
			{Key: "←→", Description: "Prev/Next"},
			{Key: "M", Description: "More questions"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "A-E/Space", Description: "Toggle"},
		{Key: "Enter", Description: "Submit"},
		{Key: "←→", Description: "Prev/Next"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.questions = msg.Questions
		s.show(0)
		return s, nil

	case moreQuestionsMsg:
		return s.handleMore(msg)

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleMore(msg moreQuestionsMsg) (screen.Screen, tea.Cmd) {
	s.generating = false
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	added := msg.Result.Questions
	if len(added) == 0 {
		s.notice = "No questions generated. Press M to try again."
		return s, nil
	}
	first := len(s.questions)
	s.questions = append(s.questions, added...)
	s.show(first)
	s.notice = fmt.Sprintf("%d new questions.", len(added))
	return s, func() tea.Msg { return router.BroadcastMsg{Msg: screen.DataChangedMsg{}} }
}

func (s *QuizScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.generating || !s.loaded {
		return s, nil
	}
	if s.errMsg != "" {
		s.errMsg = ""
		return s, nil
	}
	s.notice = ""

	switch msg.String() {
	case "left", "p":
		s.show(s.index - 1)
		return s, nil
	case "right", "n":
		s.show(s.index + 1)
		return s, nil
	case "m", "M":
		s.generating = true
		return s, s.moreQuestions()
	}

	if len(s.questions) == 0 {
		return s, nil
	}
	if s.current() != nil {
		if msg.String() == "enter" {
			s.show(s.index + 1)
		}
		return s, nil
	}
	if msg.String() == "enter" {
		s.submit()
		return s, nil
	}

	var cmd tea.Cmd
	s.checklist, cmd = s.checklist.Update(msg)
	return s, cmd
}

func (s *QuizScreen) submit() {
	q := &s.questions[s.index]
	res, err := study.Score(q, s.checklist.Checked())
	if err != nil {
		s.notice = "Select at least one option."
		return
	}
	s.results[q.ID] = res
}

// show moves to question i, clamped to the list.
func (s *QuizScreen) show(i int) {
	if len(s.questions) == 0 {
		return
	}
	s.index = max(0, min(i, len(s.questions)-1))
	q := s.questions[s.index]
	choices := make([]components.Choice, 0, len(q.Choices))
	for _, c := range q.Choices {
		choices = append(choices, components.Choice{Letter: c.Letter, Text: c.Text})
	}
	s.checklist = components.NewChecklist(choices)
}

// current returns the result for the displayed question, if answered.
func (s *QuizScreen) current() *study.AnswerResult {
	if len(s.questions) == 0 {
		return nil
	}
	return s.results[s.questions[s.index].ID]
}

func (s *QuizScreen) loadQuestions() tea.Cmd {
	svc, id := s.svc, s.conv.ID
	return func() tea.Msg {
		qs, err := svc.Questions(context.Background(), id)
		return questionsLoadedMsg{Questions: qs, Err: err}
	}
}

func (s *QuizScreen) moreQuestions() tea.Cmd {
	svc, id := s.svc, s.conv.ID
	return func() tea.Msg {
		res, err := svc.AddQuestions(context.Background(), id)
		return moreQuestionsMsg{Result: res, Err: err}
	}
}
