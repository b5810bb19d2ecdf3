// Package topics is the start screen: it lists study conversations and
// starts new ones from a typed topic.
package topics

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydesk/internal/router"
	"github.com/abhisek/studydesk/internal/screen"
	"github.com/abhisek/studydesk/internal/screens/quiz"
	"github.com/abhisek/studydesk/internal/store"
	"github.com/abhisek/studydesk/internal/study"
	"github.com/abhisek/studydesk/internal/ui/components"
	"github.com/abhisek/studydesk/internal/ui/layout"
	"github.com/abhisek/studydesk/internal/ui/theme"
)

type Service interface {
	quiz.Service
	Conversations(ctx context.Context) ([]store.StudyConversation, error)
	CreateConversation(ctx context.Context, name string) (*study.CycleResult, error)
}

type conversationsMsg struct {
	Conversations []store.StudyConversation
	Err           error
}

type createdMsg struct {
	Result *study.CycleResult
	Err    error
}

type TopicsScreen struct {
	svc      Service
	input    components.TextInput
	menu     components.Menu
	creating string
	errMsg   string
}

var (
	_ screen.Screen          = (*TopicsScreen)(nil)
	_ screen.KeyHintProvider = (*TopicsScreen)(nil)
)

func New(svc Service) *TopicsScreen {
	return &TopicsScreen{
		svc:   svc,
		input: components.NewTextInput("Photosynthesis, The French Revolution, ...", study.MaxNameLength),
	}
}

func (s *TopicsScreen) Init() tea.Cmd {
	return tea.Batch(s.input.Init(), s.load())
}

func (s *TopicsScreen) Title() string {
	return "Topics"
}

func (s *TopicsScreen) KeyHints() []layout.KeyHint {
	if s.menu.Active {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Open"},
			{Key: "Tab", Description: "New topic"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Generate"},
		{Key: "Tab", Description: "Saved topics"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *TopicsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case conversationsMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.setConversations(msg.Conversations)
		return s, nil

	case createdMsg:
		s.creating = ""
		if msg.Err != nil {
			s.input.SetError(msg.Err.Error())
			return s, nil
		}
		s.input.Reset()
		conv := *msg.Result.Conversation
		return s, tea.Batch(s.load(), s.open(conv))

	case screen.DataChangedMsg:
		return s, s.load()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if !s.menu.Active {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *TopicsScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.creating != "" {
		return s, nil
	}
	s.errMsg = ""

	if msg.String() == "tab" {
		if s.menu.Active || len(s.menu.Items) == 0 {
			s.menu.Active = false
			return s, s.input.Focus()
		}
		s.menu.Active = true
		s.input.Blur()
		return s, nil
	}

	var cmd tea.Cmd
	if s.menu.Active {
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	if msg.String() == "enter" {
		return s, s.create()
	}
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *TopicsScreen) setConversations(convs []store.StudyConversation) {
	items := make([]components.MenuItem, 0, len(convs))
	for _, c := range convs {
		items = append(items, components.MenuItem{
			Label:  c.Name,
			Detail: c.CreatedAt.Local().Format("Jan 02"),
			Action: func() tea.Cmd { return s.open(c) },
		})
	}
	s.menu.Items = items
	if s.menu.Selected >= len(items) {
		s.menu.Selected = max(0, len(items)-1)
	}
}

func (s *TopicsScreen) create() tea.Cmd {
	name := s.input.Value()
	if name == "" {
		s.input.SetError("Type a topic first.")
		return nil
	}
	s.creating = name
	svc := s.svc
	return func() tea.Msg {
		res, err := svc.CreateConversation(context.Background(), name)
		return createdMsg{Result: res, Err: err}
	}
}

func (s *TopicsScreen) open(conv store.StudyConversation) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: quiz.New(s.svc, conv)}
	}
}

func (s *TopicsScreen) load() tea.Cmd {
	svc := s.svc
	return func() tea.Msg {
		convs, err := svc.Conversations(context.Background())
		return conversationsMsg{Conversations: convs, Err: err}
	}
}

func (s *TopicsScreen) View(width, height int) string {
	if s.creating != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("\n\n\n  Writing questions about %s...", s.creating))
	}

	body := theme.Title.Render("What do you want to study?") + "\n\n" + s.input.View() + "\n\n"
	if len(s.menu.Items) > 0 {
		body += theme.Title.Render("Saved topics") + "\n\n" + s.menu.View()
	} else {
		body += theme.Hint.Render("No saved topics yet.")
	}
	if s.errMsg != "" {
		body += "\n" + theme.Incorrect.Render(s.errMsg)
	}

	card := theme.Card.Width(min(width-4, 90)).Render(body)
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(card)
}
