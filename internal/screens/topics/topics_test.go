package topics

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studydesk/internal/router"
	"github.com/abhisek/studydesk/internal/screen"
	"github.com/abhisek/studydesk/internal/store"
	"github.com/abhisek/studydesk/internal/study"
)

type fakeService struct {
	convs   []store.StudyConversation
	created []string
	err     error
}

func (f *fakeService) Conversations(context.Context) ([]store.StudyConversation, error) {
	return f.convs, nil
}

func (f *fakeService) CreateConversation(_ context.Context, name string) (*study.CycleResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, name)
	conv := store.StudyConversation{ID: uint(len(f.convs) + 1), Name: name}
	f.convs = append(f.convs, conv)
	return &study.CycleResult{Conversation: &conv}, nil
}

func (f *fakeService) Questions(context.Context, uint) ([]store.StudyQuestion, error) {
	return nil, nil
}

func (f *fakeService) AddQuestions(context.Context, uint) (*study.CycleResult, error) {
	return &study.CycleResult{}, nil
}

func typeText(s *TopicsScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

// drain runs cmd and every batched command it produces, collecting the
// resulting messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestCreateTopicOpensQuiz(t *testing.T) {
	svc := &fakeService{}
	s := New(svc)

	typeText(s, "Volcanoes")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a create command")
	}
	if !strings.Contains(s.View(100, 30), "Writing questions about Volcanoes") {
		t.Error("expected progress message")
	}

	_, cmd = s.Update(cmd())
	if len(svc.created) != 1 || svc.created[0] != "Volcanoes" {
		t.Fatalf("created = %v", svc.created)
	}

	var pushed bool
	for _, msg := range drain(cmd) {
		switch m := msg.(type) {
		case router.PushScreenMsg:
			pushed = m.Screen.Title() == "Volcanoes"
		case conversationsMsg:
			s.Update(m)
		}
	}
	if !pushed {
		t.Error("expected quiz screen to be pushed")
	}
	if !strings.Contains(s.View(100, 30), "Saved topics") {
		t.Error("expected saved topics list after reload")
	}
}

func TestEmptyTopicIsRejected(t *testing.T) {
	s := New(&fakeService{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for an empty topic")
	}
	if !strings.Contains(s.View(100, 30), "Type a topic first.") {
		t.Error("expected validation message")
	}
}

func TestCreateErrorIsShown(t *testing.T) {
	s := New(&fakeService{err: errors.New("completion returned no text")})
	typeText(s, "Tides")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(cmd())
	if !strings.Contains(s.View(100, 30), "completion returned no text") {
		t.Error("expected error under the input")
	}
}

func TestOpenSavedTopic(t *testing.T) {
	svc := &fakeService{convs: []store.StudyConversation{{ID: 1, Name: "Rivers"}, {ID: 2, Name: "Deserts"}}}
	s := New(svc)
	s.Update(s.load()())

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected open command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if push.Screen.Title() != "Deserts" {
		t.Errorf("opened %q, want Deserts", push.Screen.Title())
	}

	svc.convs = svc.convs[:1]
	_, cmd = s.Update(screen.DataChangedMsg{})
	s.Update(cmd())
	if s.menu.Selected != 0 {
		t.Errorf("selection clamps after reload, got %d", s.menu.Selected)
	}
}
