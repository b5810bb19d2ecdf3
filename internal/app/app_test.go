package app

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studydesk/internal/store"
	"github.com/abhisek/studydesk/internal/study"
)

type emptyStudy struct{}

func (emptyStudy) Conversations(context.Context) ([]store.StudyConversation, error) { return nil, nil }
func (emptyStudy) CreateConversation(context.Context, string) (*study.CycleResult, error) {
	return &study.CycleResult{}, nil
}
func (emptyStudy) Questions(context.Context, uint) ([]store.StudyQuestion, error) { return nil, nil }
func (emptyStudy) AddQuestions(context.Context, uint) (*study.CycleResult, error) {
	return &study.CycleResult{}, nil
}

func TestDirectConversationStartsOnQuiz(t *testing.T) {
	m := newAppModel(Options{Study: emptyStudy{}, Conversation: &store.StudyConversation{ID: 3, Name: "Tides"}})
	if m.router.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", m.router.Depth())
	}
	if got := m.router.Active().Title(); got != "Tides" {
		t.Errorf("active = %q, want Tides", got)
	}

	updated, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	m = updated.(AppModel)
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	m.Update(cmd())
	if m.router.Depth() != 1 {
		t.Errorf("depth after esc = %d, want 1", m.router.Depth())
	}
}

func TestEscAtRootDoesNothing(t *testing.T) {
	m := newAppModel(Options{Study: emptyStudy{}})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("expected no command at the root screen")
	}
}

func TestRootScreenIsTopics(t *testing.T) {
	m := newAppModel(Options{Study: emptyStudy{}})
	if got := m.router.View(100, 20); !strings.Contains(got, "What do you want to study?") {
		t.Errorf("expected topic prompt, got:\n%s", got)
	}
}
