package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studydesk/internal/router"
	"github.com/abhisek/studydesk/internal/screen"
	"github.com/abhisek/studydesk/internal/screens/quiz"
	"github.com/abhisek/studydesk/internal/screens/topics"
	"github.com/abhisek/studydesk/internal/store"
	"github.com/abhisek/studydesk/internal/ui/layout"
)

// Options configures the terminal app.
type Options struct {
	Study topics.Service

	// Conversation, when set, opens its quiz directly on top of the
	// topic list.
	Conversation *store.StudyConversation
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	start  tea.Cmd
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	home := topics.New(opts.Study)
	m := AppModel{router: router.New(home), start: home.Init()}
	if opts.Conversation != nil {
		m.start = tea.Batch(m.start, m.router.Push(quiz.New(opts.Study, *opts.Conversation)))
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return m.start
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}

	active := m.router.Active()
	frame := layout.Frame{Width: m.width, Height: m.height, Title: active.Title()}
	if sp, ok := active.(screen.StatusProvider); ok {
		frame.Status = sp.Status()
	}
	if kp, ok := active.(screen.KeyHintProvider); ok {
		frame.Hints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		frame.Hints = layout.BackHints
	}

	body := ""
	if !frame.TooSmall() {
		body = m.router.View(m.width, frame.ContentHeight())
	}
	v.SetContent(frame.Render(body))
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
