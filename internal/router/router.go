// Package router keeps the stack of open screens. The topic list sits at
// the bottom and quizzes are pushed on top of it.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studydesk/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg closes the current screen.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the current screen for Screen.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// BroadcastMsg delivers Msg to every open screen, bottom first, so screens
// below the active one can refresh their data.
type BroadcastMsg struct {
	Msg tea.Msg
}

// Router is a stack of screens. It never becomes empty.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

// Push opens s and returns its Init command.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop closes the current screen. The root screen is never closed.
func (r *Router) Pop() tea.Cmd {
	if n := len(r.stack); n > 1 {
		r.stack[n-1] = nil
		r.stack = r.stack[:n-1]
	}
	return nil
}

// Replace swaps the current screen for s and returns its Init command.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.setTop(s)
	return s.Init()
}

func (r *Router) Active() screen.Screen {
	return r.stack[len(r.stack)-1]
}

func (r *Router) Depth() int {
	return len(r.stack)
}

func (r *Router) setTop(s screen.Screen) {
	r.stack[len(r.stack)-1] = s
}

// Update handles the navigation messages and passes anything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case BroadcastMsg:
		var cmds []tea.Cmd
		for i, s := range r.stack {
			next, cmd := s.Update(msg.Msg)
			r.stack[i] = next
			cmds = append(cmds, cmd)
		}
		return tea.Batch(cmds...)
	default:
		next, cmd := r.Active().Update(msg)
		r.setTop(next)
		return cmd
	}
}

func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}
