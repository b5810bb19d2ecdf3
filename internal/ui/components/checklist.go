package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studydesk/internal/ui/theme"
)

// Choice is one lettered option of a Checklist.
type Choice struct {
	Letter string
	Text   string
}

// Checklist lets the user tick any number of lettered options. Letters
// can be toggled directly or with the cursor and space.
type Checklist struct {
	Choices []Choice
	Cursor  int
	checked map[string]bool
}

func NewChecklist(choices []Choice) Checklist {
	return Checklist{Choices: choices, checked: make(map[string]bool)}
}

func (c Checklist) Update(msg tea.Msg) (Checklist, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Choices)-1 {
			c.Cursor++
		}
	case "space":
		if c.Cursor < len(c.Choices) {
			c.Toggle(c.Choices[c.Cursor].Letter)
		}
	default:
		c.Toggle(strings.ToUpper(key))
	}
	return c, nil
}

// Toggle flips letter if it names a choice.
func (c *Checklist) Toggle(letter string) {
	for _, ch := range c.Choices {
		if ch.Letter == letter {
			if c.checked == nil {
				c.checked = make(map[string]bool)
			}
			c.checked[letter] = !c.checked[letter]
			return
		}
	}
}

// Checked returns the ticked letters in choice order.
func (c Checklist) Checked() []string {
	var out []string
	for _, ch := range c.Choices {
		if c.checked[ch.Letter] {
			out = append(out, ch.Letter)
		}
	}
	return out
}

func (c Checklist) View() string {
	var b strings.Builder
	for i, ch := range c.Choices {
		prefix := "  "
		if i == c.Cursor {
			prefix = "▸ "
		}
		box := "[ ]"
		if c.checked[ch.Letter] {
			box = "[x]"
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, box, ch.Letter, ch.Text)
		if i == c.Cursor {
			b.WriteString(theme.Selected.Render(line))
		} else {
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
