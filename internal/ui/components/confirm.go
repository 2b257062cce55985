package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerpath/internal/ui/theme"
)

// Answer is the outcome of a Confirm after a key press.
type Answer int

const (
	Pending Answer = iota
	Yes
	No
)

// Confirm asks a destructive yes/no question. The safe answer starts
// focused; y and n answer directly, Esc answers no.
type Confirm struct {
	Question string
	YesLabel string
	NoLabel  string
	onYes    bool
}

func NewConfirm(question, yes, no string) Confirm {
	return Confirm{Question: question, YesLabel: yes, NoLabel: no}
}

// Update moves focus or resolves the question.
func (c Confirm) Update(msg tea.Msg) (Confirm, Answer) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, Pending
	}
	switch key.String() {
	case "up", "down", "left", "right", "k", "j", "h", "l", "tab":
		c.onYes = !c.onYes
	case "y":
		return c, Yes
	case "n", "esc":
		return c, No
	case "enter":
		if c.onYes {
			return c, Yes
		}
		return c, No
	}
	return c, Pending
}

func (c Confirm) View() string {
	question := lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("  " + c.Question)
	return question + "\n" + c.option(c.YesLabel, c.onYes) + "\n" + c.option(c.NoLabel, !c.onYes) + "\n"
}

func (c Confirm) option(label string, focused bool) string {
	if focused {
		return lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  ▸ " + label)
	}
	return lipgloss.NewStyle().Foreground(theme.Text).Render("    " + label)
}
