package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerpath/internal/ui/theme"
)

// TextInput is a one-line prompt in a rounded box. Lines passed to Remember
// can be recalled with up and down, newest first.
type TextInput struct {
	model   textinput.Model
	history []string
	// recall indexes history while browsing it; len(history) means the
	// draft the user was typing.
	recall int
	draft  string
}

// NewTextInput returns a focused input. limit <= 0 leaves the length
// unbounded.
func NewTextInput(placeholder string, limit int) TextInput {
	m := textinput.New()
	m.Placeholder = placeholder
	m.Prompt = "› "
	if limit > 0 {
		m.CharLimit = limit
	}
	m.Focus()
	return TextInput{model: m}
}

func (t TextInput) Init() tea.Cmd { return t.model.Focus() }

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	key, isKey := msg.(tea.KeyPressMsg)
	if isKey && len(t.history) > 0 {
		switch key.String() {
		case "up":
			t.browse(-1)
			return t, nil
		case "down":
			t.browse(1)
			return t, nil
		}
	}
	var cmd tea.Cmd
	t.model, cmd = t.model.Update(msg)
	if isKey {
		// Editing a recalled line turns it into the draft.
		t.recall = len(t.history)
	}
	return t, cmd
}

func (t *TextInput) browse(step int) {
	if t.recall == len(t.history) {
		t.draft = t.model.Value()
	}
	t.recall = min(max(t.recall+step, 0), len(t.history))
	if t.recall == len(t.history) {
		t.model.SetValue(t.draft)
	} else {
		t.model.SetValue(t.history[t.recall])
	}
	t.model.CursorEnd()
}

// Remember adds a sent line to the recall list. Repeating the last line
// does not add it twice.
func (t *TextInput) Remember(line string) {
	if line == "" || (len(t.history) > 0 && t.history[len(t.history)-1] == line) {
		t.recall = len(t.history)
		return
	}
	t.history = append(t.history, line)
	t.recall = len(t.history)
}

func (t TextInput) View() string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(t.model.View())
}

// Value is the input with surrounding spaces removed.
func (t TextInput) Value() string { return strings.TrimSpace(t.model.Value()) }

func (t *TextInput) Reset() {
	t.model.Reset()
	t.draft = ""
}

func (t *TextInput) SetValue(s string) { t.model.SetValue(s) }

func (t *TextInput) SetWidth(w int) { t.model.SetWidth(w) }
