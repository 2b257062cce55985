package components

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerpath/internal/ui/theme"
)

// ToastHideMsg hides the toast with the matching sequence number.
type ToastHideMsg struct {
	Seq int
}

// Toast is a transient notification. Each Show replaces the current
// message and restarts the hide timer; stale timers are ignored.
type Toast struct {
	message string
	seq     int
}

// Show displays message for d and returns the hide timer.
func (t *Toast) Show(message string, d time.Duration) tea.Cmd {
	t.seq++
	t.message = message
	seq := t.seq
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ToastHideMsg{Seq: seq}
	})
}

// Update handles hide messages.
func (t *Toast) Update(msg tea.Msg) {
	if m, ok := msg.(ToastHideMsg); ok && m.Seq == t.seq {
		t.message = ""
	}
}

// Visible reports whether a message is shown.
func (t Toast) Visible() bool {
	return t.message != ""
}

// Message returns the message currently shown.
func (t Toast) Message() string {
	return t.message
}

// View renders the toast right-aligned within width.
func (t Toast) View(width int) string {
	if !t.Visible() {
		return ""
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, theme.Toast.Render(t.message))
}
