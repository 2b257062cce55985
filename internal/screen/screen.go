// Package screen defines what the router stacks: the welcome screen, the
// roadmap, a project's detail and the mentor chat.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careerpath/internal/ui/layout"
)

// Screen is one full-page view below the header and above the footer.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens whose footer hints depend on
// their state, like the roadmap while a reset confirmation is open.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Hints returns s's own hints, or fallback when s has none.
func Hints(s Screen, fallback []layout.KeyHint) []layout.KeyHint {
	if p, ok := s.(KeyHintProvider); ok {
		if h := p.KeyHints(); len(h) > 0 {
			return h
		}
	}
	return fallback
}
