// Package welcome is the splash shown at startup: the roadmap drawn as a
// path of phase stops, then the banner. It replaces itself with the home
// screen after persist.WelcomeDuration or on any key.
package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerpath/internal/persist"
	"github.com/abhisek/careerpath/internal/progress"
	"github.com/abhisek/careerpath/internal/router"
	"github.com/abhisek/careerpath/internal/screen"
	"github.com/abhisek/careerpath/internal/ui/layout"
	"github.com/abhisek/careerpath/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	totalDur     = persist.WelcomeDuration

	// The path is drawn stop by stop until pathEnd; the banner follows at
	// bannerAt.
	pathEnd  = 500 * time.Millisecond
	bannerAt = 1500 * time.Millisecond

	maxStops = 12
)

type tickMsg time.Time

type WelcomeScreen struct {
	next    func() screen.Screen
	title   string
	summary progress.Summary

	elapsed time.Duration
	done    bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New builds the splash for a roadmap titled title. summary decides how many
// stops the path has and how many of them are already lit.
func New(next func() screen.Screen, title string, summary progress.Summary) *WelcomeScreen {
	return &WelcomeScreen{next: next, title: title, summary: summary}
}

// Title is empty so the header stays blank while the splash runs.
func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.done {
			return w, nil
		}
		w.elapsed = min(w.elapsed+tickInterval, totalDur)
		if w.elapsed == totalDur {
			return w, w.leave()
		}
		return w, tick()
	case tea.KeyPressMsg:
		return w, w.leave()
	}
	return w, nil
}

// leave builds the home screen once; later calls return nil.
func (w *WelcomeScreen) leave() tea.Cmd {
	if w.done {
		return nil
	}
	w.done = true
	home := w.next()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: home} }
}

func (w *WelcomeScreen) View(width, height int) string {
	parts := []string{w.path()}

	if w.elapsed >= bannerAt {
		parts = append(parts,
			"",
			RenderBanner(width, layout.IsCompactHeight(height)),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(persist.MsgWelcome),
		)
		if w.title != "" {
			parts = append(parts, theme.Subtitle.Render(w.title))
		}
		if w.summary.PhasesCompleted > 0 {
			parts = append(parts, theme.Hint.Render(fmt.Sprintf("%s fases completadas", w.summary.PhasesLabel())))
		}
		parts = append(parts, "", theme.Hint.Render("presiona cualquier tecla para continuar"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(parts, "\n"))
}

// path draws one stop per phase. Stops appear left to right while the intro
// runs; completed phases are drawn filled.
func (w *WelcomeScreen) path() string {
	stops := min(max(w.summary.PhasesTotal, 1), maxStops)
	shown := stops
	if w.elapsed < pathEnd {
		shown = max(1, int(w.elapsed*time.Duration(stops)/pathEnd))
	}

	lit := lipgloss.NewStyle().Foreground(theme.Accent)
	dim := lipgloss.NewStyle().Foreground(theme.Primary)
	var b strings.Builder
	for i := range shown {
		if i > 0 {
			b.WriteString(dim.Render("──"))
		}
		if i < w.summary.PhasesCompleted {
			b.WriteString(lit.Render("●"))
		} else {
			b.WriteString(dim.Render("○"))
		}
	}
	return b.String()
}
