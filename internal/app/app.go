// Package app is the root Bubble Tea model of the roadmap TUI.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/careerpath/internal/chat"
	"github.com/abhisek/careerpath/internal/router"
	"github.com/abhisek/careerpath/internal/screen"
	"github.com/abhisek/careerpath/internal/screens/mentor"
	"github.com/abhisek/careerpath/internal/screens/roadmap"
	"github.com/abhisek/careerpath/internal/screens/welcome"
	"github.com/abhisek/careerpath/internal/tracker"
	"github.com/abhisek/careerpath/internal/ui/components"
	"github.com/abhisek/careerpath/internal/ui/layout"
)

// Options wires the TUI to the core services.
type Options struct {
	// Tracker must already be loaded.
	Tracker *tracker.Tracker
	Saver   roadmap.Saver

	// Notifier must be the notifier the persistence gateway reports to.
	Notifier *Notifier

	// Chat enables the mentor screen when non-nil.
	Chat   *chat.Service
	UserID string

	SkipWelcome bool
	Logger      *zap.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router   *router.Router
	tracker  *tracker.Tracker
	notifier *Notifier
	toast    components.Toast
	logger   *zap.Logger
	width    int
	height   int
}

// newAppModel creates a new AppModel starting at the welcome screen.
func newAppModel(opts Options) AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tr := opts.Tracker
	var chatScreen func() screen.Screen
	if opts.Chat != nil {
		chatScreen = func() screen.Screen {
			return mentor.New(mentor.Options{
				Service: opts.Chat,
				UserID:  opts.UserID,
				Context: func() chat.UserContext {
					return chat.ContextFor(tr.Catalog(), tr.State())
				},
			})
		}
	}
	home := func() screen.Screen {
		return roadmap.New(roadmap.Options{Tracker: tr, Saver: opts.Saver, Chat: chatScreen})
	}

	var first screen.Screen
	if opts.SkipWelcome {
		first = home()
	} else {
		first = welcome.New(home, tr.Catalog().Title(), tr.Summary())
	}

	return AppModel{
		router:   router.New(first),
		tracker:  tr,
		notifier: opts.Notifier,
		logger:   logger.With(zap.String("component", "tui")),
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.notifier.wait())
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case notificationMsg:
		m.logger.Debug("notification", zap.String("message", msg.Message))
		return m, tea.Batch(m.toast.Show(msg.Message, msg.Duration), m.notifier.wait())

	case components.ToastHideMsg:
		m.toast.Update(msg)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if frame := m.render(); frame != "" {
		v.SetContent(frame)
	}
	return v
}

// render composes the full frame, or "" before the first window size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	header := layout.RenderHeader(m.router.Breadcrumb(" › "), m.tracker.Summary().Percent, m.width)
	footer := layout.RenderFooter(m.keyHints(active), m.width)

	toast := m.toast.View(m.width)
	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if toast != "" {
		contentHeight -= lipgloss.Height(toast)
	}
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	if toast != "" {
		content = lipgloss.NewStyle().Height(contentHeight).Render(content) + "\n" + toast
	}
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) keyHints(active screen.Screen) []layout.KeyHint {
	fallback := []layout.KeyHint{
		{Key: "Enter", Description: "Continuar"},
		{Key: "Ctrl+C", Description: "Salir"},
	}
	if m.router.Depth() > 1 {
		fallback[0] = layout.KeyHint{Key: "Esc", Description: "Volver"}
	}
	return screen.Hints(active, fallback)
}

// Run starts the Bubble Tea program and writes any pending autosave
// when it exits.
func Run(ctx context.Context, opts Options) error {
	if opts.Tracker == nil {
		return errors.New("app: tracker is required")
	}
	p := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx))
	_, err := p.Run()
	opts.Tracker.Flush(context.Background())
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
