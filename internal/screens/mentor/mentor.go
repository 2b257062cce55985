// Package mentor is the chat screen where the user talks to the AI
// career mentor.
package mentor

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"

	"github.com/abhisek/careerpath/internal/chat"
	"github.com/abhisek/careerpath/internal/llm"
	"github.com/abhisek/careerpath/internal/screen"
	"github.com/abhisek/careerpath/internal/ui/components"
	"github.com/abhisek/careerpath/internal/ui/layout"
	"github.com/abhisek/careerpath/internal/ui/theme"
)

const greeting = "¡Hola! Soy tu mentor de carrera. Pregúntame qué estudiar, cómo encarar un proyecto o cómo preparar tu portafolio."

// historyMsg carries the stored conversation.
type historyMsg struct {
	messages []chat.Message
	err      error
}

// replyMsg carries the mentor's answer.
type replyMsg struct {
	reply chat.Message
	err   error
}

// clearedMsg reports the end of a history wipe.
type clearedMsg struct {
	err error
}

// Options configures the chat screen.
type Options struct {
	Service *chat.Service
	UserID  string

	// Context snapshots the user's roadmap for the system prompt. It is
	// called on the event loop when a message is sent.
	Context func() chat.UserContext
}

// Screen is the mentor chat.
type Screen struct {
	svc     *chat.Service
	userID  string
	context func() chat.UserContext

	input    components.TextInput
	spinner  spinner.Model
	messages []chat.Message
	waiting  bool
	errMsg   string
	scroll   int

	renderer      *glamour.TermRenderer
	rendererWidth int
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the chat screen.
func New(opts Options) *Screen {
	ctxFn := opts.Context
	if ctxFn == nil {
		ctxFn = func() chat.UserContext { return chat.UserContext{} }
	}
	return &Screen{
		svc:     opts.Service,
		userID:  opts.UserID,
		context: ctxFn,
		input:   components.NewTextInput("Escribe tu pregunta y presiona Enter", 1000),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent))),
	}
}

func (s *Screen) Init() tea.Cmd {
	return tea.Batch(s.input.Init(), s.loadHistory())
}

func (s *Screen) Title() string {
	return "Mentor IA"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Enviar"},
		{Key: "PgUp/PgDn", Description: "Desplazar"},
		{Key: "Ctrl+L", Description: "Borrar chat"},
		{Key: "Esc", Description: "Volver"},
	}
}

func (s *Screen) loadHistory() tea.Cmd {
	svc, userID := s.svc, s.userID
	return func() tea.Msg {
		msgs, err := svc.History(context.Background(), userID, 0)
		return historyMsg{messages: msgs, err: err}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyMsg:
		if msg.err != nil {
			s.errMsg = "No se pudo cargar el historial"
			return s, nil
		}
		s.messages = msg.messages
		return s, nil

	case replyMsg:
		s.waiting = false
		if msg.err != nil {
			s.errMsg = "No se pudo guardar la conversación: " + msg.err.Error()
			return s, nil
		}
		s.messages = append(s.messages, msg.reply)
		s.scroll = 0
		return s, nil

	case clearedMsg:
		if msg.err != nil {
			s.errMsg = "No se pudo borrar el historial"
			return s, nil
		}
		s.messages = nil
		s.scroll = 0
		return s, nil

	case spinner.TickMsg:
		if !s.waiting {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return s, s.send()
		case "pgup":
			s.scroll += 5
			return s, nil
		case "pgdown":
			s.scroll = max(s.scroll-5, 0)
			return s, nil
		case "ctrl+l":
			if s.waiting {
				return s, nil
			}
			svc, userID := s.svc, s.userID
			return s, func() tea.Msg {
				return clearedMsg{err: svc.Clear(context.Background(), userID)}
			}
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// send posts the input as a user turn and asks the mentor off the loop.
func (s *Screen) send() tea.Cmd {
	text := s.input.Value()
	if text == "" || s.waiting {
		return nil
	}
	s.input.Remember(text)
	s.input.Reset()
	s.errMsg = ""
	s.waiting = true
	s.scroll = 0
	s.messages = append(s.messages, chat.Message{UserID: s.userID, Role: llm.RoleUser, Content: text})

	svc, userID, uc := s.svc, s.userID, s.context()
	ask := func() tea.Msg {
		reply, err := svc.Send(context.Background(), userID, text, uc)
		return replyMsg{reply: reply, err: err}
	}
	return tea.Batch(ask, s.spinner.Tick)
}

// Waiting reports whether an answer is pending.
func (s *Screen) Waiting() bool {
	return s.waiting
}

func (s *Screen) View(width, height int) string {
	contentWidth := max(width-4, 20)
	s.input.SetWidth(contentWidth - 6)

	var lines []string
	lines = append(lines, strings.Split(s.renderTurn(llm.RoleAssistant, greeting, contentWidth), "\n")...)
	for _, m := range s.messages {
		lines = append(lines, "")
		lines = append(lines, strings.Split(s.renderTurn(m.Role, m.Content, contentWidth), "\n")...)
	}
	if s.waiting {
		lines = append(lines, "", "  "+s.spinner.View()+" "+theme.Hint.Render("El mentor está escribiendo..."))
	}

	footer := s.input.View()
	if s.errMsg != "" {
		footer = lipgloss.NewStyle().Foreground(theme.Error).Render("  "+s.errMsg) + "\n" + footer
	}

	avail := max(height-lipgloss.Height(footer)-1, 1)
	end := len(lines) - min(s.scroll, max(len(lines)-avail, 0))
	start := max(end-avail, 0)
	body := strings.Join(lines[start:end], "\n")

	return lipgloss.NewStyle().Height(avail).Render(body) + "\n" + footer
}

func (s *Screen) renderTurn(role llm.Role, content string, width int) string {
	if role == llm.RoleUser {
		label := theme.UserBubble.Render("  Tú")
		text := lipgloss.NewStyle().Foreground(theme.Text).Width(width).PaddingLeft(2).Render(content)
		return label + "\n" + text
	}
	label := theme.AssistantBubble.Render("  Mentor")
	return label + "\n" + s.renderMarkdown(content, width)
}

// renderMarkdown renders assistant answers, falling back to plain text
// when glamour cannot build a renderer.
func (s *Screen) renderMarkdown(content string, width int) string {
	if s.renderer == nil || s.rendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width-4),
		)
		if err != nil {
			return lipgloss.NewStyle().Width(width).PaddingLeft(2).Render(content)
		}
		s.renderer, s.rendererWidth = r, width
	}
	out, err := s.renderer.Render(content)
	if err != nil {
		return lipgloss.NewStyle().Width(width).PaddingLeft(2).Render(content)
	}
	return strings.TrimRight(out, "\n")
}
