package roadmap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerpath/internal/catalog"
	"github.com/abhisek/careerpath/internal/progress"
	"github.com/abhisek/careerpath/internal/router"
	"github.com/abhisek/careerpath/internal/screen"
	"github.com/abhisek/careerpath/internal/tracker"
	"github.com/abhisek/careerpath/internal/ui/components"
	"github.com/abhisek/careerpath/internal/ui/layout"
	"github.com/abhisek/careerpath/internal/ui/theme"
)

// Saver writes a progress snapshot immediately. persist.Gateway
// satisfies it.
type Saver interface {
	Save(ctx context.Context, st progress.State) bool
}

// saveDoneMsg reports the end of a manual save.
type saveDoneMsg struct {
	ok bool
}

// resetDoneMsg reports the end of a progress reset.
type resetDoneMsg struct {
	err error
}

type rowKind int

const (
	rowPhase rowKind = iota
	rowText
	rowProject
)

type row struct {
	kind    rowKind
	phaseID int
	text    string
	project *catalog.Project
}

func (r row) selectable() bool {
	return r.kind != rowText
}

// Options configures a roadmap Screen.
type Options struct {
	Tracker *tracker.Tracker
	Saver   Saver

	// Chat builds the chat screen. Nil hides the chat shortcut.
	Chat func() screen.Screen
}

// Screen lists the phases of the roadmap with their items and projects.
type Screen struct {
	tracker *tracker.Tracker
	saver   Saver
	chat    func() screen.Screen

	rows         []row
	cursor       int
	scrollOffset int
	button       components.Button
	status       string
	confirm      *components.Confirm
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a roadmap screen over an already loaded tracker.
func New(opts Options) *Screen {
	s := &Screen{
		tracker: opts.Tracker,
		saver:   opts.Saver,
		chat:    opts.Chat,
	}
	s.button = components.NewSaveButton(s.save)
	s.rebuild()
	return s
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return s.tracker.Catalog().Title()
}

// KeyHints returns the key binding hints for the footer.
func (s *Screen) KeyHints() []layout.KeyHint {
	if s.confirm != nil {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Elegir"},
			{Key: "Enter", Description: "Confirmar"},
			{Key: "y/n", Description: "Sí/No"},
			{Key: "Esc", Description: "Cancelar"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Espacio", Description: "Completar"},
		{Key: "Enter", Description: "Abrir"},
		{Key: "s", Description: "Guardar"},
	}
	if s.chat != nil {
		hints = append(hints, layout.KeyHint{Key: "c", Description: "Mentor"})
	}
	return append(hints,
		layout.KeyHint{Key: "R", Description: "Reiniciar"},
		layout.KeyHint{Key: "q", Description: "Salir"},
	)
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case saveDoneMsg:
		s.button.Busy = false
		return s, nil

	case resetDoneMsg:
		if msg.err != nil {
			s.status = "No se pudo reiniciar el progreso"
		} else {
			s.status = "Progreso reiniciado"
		}
		s.rebuild()
		return s, nil

	case router.ResumeMsg:
		s.rebuild()
		return s, nil

	case tea.KeyMsg:
		if s.confirm != nil {
			return s.handleConfirmKey(msg)
		}
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		s.moveCursor(-1)
	case "down", "j":
		s.moveCursor(1)
	case "tab":
		s.jumpPhase(1)
	case "shift+tab":
		s.jumpPhase(-1)
	case "space", "x":
		s.toggleCompletion()
	case "enter", "right", "l", "left", "h":
		return s, s.open(msg.String())
	case "s":
		return s, s.button.Press()
	case "c":
		if s.chat != nil {
			chat := s.chat()
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: chat} }
		}
	case "R":
		s.askReset()
	case "q":
		return s, tea.Quit
	}
	return s, nil
}

func (s *Screen) handleConfirmKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	c, answer := s.confirm.Update(msg)
	switch answer {
	case components.Yes:
		s.confirm = nil
		return s, s.reset()
	case components.No:
		s.confirm = nil
	default:
		*s.confirm = c
	}
	return s, nil
}

func (s *Screen) askReset() {
	c := components.NewConfirm("¿Borrar todo tu progreso guardado?", "Sí, borrar mi progreso", "Cancelar")
	s.confirm = &c
}

func (s *Screen) reset() tea.Cmd {
	err := s.tracker.Reset(context.Background())
	return func() tea.Msg { return resetDoneMsg{err: err} }
}

// save snapshots the state on the event loop and writes it off the loop.
func (s *Screen) save() tea.Cmd {
	if s.saver == nil {
		return nil
	}
	s.button.Busy = true
	st := s.tracker.State()
	saver := s.saver
	return func() tea.Msg {
		return saveDoneMsg{ok: saver.Save(context.Background(), st)}
	}
}

func (s *Screen) current() (row, bool) {
	if s.cursor < 0 || s.cursor >= len(s.rows) {
		return row{}, false
	}
	return s.rows[s.cursor], true
}

func (s *Screen) toggleCompletion() {
	r, ok := s.current()
	if !ok {
		return
	}
	s.status = ""
	switch r.kind {
	case rowPhase:
		if _, err := s.tracker.TogglePhase(r.phaseID); err != nil {
			s.status = err.Error()
		}
	case rowProject:
		if _, err := s.tracker.ToggleProject(r.project.ID); err != nil {
			s.status = toggleError(err, *r.project, s.tracker.Credit(r.phaseID))
		}
	}
}

// toggleError turns a tracker error into a status line.
func toggleError(err error, p catalog.Project, credit int) string {
	if errors.Is(err, tracker.ErrLocked) {
		return fmt.Sprintf("🔒 %s: completa %d items más de esta fase para desbloquearlo",
			p.Title, max(p.UnlockAt-credit, 0))
	}
	return err.Error()
}

func (s *Screen) open(key string) tea.Cmd {
	r, ok := s.current()
	if !ok {
		return nil
	}
	switch r.kind {
	case rowPhase:
		open := s.tracker.State().ExpandedPhases.Has(r.phaseID)
		if (key == "right" || key == "l") && open {
			return nil
		}
		if (key == "left" || key == "h") && !open {
			return nil
		}
		s.tracker.ToggleExpand(r.phaseID)
		s.rebuild()
	case rowProject:
		if key != "enter" {
			return nil
		}
		detail := NewProjectScreen(s.tracker, r.phaseID, *r.project)
		return func() tea.Msg { return router.PushScreenMsg{Screen: detail} }
	}
	return nil
}

// rebuild recomputes the visible rows from the expanded phases, keeping
// the cursor on the same phase or project.
func (s *Screen) rebuild() {
	var keep row
	if r, ok := s.current(); ok {
		keep = r
	}

	cat := s.tracker.Catalog()
	st := s.tracker.State()
	s.rows = s.rows[:0]
	for _, ph := range cat.Phases() {
		s.rows = append(s.rows, row{kind: rowPhase, phaseID: ph.ID})
		if !st.ExpandedPhases.Has(ph.ID) {
			continue
		}
		if ph.Duration != "" {
			s.rows = append(s.rows, row{kind: rowText, phaseID: ph.ID, text: "⏱  " + ph.Duration})
		}
		for _, item := range ph.Items {
			s.rows = append(s.rows, row{kind: rowText, phaseID: ph.ID, text: "• " + item})
		}
		for i := range ph.Projects {
			s.rows = append(s.rows, row{kind: rowProject, phaseID: ph.ID, project: &ph.Projects[i]})
		}
		if len(ph.Courses) > 0 {
			s.rows = append(s.rows, row{kind: rowText, phaseID: ph.ID, text: "📚 Cursos recomendados"})
			for _, c := range ph.Courses {
				s.rows = append(s.rows, row{kind: rowText, phaseID: ph.ID, text: "   " + c})
			}
		}
		if ph.Practice != "" {
			s.rows = append(s.rows, row{kind: rowText, phaseID: ph.ID, text: "🎯 Práctica: " + ph.Practice})
		}
	}

	s.cursor = 0
	for i, r := range s.rows {
		if r.kind != keep.kind || r.phaseID != keep.phaseID {
			continue
		}
		if r.kind == rowProject && (keep.project == nil || r.project.ID != keep.project.ID) {
			continue
		}
		if r.selectable() {
			s.cursor = i
			break
		}
	}
}

// moveCursor moves the cursor by delta, skipping display-only rows.
func (s *Screen) moveCursor(delta int) {
	next := s.cursor + delta
	for next >= 0 && next < len(s.rows) {
		if s.rows[next].selectable() {
			s.cursor = next
			return
		}
		next += delta
	}
}

// jumpPhase moves the cursor to the next or previous phase header.
func (s *Screen) jumpPhase(delta int) {
	for i := s.cursor + delta; i >= 0 && i < len(s.rows); i += delta {
		if s.rows[i].kind == rowPhase {
			s.cursor = i
			return
		}
	}
}

// adjustScroll ensures the cursor is visible within the viewport.
func (s *Screen) adjustScroll(height int) {
	if height <= 0 {
		return
	}
	if s.cursor < s.scrollOffset {
		s.scrollOffset = s.cursor
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

func (s *Screen) View(width, height int) string {
	summary := components.SummaryView(s.tracker.Summary(), min(width-4, 70))
	top := lipgloss.NewStyle().PaddingLeft(2).Render(summary)

	bottom := "  " + s.button.View()
	if s.status != "" {
		bottom += "  " + lipgloss.NewStyle().Foreground(theme.Accent).Render(s.status)
	}
	if s.confirm != nil {
		bottom = s.confirm.View()
	}

	listHeight := height - lipgloss.Height(top) - lipgloss.Height(bottom) - 2
	s.adjustScroll(listHeight)

	st := s.tracker.State()
	var lines []string
	for i := s.scrollOffset; i < len(s.rows) && len(lines) < listHeight; i++ {
		lines = append(lines, s.renderRow(s.rows[i], st, i == s.cursor, width))
	}

	return top + "\n\n" + strings.Join(lines, "\n") + "\n\n" + bottom
}

func (s *Screen) renderRow(r row, st progress.State, selected bool, width int) string {
	cursor := "  "
	if selected {
		cursor = "▸ "
	}

	switch r.kind {
	case rowPhase:
		ph, _ := s.tracker.Catalog().Phase(r.phaseID)
		return cursor + renderPhase(ph, st, selected, layout.IsCompactWidth(width))
	case rowProject:
		return cursor + "    " + renderProject(*r.project, s.tracker.Unlocked(r.phaseID, *r.project),
			st.CompletedProjects.Has(r.project.ID), selected)
	default:
		text := r.text
		if limit := width - 10; limit > 10 && len([]rune(text)) > limit {
			text = string([]rune(text)[:limit-1]) + "…"
		}
		return cursor + "    " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(text)
	}
}

func renderPhase(ph catalog.Phase, st progress.State, selected, compact bool) string {
	arrow := "▶"
	if st.ExpandedPhases.Has(ph.ID) {
		arrow = "▼"
	}
	check := "☐"
	style := lipgloss.NewStyle().Foreground(theme.PhaseColor(ph.Color)).Bold(true)
	if st.CompletedPhases.Has(ph.ID) {
		check = "☑"
		style = theme.Done.Bold(true)
	}
	if selected {
		style = theme.Selected
	}
	line := fmt.Sprintf("%s %s %s %s", arrow, check, theme.PhaseIcon(ph.Icon), style.Render(ph.Title))
	if !compact && ph.Duration != "" {
		line += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  · " + ph.Duration)
	}
	return line
}

// ProjectStatusLabel returns the lock or completion label of a project.
func ProjectStatusLabel(p catalog.Project, unlocked, done bool) string {
	switch {
	case done:
		return "✅ Completado"
	case !unlocked:
		return fmt.Sprintf("🔒 Desbloquea tras %d items", p.UnlockAt)
	default:
		return "🔓 Disponible"
	}
}

func renderProject(p catalog.Project, unlocked, done, selected bool) string {
	check := "☐"
	style := theme.Unselected
	switch {
	case done:
		check = "☑"
		style = theme.Done
	case !unlocked:
		check = "🔒"
		style = theme.Locked
	}
	if selected {
		style = theme.Selected
	}
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Render(ProjectStatusLabel(p, unlocked, done))
	return fmt.Sprintf("%s %s %s  %s", check, p.Difficulty.Label(), style.Render(p.Title), label)
}
