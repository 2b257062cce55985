package roadmap

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careerpath/internal/catalog"
	"github.com/abhisek/careerpath/internal/persist"
	"github.com/abhisek/careerpath/internal/router"
	"github.com/abhisek/careerpath/internal/screen"
	"github.com/abhisek/careerpath/internal/tracker"
)

func testCatalog() *catalog.Catalog {
	return catalog.MustNew("Plan de prueba", []catalog.Phase{
		{
			ID:    1,
			Title: "FASE 1: SQL",
			Items: []string{"SELECT", "JOIN", "GROUP BY"},
			Projects: []catalog.Project{
				{ID: "p1-easy", Difficulty: catalog.DifficultyEasy, Title: "Biblioteca", Requirements: []string{"Tablas"}, UnlockAt: 3},
				{ID: "p1-hard", Difficulty: catalog.DifficultyHard, Title: "Hospital", UnlockAt: 4},
			},
		},
		{
			ID:    2,
			Title: "FASE 2: Python",
			Items: []string{"pandas"},
			Projects: []catalog.Project{
				{ID: "p2-easy", Difficulty: catalog.DifficultyEasy, Title: "Limpieza", UnlockAt: 0},
			},
		},
	})
}

type fixture struct {
	screen  *Screen
	tracker *tracker.Tracker
	medium  *persist.MemoryMedium
	notes   *persist.RecordingNotifier
}

func newFixture(t *testing.T, chat func() screen.Screen) fixture {
	t.Helper()
	m := persist.NewMemoryMedium()
	notes := &persist.RecordingNotifier{}
	g := persist.NewGateway(m, persist.Options{
		Scheduler: persist.NewFakeScheduler(),
		Notifier:  notes,
	})
	tr := tracker.New(testCatalog(), g)
	tr.Load(context.Background())
	return fixture{
		screen:  New(Options{Tracker: tr, Saver: g, Chat: chat}),
		tracker: tr,
		medium:  m,
		notes:   notes,
	}
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func keyCode(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func press(s screen.Screen, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, m := range msgs {
		_, cmd = s.Update(m)
	}
	return cmd
}

func TestRows_FirstPhaseExpanded(t *testing.T) {
	f := newFixture(t, nil)
	// phase 1, three items, two projects, phase 2
	if len(f.screen.rows) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(f.screen.rows))
	}
	if r, _ := f.screen.current(); r.kind != rowPhase || r.phaseID != 1 {
		t.Errorf("cursor should start on phase 1, got %+v", r)
	}
}

func TestCursor_SkipsItems(t *testing.T) {
	f := newFixture(t, nil)
	press(f.screen, keyCode(tea.KeyDown))

	r, _ := f.screen.current()
	if r.kind != rowProject || r.project.ID != "p1-easy" {
		t.Fatalf("expected cursor on p1-easy, got %+v", r)
	}

	press(f.screen, keyCode(tea.KeyDown), keyCode(tea.KeyDown))
	if r, _ := f.screen.current(); r.kind != rowPhase || r.phaseID != 2 {
		t.Errorf("expected cursor on phase 2, got %+v", r)
	}
}

func TestToggle_LockedProjectShowsStatus(t *testing.T) {
	f := newFixture(t, nil)
	press(f.screen, keyCode(tea.KeyDown), keyCode(tea.KeySpace))

	if f.tracker.State().CompletedProjects.Has("p1-easy") {
		t.Fatal("locked project must not be toggled")
	}
	if !strings.Contains(f.screen.status, "🔒") || !strings.Contains(f.screen.status, "3 items") {
		t.Errorf("unexpected status %q", f.screen.status)
	}
}

func TestToggle_PhaseUnlocksProject(t *testing.T) {
	f := newFixture(t, nil)
	press(f.screen, keyCode(tea.KeySpace))
	if !f.tracker.State().CompletedPhases.Has(1) {
		t.Fatal("expected phase 1 completed")
	}

	press(f.screen, keyCode(tea.KeyDown), keyCode(tea.KeySpace))
	if !f.tracker.State().CompletedProjects.Has("p1-easy") {
		t.Fatal("expected p1-easy completed after its phase")
	}
	if f.screen.status != "" {
		t.Errorf("status should be empty, got %q", f.screen.status)
	}

	// 3 items + 1 project reaches the hard threshold of 4.
	press(f.screen, keyCode(tea.KeyDown), keyRune('x'))
	if !f.tracker.State().CompletedProjects.Has("p1-hard") {
		t.Error("expected p1-hard completed")
	}
}

func TestEnter_CollapsesPhaseKeepingCursor(t *testing.T) {
	f := newFixture(t, nil)
	press(f.screen, keyCode(tea.KeyEnter))

	if len(f.screen.rows) != 2 {
		t.Fatalf("expected 2 rows after collapse, got %d", len(f.screen.rows))
	}
	if r, _ := f.screen.current(); r.phaseID != 1 {
		t.Errorf("cursor moved to phase %d", r.phaseID)
	}

	// right on a collapsed phase expands it, a second right is a no-op.
	press(f.screen, keyCode(tea.KeyRight), keyCode(tea.KeyRight))
	if len(f.screen.rows) != 7 {
		t.Errorf("expected 7 rows after expand, got %d", len(f.screen.rows))
	}
}

func TestEnter_ProjectPushesDetail(t *testing.T) {
	f := newFixture(t, nil)
	cmd := press(f.screen, keyCode(tea.KeyDown), keyCode(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a navigation command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	detail, ok := push.Screen.(*ProjectScreen)
	if !ok {
		t.Fatalf("expected *ProjectScreen, got %T", push.Screen)
	}
	if detail.Title() != "Biblioteca" {
		t.Errorf("detail title = %q", detail.Title())
	}
}

func TestSave_BusyUntilDone(t *testing.T) {
	f := newFixture(t, nil)
	press(f.screen, keyCode(tea.KeySpace))

	cmd := press(f.screen, keyRune('s'))
	if cmd == nil {
		t.Fatal("expected save command")
	}
	if !f.screen.button.Busy {
		t.Fatal("button should be busy while saving")
	}
	if !strings.Contains(f.screen.View(100, 40), "⏳ Guardando...") {
		t.Error("view should show the saving label")
	}

	msg := cmd()
	done, ok := msg.(saveDoneMsg)
	if !ok || !done.ok {
		t.Fatalf("unexpected save result %#v", msg)
	}
	press(f.screen, msg)
	if f.screen.button.Busy {
		t.Error("button should be idle after save")
	}
	if f.medium.WriteCount() != 1 {
		t.Errorf("expected 1 write, got %d", f.medium.WriteCount())
	}
	notes := f.notes.All()
	if len(notes) == 0 || notes[len(notes)-1].Message != persist.MsgSaved {
		t.Errorf("expected saved notification, got %+v", notes)
	}
}

func TestSave_IgnoredWhileBusy(t *testing.T) {
	f := newFixture(t, nil)
	if press(f.screen, keyRune('s')) == nil {
		t.Fatal("expected first save command")
	}
	if press(f.screen, keyRune('s')) != nil {
		t.Error("second save should be ignored while busy")
	}
}

func TestReset_RequiresConfirmation(t *testing.T) {
	f := newFixture(t, nil)
	press(f.screen, keyCode(tea.KeySpace))

	press(f.screen, keyRune('R'))
	if f.screen.confirm == nil {
		t.Fatal("expected confirmation menu")
	}
	// Cancel is preselected.
	press(f.screen, keyCode(tea.KeyEnter))
	if f.screen.confirm != nil || !f.tracker.State().CompletedPhases.Has(1) {
		t.Fatal("cancel must keep progress")
	}

	press(f.screen, keyRune('R'), keyCode(tea.KeyUp))
	cmd := press(f.screen, keyCode(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected reset command")
	}
	press(f.screen, cmd())
	if f.tracker.State().CompletedPhases.Len() != 0 {
		t.Error("expected progress cleared")
	}
	if f.screen.status != "Progreso reiniciado" {
		t.Errorf("status = %q", f.screen.status)
	}
}

func TestChatShortcut(t *testing.T) {
	f := newFixture(t, nil)
	if press(f.screen, keyRune('c')) != nil {
		t.Error("chat shortcut should be inert without a chat factory")
	}

	target := &ProjectScreen{}
	f = newFixture(t, func() screen.Screen { return target })
	cmd := press(f.screen, keyRune('c'))
	if cmd == nil {
		t.Fatal("expected chat navigation")
	}
	if push, ok := cmd().(router.PushScreenMsg); !ok || push.Screen != target {
		t.Errorf("unexpected message %#v", cmd())
	}
}

func TestView_Labels(t *testing.T) {
	f := newFixture(t, nil)
	view := f.screen.View(120, 40)
	for _, want := range []string{
		"🔒 Desbloquea tras 3 items",
		"💾 Guardar Progreso",
		"0/2",
		"0/3",
		"FASE 1: SQL",
		"SELECT",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestProjectScreen_Toggle(t *testing.T) {
	f := newFixture(t, nil)
	p, phaseID, err := f.tracker.Catalog().Project("p1-easy")
	if err != nil {
		t.Fatal(err)
	}
	d := NewProjectScreen(f.tracker, phaseID, p)

	press(d, keyCode(tea.KeySpace))
	if d.status == "" {
		t.Fatal("expected locked status")
	}

	if _, err := f.tracker.TogglePhase(1); err != nil {
		t.Fatal(err)
	}
	press(d, keyCode(tea.KeySpace))
	if !f.tracker.State().CompletedProjects.Has("p1-easy") {
		t.Error("expected project completed from detail screen")
	}
	view := d.View(100, 30)
	for _, want := range []string{"✅ Completado", "Requisitos", "Tablas", "3/3 items"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q", want)
		}
	}
}

func TestResume_RebuildsRows(t *testing.T) {
	f := newFixture(t, nil)
	f.tracker.ToggleExpand(2)
	press(f.screen, router.ResumeMsg{})
	if len(f.screen.rows) != 9 {
		t.Errorf("expected 9 rows after external expand, got %d", len(f.screen.rows))
	}
}
