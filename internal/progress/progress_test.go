package progress

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/abhisek/careerpath/internal/catalog"
)

// scenarioCatalog is one phase with ten items and two gated projects.
func scenarioCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	items := make([]string, 10)
	for i := range items {
		items[i] = "item"
	}
	c, err := catalog.New("scenario", []catalog.Phase{{
		ID:    1,
		Title: "Phase 1",
		Items: items,
		Projects: []catalog.Project{
			{ID: "a", Difficulty: catalog.DifficultyEasy, UnlockAt: 4},
			{ID: "b", Difficulty: catalog.DifficultyMedium, UnlockAt: 7},
		},
	}})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return c
}

func TestIsUnlocked_Scenario(t *testing.T) {
	c := scenarioCatalog(t)
	a, _, _ := c.Project("a")
	b, _, _ := c.Project("b")

	st := NewState()
	if IsUnlocked(c, 1, a, st) {
		t.Error("a should be locked with no progress")
	}
	if IsUnlocked(c, 1, b, st) {
		t.Error("b should be locked with no progress")
	}

	st.TogglePhase(1)
	if got := Credit(c, 1, st); got != 10 {
		t.Errorf("credit: got %d, want 10", got)
	}
	if !IsUnlocked(c, 1, a, st) {
		t.Error("a should unlock after completing the phase")
	}
	if !IsUnlocked(c, 1, b, st) {
		t.Error("b should unlock after completing the phase")
	}
}

func TestIsUnlocked_ZeroThresholdAlwaysUnlocked(t *testing.T) {
	c := catalog.Default()
	free := catalog.Project{ID: "free", UnlockAt: 0}
	r := rand.New(rand.NewPCG(1, 2))
	for range 50 {
		st := randomState(r, c)
		for _, ph := range c.Phases() {
			if !IsUnlocked(c, ph.ID, free, st) {
				t.Fatalf("phase %d: zero-threshold project locked", ph.ID)
			}
		}
	}
}

func TestIsUnlocked_NoCreditPhase(t *testing.T) {
	c := catalog.Default()
	st := NewState()
	// Progress in other phases must not leak into phase 2.
	st.TogglePhase(1)
	st.ToggleProject("sql-easy")
	st.ToggleProject("sql-medium")

	for _, p := range mustPhase(t, c, 2).Projects {
		want := 0 >= p.UnlockAt
		if got := IsUnlocked(c, 2, p, st); got != want {
			t.Errorf("project %s: got %v, want %v", p.ID, got, want)
		}
	}
}

func TestIsUnlocked_ProjectCreditOwningPhaseOnly(t *testing.T) {
	c := scenarioCatalog(t)
	b, _, _ := c.Project("b")
	st := NewState()
	st.ToggleProject("a")
	st.ToggleProject("stale")
	if got := Credit(c, 1, st); got != 1 {
		t.Errorf("credit: got %d, want 1", got)
	}
	if IsUnlocked(c, 1, b, st) {
		t.Error("b should stay locked at credit 1")
	}
	if got := Remaining(c, 1, b, st); got != 6 {
		t.Errorf("remaining: got %d, want 6", got)
	}
}

func TestIsUnlocked_UnknownPhase(t *testing.T) {
	c := scenarioCatalog(t)
	if IsUnlocked(c, 42, catalog.Project{ID: "x"}, NewState()) {
		t.Error("project in unknown phase should be locked")
	}
}

func TestToggle_Idempotence(t *testing.T) {
	st := NewState()
	st.TogglePhase(3)
	before := st.CompletedPhases.Sorted()

	st.TogglePhase(1)
	st.TogglePhase(1)
	if diff := cmp.Diff(before, st.CompletedPhases.Sorted()); diff != "" {
		t.Errorf("phases changed after double toggle (-want +got):\n%s", diff)
	}

	st.ToggleProject("x")
	st.ToggleProject("x")
	if st.CompletedProjects.Len() != 0 {
		t.Errorf("projects: got %v, want empty", st.CompletedProjects.Sorted())
	}

	st.ToggleExpand(2)
	st.ToggleExpand(2)
	if st.ExpandedPhases.Len() != 0 {
		t.Errorf("expanded: got %v, want empty", st.ExpandedPhases.Sorted())
	}
}

func TestWithToggled_LeavesOriginalUntouched(t *testing.T) {
	st := NewState()
	next := st.WithPhaseToggled(1).WithProjectToggled("a").WithExpandToggled(2)

	if st.CompletedPhases.Len() != 0 || st.CompletedProjects.Len() != 0 || st.ExpandedPhases.Len() != 0 {
		t.Fatal("original state mutated")
	}
	if !next.CompletedPhases.Has(1) || !next.CompletedProjects.Has("a") || !next.ExpandedPhases.Has(2) {
		t.Fatal("toggles missing from returned state")
	}
}

func TestZeroValueState_Toggles(t *testing.T) {
	var st State
	if !st.TogglePhase(1) {
		t.Fatal("toggle on zero state should add")
	}
	if !st.CompletedPhases.Has(1) {
		t.Fatal("phase not recorded")
	}
}

func TestCalculate(t *testing.T) {
	c := catalog.Default() // 5 phases, 15 projects
	tests := []struct {
		name     string
		phases   []int
		projects []string
		want     int
	}{
		{"empty", nil, nil, 0},
		{"one phase", []int{1}, nil, 10},
		{"one project", nil, []string{"sql-easy"}, 3},
		{"all", []int{1, 2, 3, 4, 5}, allProjects(c), 100},
		{"stale ids ignored", []int{1, 99}, []string{"sql-easy", "ghost"}, 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewState()
			for _, id := range tt.phases {
				st.TogglePhase(id)
			}
			for _, id := range tt.projects {
				st.ToggleProject(id)
			}
			if got := Calculate(c, st); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculate_Bounds(t *testing.T) {
	c := catalog.Default()
	r := rand.New(rand.NewPCG(7, 11))
	for range 200 {
		got := Calculate(c, randomState(r, c))
		if got < 0 || got > 100 {
			t.Fatalf("percentage out of range: %d", got)
		}
	}
}

func TestCalculate_NoProjects(t *testing.T) {
	c, err := catalog.New("bare", []catalog.Phase{{ID: 1, Title: "only"}})
	if err != nil {
		t.Fatal(err)
	}
	st := NewState()
	st.TogglePhase(1)
	if got := Calculate(c, st); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestSummarize_Labels(t *testing.T) {
	c := catalog.Default()
	st := NewState()
	st.TogglePhase(2)
	st.ToggleProject("py-easy")
	st.ToggleProject("py-medium")

	s := Summarize(c, st)
	if s.PhasesLabel() != "1/5" {
		t.Errorf("phases label: got %q", s.PhasesLabel())
	}
	if s.ProjectsLabel() != "2/15" {
		t.Errorf("projects label: got %q", s.ProjectsLabel())
	}
	if s.Percent != 17 {
		t.Errorf("percent: got %d, want 17", s.Percent)
	}
}

func mustPhase(t *testing.T, c *catalog.Catalog, id int) catalog.Phase {
	t.Helper()
	ph, ok := c.Phase(id)
	if !ok {
		t.Fatalf("phase %d missing", id)
	}
	return ph
}

func allProjects(c *catalog.Catalog) []string {
	var ids []string
	for _, ph := range c.Phases() {
		for _, p := range ph.Projects {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func randomState(r *rand.Rand, c *catalog.Catalog) State {
	st := NewState()
	for _, ph := range c.Phases() {
		if r.IntN(2) == 0 {
			st.TogglePhase(ph.ID)
		}
		for _, p := range ph.Projects {
			if r.IntN(2) == 0 {
				st.ToggleProject(p.ID)
			}
		}
	}
	return st
}
