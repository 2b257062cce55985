package catalog

import (
	"strings"
	"testing"
)

func TestDefault_Shape(t *testing.T) {
	c := Default()
	if c.TotalPhases() != 5 {
		t.Errorf("got %d phases, want 5", c.TotalPhases())
	}
	if c.TotalProjects() != 15 {
		t.Errorf("got %d projects, want 15", c.TotalProjects())
	}
	if c.FirstPhaseID() != 1 {
		t.Errorf("got first phase %d, want 1", c.FirstPhaseID())
	}
	for _, ph := range c.Phases() {
		if len(ph.Items) != 10 {
			t.Errorf("phase %d: got %d items, want 10", ph.ID, len(ph.Items))
		}
		if len(ph.Projects) != 3 {
			t.Errorf("phase %d: got %d projects, want 3", ph.ID, len(ph.Projects))
		}
	}
}

func TestDefault_UnlockThresholdsFollowDifficulty(t *testing.T) {
	for _, ph := range Default().Phases() {
		for _, p := range ph.Projects {
			if p.UnlockAt != p.Difficulty.DefaultUnlockAt() {
				t.Errorf("project %s: unlock_at %d, want %d", p.ID, p.UnlockAt, p.Difficulty.DefaultUnlockAt())
			}
		}
	}
}

func TestProject_Lookup(t *testing.T) {
	c := Default()
	p, phaseID, err := c.Project("int-medium")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if phaseID != 3 {
		t.Errorf("got phase %d, want 3", phaseID)
	}
	if p.Difficulty != DifficultyMedium {
		t.Errorf("got difficulty %q, want %q", p.Difficulty, DifficultyMedium)
	}

	if _, _, err := c.Project("nope"); err == nil {
		t.Fatal("expected error for unknown project, got nil")
	}
}

func TestPhase_Lookup(t *testing.T) {
	c := Default()
	ph, ok := c.Phase(2)
	if !ok {
		t.Fatal("phase 2 not found")
	}
	if !strings.Contains(ph.Title, "Python") {
		t.Errorf("unexpected title %q", ph.Title)
	}
	if _, ok := c.Phase(99); ok {
		t.Error("phase 99 should not exist")
	}
	if !c.HasPhase(5) || c.HasPhase(0) {
		t.Error("HasPhase mismatch")
	}
	if !c.HasProject("sql-easy") || c.HasProject("") {
		t.Error("HasProject mismatch")
	}
}

func TestPhases_ReturnsCopy(t *testing.T) {
	c := Default()
	phases := c.Phases()
	phases[0].Title = "changed"
	if ph, _ := c.Phase(1); ph.Title == "changed" {
		t.Error("Phases() leaked internal slice")
	}
}

func TestParse_MarshalRoundTrip(t *testing.T) {
	c := Default()
	data, err := Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	again, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if again.Title() != c.Title() {
		t.Errorf("title: got %q, want %q", again.Title(), c.Title())
	}
	if again.TotalProjects() != c.TotalProjects() {
		t.Errorf("projects: got %d, want %d", again.TotalProjects(), c.TotalProjects())
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("phases: [")); err == nil {
		t.Fatal("expected decode error, got nil")
	}
}

func TestNew_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		phases []Phase
		want   string
	}{
		{"empty", nil, "no phases"},
		{
			"duplicate phase",
			[]Phase{{ID: 1, Title: "a"}, {ID: 1, Title: "b"}},
			"duplicate phase ID: 1",
		},
		{"missing title", []Phase{{ID: 1}}, "phase 1 has no title"},
		{
			"duplicate project",
			[]Phase{
				{ID: 1, Title: "a", Projects: []Project{{ID: "x", Difficulty: DifficultyEasy}}},
				{ID: 2, Title: "b", Projects: []Project{{ID: "x", Difficulty: DifficultyEasy}}},
			},
			`duplicate project ID: "x"`,
		},
		{
			"bad difficulty",
			[]Phase{{ID: 1, Title: "a", Projects: []Project{{ID: "x", Difficulty: "epic"}}}},
			`unknown difficulty "epic"`,
		},
		{
			"negative threshold",
			[]Phase{{ID: 1, Title: "a", Projects: []Project{{ID: "x", Difficulty: DifficultyHard, UnlockAt: -1}}}},
			"unlock threshold must be >= 0",
		},
		{
			"project without id",
			[]Phase{{ID: 1, Title: "a", Projects: []Project{{Difficulty: DifficultyEasy}}}},
			"project without ID",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("t", tt.phases)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestDifficulty_Labels(t *testing.T) {
	tests := []struct {
		d    Difficulty
		want string
	}{
		{DifficultyEasy, "🟢 Fácil"},
		{DifficultyMedium, "🟡 Medio"},
		{DifficultyHard, "🔴 Difícil"},
		{"other", "other"},
	}
	for _, tt := range tests {
		if got := tt.d.Label(); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.d, got, tt.want)
		}
	}
	if Difficulty("other").Valid() {
		t.Error("unknown difficulty reported valid")
	}
}
