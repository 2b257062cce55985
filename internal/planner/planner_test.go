package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/careerpath/internal/llm"
	"github.com/abhisek/careerpath/internal/plans"
	"github.com/abhisek/careerpath/internal/progress"
	"github.com/abhisek/careerpath/internal/table"
)

func samplePhase(id int, title string) GeneratedPhase {
	items := make([]string, 10)
	for i := range items {
		items[i] = fmt.Sprintf("Objetivo %d.%d", id, i+1)
	}
	project := func(d string) GeneratedProject {
		return GeneratedProject{
			Difficulty:   d,
			Title:        fmt.Sprintf("Proyecto %s %d", d, id),
			Description:  "Construye algo útil",
			Requirements: []string{"req1", "req2", "req3", "req4", "req5"},
			GithubTips:   "Documenta el README",
			Technologies: []string{"Python", "SQL"},
		}
	}
	return GeneratedPhase{
		ID:            id,
		Title:         title,
		DurationWeeks: 6,
		Description:   "Descripción de la fase",
		LearningItems: items,
		Projects:      []GeneratedProject{project("easy"), project("medium"), project("hard")},
		Resources: []Resource{
			{Title: "Curso SQL", URL: "https://example.com/sql", Type: "course"},
		},
	}
}

func samplePlan() GeneratedPlan {
	return GeneratedPlan{
		PlanTitle:  "Data Engineer en 24 semanas",
		TotalWeeks: 24,
		Phases: []GeneratedPhase{
			samplePhase(1, "Fase 1: Fundamentos"),
			samplePhase(2, "Fase 2: Python"),
		},
	}
}

func mockWith(t *testing.T, plan any) *llm.MockProvider {
	t.Helper()
	raw, err := json.Marshal(plan)
	require.NoError(t, err)
	return llm.NewMockProvider(llm.MockResponse{Content: raw})
}

func TestPlanSchema_AcceptsSample(t *testing.T) {
	raw, err := json.Marshal(samplePlan())
	require.NoError(t, err)
	require.NoError(t, llm.Validate(PlanSchema, raw))
}

func TestPlanSchema_RejectsUnknownDifficulty(t *testing.T) {
	plan := samplePlan()
	plan.Phases[0].Projects[0].Difficulty = "expert"
	raw, err := json.Marshal(plan)
	require.NoError(t, err)
	assert.Error(t, llm.Validate(PlanSchema, raw))
}

func TestFromAnswers_BuildsPrompt(t *testing.T) {
	mock := mockWith(t, samplePlan())
	p := New(mock, DefaultConfig())

	plan, err := p.FromAnswers(context.Background(), Answers{
		Level:     "intermediate",
		Interests: []string{"Go", "PostgreSQL"},
		Goal:      "Backend developer",
	})
	require.NoError(t, err)
	assert.Equal(t, "Data Engineer en 24 semanas", plan.PlanTitle)
	require.Len(t, mock.Calls, 1)

	req := mock.Calls[0]
	assert.Equal(t, PlanSchema, req.Schema)
	assert.Equal(t, 4000, req.MaxTokens)
	assert.InDelta(t, 0.7, req.Temperature, 1e-9)

	msg := req.Messages[0].Content
	assert.Contains(t, msg, "Nivel actual: intermediate")
	assert.Contains(t, msg, "Tecnologías de interés: Go, PostgreSQL")
	assert.Contains(t, msg, "Tiempo disponible diario: 2 horas")
	assert.Contains(t, msg, "Plazo deseado: 24 semanas")
	assert.Contains(t, msg, "Estilo de aprendizaje preferido: mixto")
}

func TestFromMessage(t *testing.T) {
	mock := mockWith(t, samplePlan())
	p := New(mock, DefaultConfig())

	_, err := p.FromMessage(context.Background(), "  Quiero aprender SQL y Python para ciencia de datos ")
	require.NoError(t, err)
	require.Len(t, mock.Calls, 1)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, `"Quiero aprender SQL y Python para ciencia de datos"`)
	assert.True(t, strings.Contains(mock.Calls[0].System, "planes de carrera"))
}

func TestFromMessage_Empty(t *testing.T) {
	p := New(llm.NewMockProvider(), DefaultConfig())
	_, err := p.FromMessage(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestGenerate_Errors(t *testing.T) {
	t.Run("provider failure", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
		_, err := New(mock, DefaultConfig()).FromAnswers(context.Background(), DefaultAnswers())
		var unavailable *llm.ErrProviderUnavailable
		assert.ErrorAs(t, err, &unavailable)
	})

	t.Run("no phases", func(t *testing.T) {
		mock := mockWith(t, GeneratedPlan{PlanTitle: "Vacío", TotalWeeks: 4, Phases: []GeneratedPhase{}})
		_, err := New(mock, DefaultConfig()).FromAnswers(context.Background(), DefaultAnswers())
		assert.ErrorIs(t, err, ErrEmptyPlan)
	})

	t.Run("not json", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`no es json`)})
		_, err := New(mock, DefaultConfig()).FromAnswers(context.Background(), DefaultAnswers())
		assert.Error(t, err)
	})
}

func TestAnswers_WithDefaults(t *testing.T) {
	got := Answers{Goal: "Analista de datos"}.WithDefaults()
	want := DefaultAnswers()
	want.Goal = "Analista de datos"
	assert.Equal(t, want, got)
}

func TestCatalog_Conversion(t *testing.T) {
	plan := samplePlan()
	plan.Phases[1].ID = 7 // renumbered by position

	cat, err := plan.Catalog()
	require.NoError(t, err)

	assert.Equal(t, "Data Engineer en 24 semanas", cat.Title())
	assert.Equal(t, 2, cat.TotalPhases())
	assert.Equal(t, 6, cat.TotalProjects())

	ph, ok := cat.Phase(2)
	require.True(t, ok)
	assert.Equal(t, "6 semanas", ph.Duration)
	assert.Len(t, ph.Items, 10)
	assert.Equal(t, []string{"Curso SQL [course] - https://example.com/sql"}, ph.Courses)

	for _, tc := range []struct {
		id       string
		unlockAt int
	}{
		{"p1-easy", 4},
		{"p1-medium", 7},
		{"p2-hard", 10},
	} {
		proj, _, err := cat.Project(tc.id)
		require.NoError(t, err, tc.id)
		assert.Equal(t, tc.unlockAt, proj.UnlockAt, tc.id)
	}
}

func TestCatalog_NormalizesDifficulties(t *testing.T) {
	plan := samplePlan()
	plan.Phases[0].Projects[0].Difficulty = "EASY"
	plan.Phases[0].Projects[1].Difficulty = "intermedio"
	plan.Phases[0].Projects[2].Difficulty = "easy"

	cat, err := plan.Catalog()
	require.NoError(t, err)

	ph, _ := cat.Phase(1)
	ids := make([]string, len(ph.Projects))
	for i, p := range ph.Projects {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"p1-easy", "p1-medium", "p1-easy-2"}, ids)
}

func TestGeneratedCatalog_UnlocksLikeDefault(t *testing.T) {
	plan := samplePlan()
	cat, err := plan.Catalog()
	require.NoError(t, err)

	ph, _ := cat.Phase(1)
	st := progress.NewState()
	assert.False(t, progress.IsUnlocked(cat, 1, ph.Projects[0], st))

	st.TogglePhase(1)
	assert.True(t, progress.IsUnlocked(cat, 1, ph.Projects[0], st))
	assert.True(t, progress.IsUnlocked(cat, 1, ph.Projects[2], st))
}

func TestSave_StoresConvertedPlan(t *testing.T) {
	svc := plans.NewService(table.NewMemoryBackend(), nil)
	plan := samplePlan()

	stored, err := Save(context.Background(), svc, "local", &plan, "Backend developer", DefaultAnswers())
	require.NoError(t, err)
	assert.Equal(t, "Data Engineer en 24 semanas", stored.Title)
	assert.Equal(t, 2, stored.TotalPhases)
	assert.Equal(t, "24 semanas", stored.EstimatedDuration)
	assert.Equal(t, "Backend developer", stored.Objective)

	cat, err := stored.Catalog()
	require.NoError(t, err)
	assert.True(t, cat.HasProject("p2-medium"))
}
