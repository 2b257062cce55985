package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/careerpath/internal/catalog"
	"github.com/abhisek/careerpath/internal/llm"
	"github.com/abhisek/careerpath/internal/progress"
	"github.com/abhisek/careerpath/internal/table"
)

func newTestService(provider llm.Provider) (*Service, *table.MemoryBackend) {
	db := table.NewMemoryBackend()
	svc := NewService(provider, db, DefaultConfig(), nil)
	tick := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return svc, db
}

func TestSend_StoresBothTurns(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse("¡Vas muy bien! 🚀"))
	svc, _ := newTestService(mock)

	reply, err := svc.Send(context.Background(), "local", "¿Qué estudio hoy?", UserContext{PlanTitle: "SQL + Python"})
	require.NoError(t, err)
	assert.Equal(t, llm.RoleAssistant, reply.Role)
	assert.Equal(t, "¡Vas muy bien! 🚀", reply.Content)

	history, err := svc.History(context.Background(), "local", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, llm.RoleUser, history[0].Role)
	assert.Equal(t, "¿Qué estudio hoy?", history[0].Content)
	assert.Equal(t, llm.RoleAssistant, history[1].Role)
}

func TestSend_SystemPromptCarriesContext(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse("ok"))
	svc, _ := newTestService(mock)

	_, err := svc.Send(context.Background(), "local", "hola", UserContext{
		PlanTitle:         "Plan de Carrera: SQL + Python",
		CurrentPhase:      "Python para Datos",
		ProgressPercent:   42,
		CompletedProjects: 3,
	})
	require.NoError(t, err)
	require.Len(t, mock.Calls, 1)

	sys := mock.Calls[0].System
	assert.Contains(t, sys, "Plan de carrera: Plan de Carrera: SQL + Python")
	assert.Contains(t, sys, "Fase actual: Python para Datos")
	assert.Contains(t, sys, "Progreso general: 42%")
	assert.Contains(t, sys, "Proyectos completados: 3")
	assert.Contains(t, sys, "Últimos desafíos: No reportados aún")
	assert.Nil(t, mock.Calls[0].Schema)
	assert.Equal(t, 600, mock.Calls[0].MaxTokens)
}

func TestSend_SendsLastEightMessages(t *testing.T) {
	responses := make([]llm.MockResponse, 6)
	for i := range responses {
		responses[i] = llm.TextResponse(fmt.Sprintf("respuesta %d", i))
	}
	mock := llm.NewMockProvider(responses...)
	svc, _ := newTestService(mock)

	ctx := context.Background()
	for i := 0; i < 6; i++ {
		_, err := svc.Send(ctx, "local", fmt.Sprintf("pregunta %d", i), UserContext{})
		require.NoError(t, err)
	}

	last := mock.Calls[5].Messages
	require.Len(t, last, HistoryLimit+1)
	assert.Equal(t, "pregunta 1", last[0].Content)
	assert.Equal(t, llm.RoleUser, last[0].Role)
	assert.Equal(t, "respuesta 4", last[7].Content)
	assert.Equal(t, "pregunta 5", last[8].Content)
}

func TestSend_HistoryIsPerUser(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse("a"), llm.TextResponse("b"))
	svc, _ := newTestService(mock)

	ctx := context.Background()
	_, err := svc.Send(ctx, "ana", "hola", UserContext{})
	require.NoError(t, err)
	_, err = svc.Send(ctx, "luis", "hola", UserContext{})
	require.NoError(t, err)

	assert.Len(t, mock.Calls[1].Messages, 1)
}

func TestSend_WithoutProvider(t *testing.T) {
	svc, _ := newTestService(nil)

	reply, err := svc.Send(context.Background(), "local", "hola", UserContext{})
	require.NoError(t, err)
	assert.Equal(t, MsgNotConfigured, reply.Content)
}

func TestSend_EmptyAnswer(t *testing.T) {
	svc, _ := newTestService(llm.NewMockProvider(llm.TextResponse("   ")))

	reply, err := svc.Send(context.Background(), "local", "hola", UserContext{})
	require.NoError(t, err)
	assert.Equal(t, MsgEmptyAnswer, reply.Content)
}

func TestSend_ProviderError(t *testing.T) {
	svc, _ := newTestService(llm.NewMockProvider(llm.MockResponse{Err: errors.New("quota exceeded")}))

	reply, err := svc.Send(context.Background(), "local", "hola", UserContext{})
	require.NoError(t, err)
	assert.Contains(t, reply.Content, "quota exceeded")
}

func TestSend_EmptyMessage(t *testing.T) {
	svc, _ := newTestService(llm.NewMockProvider())
	_, err := svc.Send(context.Background(), "local", "  ", UserContext{})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestClear(t *testing.T) {
	svc, _ := newTestService(llm.NewMockProvider(llm.TextResponse("ok")))
	ctx := context.Background()
	_, err := svc.Send(ctx, "local", "hola", UserContext{})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "local"))
	history, err := svc.History(ctx, "local", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestContextFor(t *testing.T) {
	cat := catalog.Default()
	st := progress.NewState()
	st.TogglePhase(1)
	st.ToggleProject("sql-easy")

	uc := ContextFor(cat, st)
	assert.Equal(t, cat.Title(), uc.PlanTitle)
	assert.Equal(t, 1, uc.CompletedProjects)
	assert.Equal(t, progress.Calculate(cat, st), uc.ProgressPercent)

	second, _ := cat.Phase(2)
	assert.Equal(t, second.Title, uc.CurrentPhase)

	for _, ph := range cat.Phases() {
		st.CompletedPhases.Add(ph.ID)
	}
	assert.Equal(t, "Plan completado", ContextFor(cat, st).CurrentPhase)
}
