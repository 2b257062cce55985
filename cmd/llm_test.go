package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/careerpath/internal/store"
)

func seedEvents(t *testing.T, base []string, events ...store.LLMRequestEventData) {
	t.Helper()
	s, err := store.Open(base[len(base)-1])
	require.NoError(t, err)
	defer s.Close()
	for _, e := range events {
		require.NoError(t, s.EventRepo().AppendLLMRequest(context.Background(), e))
	}
}

func TestLLMStats_Empty(t *testing.T) {
	out, err := execute(t, setupCLI(t), "llm", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "No LLM usage recorded yet.")
}

func TestLLMStats_PricesKnownModels(t *testing.T) {
	base := setupCLI(t)
	seedEvents(t, base,
		store.LLMRequestEventData{Provider: "groq", Model: "llama-3.3-70b-versatile", Purpose: "plan-gen",
			InputTokens: 1000, OutputTokens: 500, LatencyMs: 800, Success: true},
		store.LLMRequestEventData{Provider: "openrouter", Model: "someone/unlisted-model", Purpose: "chat",
			InputTokens: 10, OutputTokens: 5, LatencyMs: 200, Success: true},
	)

	out, err := execute(t, base, "llm", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "plan-gen")
	assert.Contains(t, out, "TOTAL (partial)")
	assert.Contains(t, out, "No pricing for: someone/unlisted-model")
}

func TestLLMList_RejectsUnknownPurpose(t *testing.T) {
	_, err := execute(t, setupCLI(t), "llm", "list", "--purpose", "summaries")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown purpose "summaries"`)
}

func TestLLMView(t *testing.T) {
	base := setupCLI(t)
	seedEvents(t, base, store.LLMRequestEventData{Provider: "groq", Model: "llama-3.3-70b-versatile",
		Purpose: "chat", Success: false, ErrorMessage: "rate limited", RequestBody: "hola"})

	out, err := execute(t, base, "llm", "view", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "failed: rate limited")
	assert.Contains(t, out, "hola")
	assert.Contains(t, out, "(not captured)")

	_, err = execute(t, base, "llm", "view", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event 99 not found")
}
