package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/abhisek/careerpath/internal/store"
)

func openEventRepo(t *testing.T) store.EventRepo {
	t.Helper()
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.EventRepo()
}

func TestLoggingProvider_RecordsEvent(t *testing.T) {
	repo := openEventRepo(t)
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"plan_title":"SQL"}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 30},
	})
	p := WithLogging(mock, "groq", repo, zap.NewNop())

	ctx := WithPurpose(context.Background(), PurposePlan)
	_, err := p.Generate(ctx, Request{
		System:   "Eres un mentor de carrera.",
		Messages: []Message{{Role: RoleUser, Content: "Genera un plan."}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Purpose != "plan-gen" || ev.Provider != "groq" || ev.Model != "mock" || !ev.Success {
		t.Fatalf("unexpected event: %+v", ev.LLMRequestEventData)
	}
	if ev.InputTokens != 12 || ev.OutputTokens != 30 {
		t.Fatalf("tokens = %d/%d, want 12/30", ev.InputTokens, ev.OutputTokens)
	}
	if ev.ResponseBody != `{"plan_title":"SQL"}` {
		t.Fatalf("response body = %q", ev.ResponseBody)
	}
}

func TestLoggingProvider_RecordsFailure(t *testing.T) {
	repo := openEventRepo(t)
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{Err: errors.New("slow down")}})
	p := WithLogging(mock, "groq", repo, nil)

	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 || events[0].Success || events[0].ErrorMessage == "" {
		t.Fatalf("expected one failed event, got %+v", events)
	}
}
