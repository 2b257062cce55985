package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":   "msg_1",
		"type": "message",
		"role": "assistant",
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 300, "output_tokens": 700},
	}
}

func newAnthropic(t *testing.T, baseURL string) *AnthropicProvider {
	t.Helper()
	p, err := NewAnthropicProvider(EndpointConfig{APIKey: "sk-ant-test", BaseURL: baseURL})
	if err != nil {
		t.Fatalf("new anthropic provider: %v", err)
	}
	return p
}

func TestAnthropic_PlanWithOutputFormat(t *testing.T) {
	srv, got := fakeBackend(t, http.StatusOK, nil, anthropicMessage(samplePlan, "end_turn"))
	p := newAnthropic(t, srv.URL)
	if p.ModelID() != "claude-haiku-4-5-20251001" {
		t.Errorf("default alias resolved to %q", p.ModelID())
	}

	resp, err := p.Generate(context.Background(), planRequest())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(resp.Content) != samplePlan {
		t.Errorf("content = %s", resp.Content)
	}
	if resp.Usage.TotalTokens != 1000 {
		t.Errorf("total tokens = %d, want 1000", resp.Usage.TotalTokens)
	}

	if got.path != "/v1/messages" {
		t.Errorf("path = %q", got.path)
	}
	out, _ := got.body["output_config"].(map[string]any)
	format, _ := out["format"].(map[string]any)
	schema, _ := format["schema"].(map[string]any)
	if schema["type"] != "object" {
		t.Errorf("output_config = %v", out)
	}
	system, _ := got.body["system"].([]any)
	if len(system) != 1 {
		t.Errorf("system = %v", got.body["system"])
	}
}

func TestAnthropic_TruncatedPlan(t *testing.T) {
	srv, _ := fakeBackend(t, http.StatusOK, nil, anthropicMessage(samplePlan[:40], "max_tokens"))

	_, err := newAnthropic(t, srv.URL).Generate(context.Background(), planRequest())
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %T (%v)", err, err)
	}
}

func TestAnthropic_RateLimitCarriesRetryAfter(t *testing.T) {
	srv, _ := fakeBackend(t, http.StatusTooManyRequests, http.Header{"Retry-After": {"7"}}, map[string]any{
		"type":  "error",
		"error": map[string]any{"type": "rate_limit_error", "message": "slow down"},
	})

	_, err := newAnthropic(t, srv.URL).Generate(context.Background(), planRequest())
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T (%v)", err, err)
	}
	if rl.RetryAfter != 7*time.Second {
		t.Errorf("retry after = %s, want 7s", rl.RetryAfter)
	}
}

func TestAnthropic_Overloaded(t *testing.T) {
	srv, _ := fakeBackend(t, 529, nil, map[string]any{
		"type":  "error",
		"error": map[string]any{"type": "overloaded_error", "message": "overloaded"},
	})

	_, err := newAnthropic(t, srv.URL).Generate(context.Background(), planRequest())
	var unavailable *ErrProviderUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
	}
}
