package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func newGemini(t *testing.T, baseURL string) *GeminiProvider {
	t.Helper()
	p, err := NewGeminiProvider(context.Background(), EndpointConfig{APIKey: "gm-test", BaseURL: baseURL})
	if err != nil {
		t.Fatalf("new gemini provider: %v", err)
	}
	return p
}

func TestGemini_PlanWithJSONSchema(t *testing.T) {
	srv, got := fakeBackend(t, http.StatusOK, nil, map[string]any{
		"candidates": []map[string]any{{
			"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": samplePlan}}},
			"finishReason": "STOP",
		}},
		"usageMetadata": map[string]any{"promptTokenCount": 200, "candidatesTokenCount": 600, "totalTokenCount": 800},
		"modelVersion":  "gemini-2.0-flash-001",
	})
	p := newGemini(t, srv.URL)
	if p.ModelID() != "gemini-2.0-flash" {
		t.Errorf("default alias resolved to %q", p.ModelID())
	}

	resp, err := p.Generate(context.Background(), planRequest())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(resp.Content) != samplePlan {
		t.Errorf("content = %s", resp.Content)
	}
	if resp.Model != "gemini-2.0-flash-001" || resp.Usage.TotalTokens != 800 {
		t.Errorf("model %q usage %+v", resp.Model, resp.Usage)
	}

	if !strings.HasSuffix(got.path, "/models/gemini-2.0-flash:generateContent") {
		t.Errorf("path = %q", got.path)
	}
	gen, _ := got.body["generationConfig"].(map[string]any)
	if gen["responseMimeType"] != "application/json" {
		t.Errorf("generationConfig = %v", gen)
	}
	schema, _ := gen["responseJsonSchema"].(map[string]any)
	if _, ok := schema["properties"].(map[string]any)["phases"]; !ok {
		t.Errorf("response schema = %v", schema)
	}
}

func TestGemini_StatusMapping(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusServiceUnavailable} {
		srv, _ := fakeBackend(t, status, nil, map[string]any{
			"error": map[string]any{"code": status, "message": "try later", "status": "UNAVAILABLE"},
		})
		_, err := newGemini(t, srv.URL).Generate(context.Background(), planRequest())

		var (
			rl          *ErrRateLimit
			unavailable *ErrProviderUnavailable
		)
		switch {
		case status == http.StatusTooManyRequests && !errors.As(err, &rl):
			t.Errorf("%d: expected ErrRateLimit, got %T (%v)", status, err, err)
		case status == http.StatusServiceUnavailable && !errors.As(err, &unavailable):
			t.Errorf("%d: expected ErrProviderUnavailable, got %T (%v)", status, err, err)
		}
	}
}
