package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		want  *ModelCost
	}{
		{"llama-3.3-70b-versatile", &ModelCost{0.59, 0.79}},
		{"gpt-4o-mini-2024-07-18", &ModelCost{0.15, 0.6}},
		{"gpt-4o-2024-11-20", &ModelCost{2.5, 10}},
		{"gemini-2.0-flash-001", &ModelCost{0.1, 0.4}},
		{"mock", nil},
		{"llama-3.3-70b", nil},
	}
	for _, tt := range tests {
		got := LookupCost(tt.model)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("%s: got %+v, want unknown", tt.model, *got)
		case tt.want != nil && (got == nil || *got != *tt.want):
			t.Errorf("%s: got %v, want %+v", tt.model, got, *tt.want)
		}
	}
}

func TestConfiguredModelsArePriced(t *testing.T) {
	for _, h := range hosts {
		model := h.model(EndpointConfig{})
		if LookupCost(model) == nil {
			t.Errorf("%s default model %q has no price", h.name, model)
		}
		for _, id := range h.aliases {
			if LookupCost(id) == nil {
				t.Errorf("%s alias target %q has no price", h.name, id)
			}
		}
	}
}

func TestModelCost_Cost(t *testing.T) {
	// One plan generation on Groq: 1.5k prompt tokens, 6k completion tokens.
	got := ModelCost{0.59, 0.79}.Cost(1_500, 6_000)
	want := 0.000885 + 0.00474
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("cost = %v, want %v", got, want)
	}
}
