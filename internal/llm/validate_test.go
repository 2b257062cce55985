package llm

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestValidate_CareerPlan(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"sample plan", samplePlan, true},
		{"no phases yet", `{"plan_title":"SQL","total_weeks":4,"phases":[]}`, true},
		{"unknown difficulty", strings.Replace(samplePlan, `"easy"`, `"expert"`, 1), false},
		{"zero weeks", strings.Replace(samplePlan, `"total_weeks":12`, `"total_weeks":0`, 1), false},
		{"weeks as text", strings.Replace(samplePlan, `"total_weeks":12`, `"total_weeks":"doce"`, 1), false},
		{"missing phases", `{"plan_title":"SQL","total_weeks":4}`, false},
		{"extra field", strings.Replace(samplePlan, `"total_weeks":12`, `"total_weeks":12,"notes":"x"`, 1), false},
		{"phase without projects", `{"plan_title":"SQL","total_weeks":4,"phases":[{"id":1,"title":"SQL"}]}`, false},
		{"not json", `Aquí tienes tu plan:`, false},
		{"empty", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(planSchema, json.RawMessage(tt.raw))
			if tt.valid {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			var invalid *ErrInvalidResponse
			if !errors.As(err, &invalid) {
				t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
			}
			if string(invalid.Content) != tt.raw {
				t.Errorf("kept content = %q", invalid.Content)
			}
		})
	}
}

func TestValidate_NilSchemaAcceptsAnything(t *testing.T) {
	if err := Validate(nil, json.RawMessage(`no es json`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_CompilesOncePerSchema(t *testing.T) {
	first, err := validatorFor(planSchema)
	if err != nil {
		t.Fatal(err)
	}
	second, err := validatorFor(planSchema)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("schema compiled twice")
	}

	// Same name, different definition: must not reuse the plan validator.
	other := &Schema{Name: planSchema.Name, Definition: map[string]any{"type": "string"}}
	if err := Validate(other, json.RawMessage(`"hola"`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_BadSchema(t *testing.T) {
	broken := &Schema{Name: "broken", Definition: map[string]any{"type": 42}}
	err := Validate(broken, json.RawMessage(`{}`))
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Fatalf("expected a compile error naming the schema, got %v", err)
	}
}
