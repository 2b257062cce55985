package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// planSchema is a reduced career plan: phases with exactly-typed projects.
var planSchema = &Schema{
	Name:        "career-plan",
	Description: "Plan de carrera",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"plan_title":  map[string]any{"type": "string"},
			"total_weeks": map[string]any{"type": "integer", "minimum": 1},
			"phases": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":    map[string]any{"type": "integer"},
						"title": map[string]any{"type": "string"},
						"projects": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"difficulty": map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
									"title":      map[string]any{"type": "string"},
								},
								"required":             []any{"difficulty", "title"},
								"additionalProperties": false,
							},
						},
					},
					"required":             []any{"id", "title", "projects"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"plan_title", "total_weeks", "phases"},
		"additionalProperties": false,
	},
}

const samplePlan = `{"plan_title":"Analista de datos","total_weeks":12,"phases":[` +
	`{"id":1,"title":"SQL","projects":[{"difficulty":"easy","title":"Consultas básicas"}]},` +
	`{"id":2,"title":"Python","projects":[{"difficulty":"hard","title":"Pipeline ETL"}]}]}`

// captured is what a fake backend saw.
type captured struct {
	path   string
	header http.Header
	body   map[string]any
}

// fakeBackend serves status and body for every request and records the
// last one.
func fakeBackend(t *testing.T, status int, header http.Header, body any) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.header = r.Header.Clone()
		got.body = map[string]any{}
		_ = json.NewDecoder(r.Body).Decode(&got.body)

		for k, vs := range header {
			for _, v := range vs {
				w.Header().Add(k, v)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func planRequest() Request {
	return Request{
		System:    "Eres un experto en planes de carrera.",
		Messages:  []Message{{Role: RoleUser, Content: "Quiero ser analista de datos."}},
		Schema:    planSchema,
		MaxTokens: 4000,
	}
}
