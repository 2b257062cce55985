package planner

import "github.com/abhisek/careerpath/internal/llm"

func stringArray(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": description,
	}
}

var projectSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"difficulty": map[string]any{
			"type": "string",
			"enum": []any{"easy", "medium", "hard"},
		},
		"title":        map[string]any{"type": "string"},
		"description":  map[string]any{"type": "string", "description": "Qué construirá el usuario"},
		"requirements": stringArray("Requisitos técnicos concretos"),
		"github_tips":  map[string]any{"type": "string", "description": "Consejos para documentar en GitHub"},
		"technologies": stringArray("Tecnologías a usar"),
	},
	"required":             []any{"difficulty", "title", "description", "requirements", "github_tips", "technologies"},
	"additionalProperties": false,
}

var resourceSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title": map[string]any{"type": "string"},
		"url":   map[string]any{"type": "string"},
		"type": map[string]any{
			"type": "string",
			"enum": []any{"course", "documentation", "video", "book"},
		},
	},
	"required":             []any{"title", "url", "type"},
	"additionalProperties": false,
}

var phaseSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":             map[string]any{"type": "integer"},
		"title":          map[string]any{"type": "string"},
		"duration_weeks": map[string]any{"type": "integer", "minimum": 1},
		"description":    map[string]any{"type": "string"},
		"learning_items": stringArray("Mínimo 10 objetivos de aprendizaje, de básico a avanzado"),
		"projects": map[string]any{
			"type":        "array",
			"items":       projectSchema,
			"description": "Exactamente 3 proyectos: easy, medium y hard",
		},
		"resources": map[string]any{
			"type":  "array",
			"items": resourceSchema,
		},
	},
	"required":             []any{"id", "title", "duration_weeks", "description", "learning_items", "projects", "resources"},
	"additionalProperties": false,
}

// PlanSchema defines the JSON schema for career plan generation.
var PlanSchema = &llm.Schema{
	Name:        "career-plan",
	Description: "Plan de carrera personalizado con fases, objetivos de aprendizaje y proyectos",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"plan_title":  map[string]any{"type": "string"},
			"total_weeks": map[string]any{"type": "integer", "minimum": 1},
			"phases": map[string]any{
				"type":        "array",
				"items":       phaseSchema,
				"description": "4-5 fases progresivas",
			},
		},
		"required":             []any{"plan_title", "total_weeks", "phases"},
		"additionalProperties": false,
	},
}
