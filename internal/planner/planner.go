// Package planner generates career plans with an LLM and turns them into
// catalogs the progress tracker can run.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/careerpath/internal/llm"
)

// ErrEmptyPlan is returned when the model produced a plan without phases.
var ErrEmptyPlan = errors.New("generated plan has no phases")

// ErrEmptyMessage is returned when a plan is requested from a blank message.
var ErrEmptyMessage = errors.New("message is empty")

// Answers are the questionnaire answers a plan is generated from.
type Answers struct {
	Level              string   `json:"level"`
	Interests          []string `json:"interests"`
	HoursPerDay        int      `json:"hours_per_day"`
	Goal               string   `json:"goal"`
	TimelineWeeks      int      `json:"timeline_weeks"`
	PreviousExperience string   `json:"previous_experience,omitempty"`
	LearningStyle      string   `json:"learning_style,omitempty"`
}

// DefaultAnswers returns the answers assumed for unanswered questions.
func DefaultAnswers() Answers {
	return Answers{
		Level:              "beginner",
		Interests:          []string{"Python", "SQL"},
		HoursPerDay:        2,
		Goal:               "Aprender programación",
		TimelineWeeks:      24,
		PreviousExperience: "Ninguna",
		LearningStyle:      "mixto",
	}
}

// WithDefaults fills zero fields from DefaultAnswers.
func (a Answers) WithDefaults() Answers {
	d := DefaultAnswers()
	if strings.TrimSpace(a.Level) == "" {
		a.Level = d.Level
	}
	if len(a.Interests) == 0 {
		a.Interests = d.Interests
	}
	if a.HoursPerDay <= 0 {
		a.HoursPerDay = d.HoursPerDay
	}
	if strings.TrimSpace(a.Goal) == "" {
		a.Goal = d.Goal
	}
	if a.TimelineWeeks <= 0 {
		a.TimelineWeeks = d.TimelineWeeks
	}
	if strings.TrimSpace(a.PreviousExperience) == "" {
		a.PreviousExperience = d.PreviousExperience
	}
	if strings.TrimSpace(a.LearningStyle) == "" {
		a.LearningStyle = d.LearningStyle
	}
	return a
}

// GeneratedPlan is the plan as produced by the model.
type GeneratedPlan struct {
	PlanTitle  string           `json:"plan_title"`
	TotalWeeks int              `json:"total_weeks"`
	Phases     []GeneratedPhase `json:"phases"`
}

// GeneratedPhase is one phase of a generated plan.
type GeneratedPhase struct {
	ID            int                `json:"id"`
	Title         string             `json:"title"`
	DurationWeeks int                `json:"duration_weeks"`
	Description   string             `json:"description"`
	LearningItems []string           `json:"learning_items"`
	Projects      []GeneratedProject `json:"projects"`
	Resources     []Resource         `json:"resources"`
}

// GeneratedProject is one project of a generated phase.
type GeneratedProject struct {
	Difficulty   string   `json:"difficulty"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	GithubTips   string   `json:"github_tips"`
	Technologies []string `json:"technologies"`
}

// Resource is a learning resource suggested for a phase.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// Planner asks an LLM provider for career plans.
type Planner struct {
	provider llm.Provider
	cfg      Config
}

// New creates a Planner.
func New(provider llm.Provider, cfg Config) *Planner {
	return &Planner{provider: provider, cfg: cfg}
}

// FromAnswers generates a plan from questionnaire answers. Missing answers
// take their defaults.
func (p *Planner) FromAnswers(ctx context.Context, answers Answers) (*GeneratedPlan, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposePlan)
	return p.generate(ctx, answersSystemPrompt, buildAnswersMessage(answers.WithDefaults()))
}

// FromMessage generates a plan from a free-form description of what the
// user wants to study.
func (p *Planner) FromMessage(ctx context.Context, message string) (*GeneratedPlan, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	ctx = llm.WithPurpose(ctx, llm.PurposePlanChat)
	return p.generate(ctx, messageSystemPrompt, buildMessagePrompt(message))
}

func (p *Planner) generate(ctx context.Context, system, user string) (*GeneratedPlan, error) {
	req := llm.Request{
		System: system,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: user},
		},
		Schema:      PlanSchema,
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.Temperature,
	}

	resp, err := p.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("plan generation: %w", err)
	}

	var plan GeneratedPlan
	if err := json.Unmarshal(resp.Content, &plan); err != nil {
		return nil, fmt.Errorf("parse plan response: %w", err)
	}
	if len(plan.Phases) == 0 {
		return nil, ErrEmptyPlan
	}
	if strings.TrimSpace(plan.PlanTitle) == "" {
		plan.PlanTitle = "Mi plan de carrera"
	}

	return &plan, nil
}
