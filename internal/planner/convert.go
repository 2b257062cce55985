package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/careerpath/internal/catalog"
	"github.com/abhisek/careerpath/internal/plans"
)

var (
	phaseIcons  = []string{"📊", "🐍", "🔗", "🚀", "⭐"}
	phaseColors = []string{"blue", "green", "purple", "orange", "red"}
)

// Catalog converts the plan into a catalog. Phases are renumbered from 1 in
// order, project IDs are p<phase>-<difficulty> and unlock thresholds follow
// the project's difficulty.
func (g *GeneratedPlan) Catalog() (*catalog.Catalog, error) {
	phases := make([]catalog.Phase, 0, len(g.Phases))
	for i, gp := range g.Phases {
		id := i + 1
		ph := catalog.Phase{
			ID:       id,
			Title:    strings.TrimSpace(gp.Title),
			Icon:     phaseIcons[i%len(phaseIcons)],
			Color:    phaseColors[i%len(phaseColors)],
			Items:    gp.LearningItems,
			Practice: gp.Description,
		}
		if ph.Title == "" {
			ph.Title = fmt.Sprintf("Fase %d", id)
		}
		if gp.DurationWeeks > 0 {
			ph.Duration = fmt.Sprintf("%d semanas", gp.DurationWeeks)
		}
		for _, r := range gp.Resources {
			ph.Courses = append(ph.Courses, formatResource(r))
		}
		ph.Projects = convertProjects(id, gp.Projects)
		phases = append(phases, ph)
	}

	title := strings.TrimSpace(g.PlanTitle)
	if title == "" {
		title = "Mi plan de carrera"
	}
	return catalog.New(title, phases)
}

func convertProjects(phaseID int, in []GeneratedProject) []catalog.Project {
	seen := make(map[string]int, len(in))
	out := make([]catalog.Project, 0, len(in))
	for i, gp := range in {
		d := catalog.Difficulty(strings.ToLower(strings.TrimSpace(gp.Difficulty)))
		if !d.Valid() {
			d = positionalDifficulty(i)
		}

		id := fmt.Sprintf("p%d-%s", phaseID, d)
		seen[id]++
		if n := seen[id]; n > 1 {
			id = fmt.Sprintf("%s-%d", id, n)
		}

		tips := gp.GithubTips
		if len(gp.Technologies) > 0 {
			tech := "Tecnologías: " + strings.Join(gp.Technologies, ", ")
			if tips == "" {
				tips = tech
			} else {
				tips = tips + "\n" + tech
			}
		}

		out = append(out, catalog.Project{
			ID:           id,
			Difficulty:   d,
			Title:        gp.Title,
			Description:  gp.Description,
			Requirements: gp.Requirements,
			GithubTips:   tips,
			UnlockAt:     d.DefaultUnlockAt(),
		})
	}
	return out
}

func positionalDifficulty(i int) catalog.Difficulty {
	all := catalog.AllDifficulties()
	if i < len(all) {
		return all[i]
	}
	return catalog.DifficultyHard
}

func formatResource(r Resource) string {
	s := r.Title
	if r.Type != "" {
		s = fmt.Sprintf("%s [%s]", s, r.Type)
	}
	if r.URL != "" {
		s = fmt.Sprintf("%s - %s", s, r.URL)
	}
	return s
}

// Meta returns the descriptive plan data stored next to the catalog.
func (g *GeneratedPlan) Meta(objective string) plans.Meta {
	m := plans.Meta{Objective: objective}
	if len(g.Phases) > 0 {
		m.Description = g.Phases[0].Description
	}
	if g.TotalWeeks > 0 {
		m.EstimatedDuration = fmt.Sprintf("%d semanas", g.TotalWeeks)
	}
	return m
}

// Save converts the plan and stores it for userID. The answers are kept
// with the plan as given.
func Save(ctx context.Context, svc *plans.Service, userID string, g *GeneratedPlan, objective string, answers any) (plans.Plan, error) {
	cat, err := g.Catalog()
	if err != nil {
		return plans.Plan{}, fmt.Errorf("convert generated plan: %w", err)
	}
	return svc.SavePlan(ctx, userID, cat, g.Meta(objective), answers)
}
