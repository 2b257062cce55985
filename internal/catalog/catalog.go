package catalog

import (
	"fmt"
	"slices"
)

// Difficulty is a project's difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// AllDifficulties returns all difficulties in ascending order.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	return slices.Contains(AllDifficulties(), d)
}

// Label returns the display label for a difficulty.
func (d Difficulty) Label() string {
	switch d {
	case DifficultyEasy:
		return "🟢 Fácil"
	case DifficultyMedium:
		return "🟡 Medio"
	case DifficultyHard:
		return "🔴 Difícil"
	default:
		return string(d)
	}
}

// DefaultUnlockAt returns the credit threshold used for generated projects
// of the given difficulty.
func (d Difficulty) DefaultUnlockAt() int {
	switch d {
	case DifficultyMedium:
		return 7
	case DifficultyHard:
		return 10
	default:
		return 4
	}
}

// Project is a gated, completable unit of work inside a phase.
type Project struct {
	ID           string     `yaml:"id" json:"id"`
	Difficulty   Difficulty `yaml:"difficulty" json:"difficulty"`
	Title        string     `yaml:"title" json:"title"`
	Description  string     `yaml:"description" json:"description"`
	Requirements []string   `yaml:"requirements" json:"requirements"`
	GithubTips   string     `yaml:"github_tips,omitempty" json:"githubTips,omitempty"`

	// UnlockAt is the credit (completed items plus completed projects,
	// counted inside the owning phase only) needed to select the project.
	UnlockAt int `yaml:"unlock_at" json:"unlockAt"`
}

// Phase is a top-level curriculum unit.
type Phase struct {
	ID       int       `yaml:"id" json:"id"`
	Title    string    `yaml:"title" json:"title"`
	Duration string    `yaml:"duration,omitempty" json:"duration,omitempty"`
	Icon     string    `yaml:"icon,omitempty" json:"icon,omitempty"`
	Color    string    `yaml:"color,omitempty" json:"color,omitempty"`
	Items    []string  `yaml:"items" json:"items"`
	Projects []Project `yaml:"projects" json:"projects"`
	Courses  []string  `yaml:"courses,omitempty" json:"courses,omitempty"`
	Practice string    `yaml:"practice,omitempty" json:"practice,omitempty"`
}

// Catalog is the ordered, read-only list of phases with lookup indices.
type Catalog struct {
	title     string
	phases    []Phase
	phaseIdx  map[int]int
	projectOf map[string]int // project ID -> owning phase ID
}

// New builds a Catalog from phases after validating them.
func New(title string, phases []Phase) (*Catalog, error) {
	if err := validatePhases(phases); err != nil {
		return nil, err
	}

	c := &Catalog{
		title:     title,
		phases:    slices.Clone(phases),
		phaseIdx:  make(map[int]int, len(phases)),
		projectOf: make(map[string]int),
	}
	for i, ph := range c.phases {
		c.phaseIdx[ph.ID] = i
		for _, p := range ph.Projects {
			c.projectOf[p.ID] = ph.ID
		}
	}
	return c, nil
}

// MustNew is like New but panics on invalid input. Intended for seed data.
func MustNew(title string, phases []Phase) *Catalog {
	c, err := New(title, phases)
	if err != nil {
		panic(err)
	}
	return c
}

// Title returns the catalog (plan) title.
func (c *Catalog) Title() string {
	return c.title
}

// Phases returns all phases in declaration order.
func (c *Catalog) Phases() []Phase {
	return slices.Clone(c.phases)
}

// Phase returns the phase with the given ID.
func (c *Catalog) Phase(id int) (Phase, bool) {
	i, ok := c.phaseIdx[id]
	if !ok {
		return Phase{}, false
	}
	return c.phases[i], true
}

// Project returns a project and its owning phase ID.
func (c *Catalog) Project(id string) (Project, int, error) {
	phaseID, ok := c.projectOf[id]
	if !ok {
		return Project{}, 0, fmt.Errorf("project not found: %q", id)
	}
	ph := c.phases[c.phaseIdx[phaseID]]
	for _, p := range ph.Projects {
		if p.ID == id {
			return p, phaseID, nil
		}
	}
	return Project{}, 0, fmt.Errorf("project not found: %q", id)
}

// HasPhase reports whether a phase with the given ID exists.
func (c *Catalog) HasPhase(id int) bool {
	_, ok := c.phaseIdx[id]
	return ok
}

// HasProject reports whether a project with the given ID exists.
func (c *Catalog) HasProject(id string) bool {
	_, ok := c.projectOf[id]
	return ok
}

// TotalPhases returns the number of phases.
func (c *Catalog) TotalPhases() int {
	return len(c.phases)
}

// TotalProjects returns the number of projects across all phases.
func (c *Catalog) TotalProjects() int {
	return len(c.projectOf)
}

// FirstPhaseID returns the ID of the first declared phase, or 0 when empty.
func (c *Catalog) FirstPhaseID() int {
	if len(c.phases) == 0 {
		return 0
	}
	return c.phases[0].ID
}
