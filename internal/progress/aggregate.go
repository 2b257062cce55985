package progress

import (
	"fmt"
	"math"

	"github.com/abhisek/careerpath/internal/catalog"
)

// Summary is the overall completion of a catalog.
type Summary struct {
	Percent           int
	PhasesCompleted   int
	PhasesTotal       int
	ProjectsCompleted int
	ProjectsTotal     int
}

// PhasesLabel renders "completed/total" for phases.
func (s Summary) PhasesLabel() string {
	return fmt.Sprintf("%d/%d", s.PhasesCompleted, s.PhasesTotal)
}

// ProjectsLabel renders "completed/total" for projects.
func (s Summary) ProjectsLabel() string {
	return fmt.Sprintf("%d/%d", s.ProjectsCompleted, s.ProjectsTotal)
}

// Summarize counts completed phases and projects that exist in cat and
// computes the overall percentage.
func Summarize(cat *catalog.Catalog, st State) Summary {
	s := Summary{
		PhasesCompleted:   st.CompletedPhases.CountIf(cat.HasPhase),
		PhasesTotal:       cat.TotalPhases(),
		ProjectsCompleted: st.CompletedProjects.CountIf(cat.HasProject),
		ProjectsTotal:     cat.TotalProjects(),
	}
	s.Percent = percent(s)
	return s
}

// Calculate returns the overall completion percentage in [0, 100]: the
// rounded mean of phase completion and project completion. A catalog with
// no phases or no projects reports 0.
func Calculate(cat *catalog.Catalog, st State) int {
	return Summarize(cat, st).Percent
}

func percent(s Summary) int {
	if s.PhasesTotal == 0 || s.ProjectsTotal == 0 {
		return 0
	}
	phasePct := float64(s.PhasesCompleted) / float64(s.PhasesTotal) * 100
	projectPct := float64(s.ProjectsCompleted) / float64(s.ProjectsTotal) * 100
	return int(math.Round((phasePct + projectPct) / 2))
}
