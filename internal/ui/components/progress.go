package components

import (
	"charm.land/bubbles/v2/progress"
	"charm.land/lipgloss/v2"

	prog "github.com/abhisek/careerpath/internal/progress"
	"github.com/abhisek/careerpath/internal/ui/theme"
)

const minBarWidth = 10

// ProgressBar renders a static bar for pct in [0, 100] with the percentage
// on the right. label, when set, goes before the bar and counts toward width.
func ProgressBar(label string, pct, width int) string {
	if label != "" {
		label = lipgloss.NewStyle().Foreground(theme.Text).Render(label) + "  "
	}
	bar := progress.New(
		progress.WithColors(theme.Secondary, theme.Primary),
		progress.WithWidth(max(width-lipgloss.Width(label), minBarWidth)),
	)
	bar.EmptyColor = theme.Border
	bar.PercentageStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
	return label + bar.ViewAs(float64(min(max(pct, 0), 100))/100)
}

// SummaryView is the overall progress card: the bar over the phase and
// project counters.
func SummaryView(s prog.Summary, width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	val := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	counters := dim.Render("Fases completadas ") + val.Render(s.PhasesLabel()) +
		dim.Render("   Proyectos completados ") + val.Render(s.ProjectsLabel())
	return ProgressBar("Progreso", s.Percent, width) + "\n" + counters
}
