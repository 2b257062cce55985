package roadmap

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerpath/internal/catalog"
	"github.com/abhisek/careerpath/internal/screen"
	"github.com/abhisek/careerpath/internal/tracker"
	"github.com/abhisek/careerpath/internal/ui/layout"
	"github.com/abhisek/careerpath/internal/ui/theme"
)

// ProjectScreen shows details for a single project and lets the user
// mark it complete.
type ProjectScreen struct {
	tracker *tracker.Tracker
	phaseID int
	project catalog.Project
	status  string
}

var _ screen.Screen = (*ProjectScreen)(nil)
var _ screen.KeyHintProvider = (*ProjectScreen)(nil)

// NewProjectScreen creates the detail screen for p, owned by phaseID.
func NewProjectScreen(t *tracker.Tracker, phaseID int, p catalog.Project) *ProjectScreen {
	return &ProjectScreen{tracker: t, phaseID: phaseID, project: p}
}

func (d *ProjectScreen) Init() tea.Cmd { return nil }
func (d *ProjectScreen) Title() string { return d.project.Title }

func (d *ProjectScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Espacio", Description: "Completar"},
		{Key: "Esc", Description: "Volver"},
	}
}

func (d *ProjectScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "space", "x", "enter":
			d.status = ""
			if _, err := d.tracker.ToggleProject(d.project.ID); err != nil {
				d.status = toggleError(err, d.project, d.tracker.Credit(d.phaseID))
			}
		}
	}
	return d, nil
}

func (d *ProjectScreen) View(width, height int) string {
	p := d.project
	contentWidth := width - 8
	if contentWidth > 76 {
		contentWidth = 76
	}

	unlocked := d.tracker.Unlocked(d.phaseID, p)
	done := d.tracker.State().CompletedProjects.Has(p.ID)

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(fmt.Sprintf("  %s  %s", p.Difficulty.Label(), p.Title)))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render("  " + ProjectStatusLabel(p, unlocked, done)))
	b.WriteString("\n\n")

	if p.Description != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(contentWidth).
			Foreground(theme.Text).
			PaddingLeft(2).
			Render(p.Description))
		b.WriteString("\n\n")
	}

	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	valStyle := lipgloss.NewStyle().Foreground(theme.Text)

	credit := d.tracker.Credit(d.phaseID)
	b.WriteString(dimStyle.Render("  Avance de la fase:  ") +
		valStyle.Render(fmt.Sprintf("%d/%d items", min(credit, p.UnlockAt), p.UnlockAt)) + "\n\n")

	if len(p.Requirements) > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("  Requisitos"))
		b.WriteString("\n")
		for _, req := range p.Requirements {
			b.WriteString(valStyle.Width(contentWidth).Render("    ✓ " + req))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if p.GithubTips != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("  💡 Tips para GitHub"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(contentWidth).
			Foreground(theme.Text).
			PaddingLeft(4).
			Render(p.GithubTips))
		b.WriteString("\n")
	}

	if d.status != "" {
		b.WriteString("\n  " + lipgloss.NewStyle().Foreground(theme.Accent).Render(d.status) + "\n")
	}

	return b.String()
}
