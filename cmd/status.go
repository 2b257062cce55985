package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abhisek/careerpath/internal/catalog"
	"github.com/abhisek/careerpath/internal/progress"
	"github.com/abhisek/careerpath/internal/tracker"
	"github.com/abhisek/careerpath/internal/ui/theme"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print roadmap progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		tr, _, err := e.openTracker(cmd.Context(), nil)
		if err != nil {
			return err
		}
		verbose, _ := cmd.Flags().GetBool("projects")
		printStatus(cmd.OutOrStdout(), tr, verbose)
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolP("projects", "p", false, "List every project with its lock state")
}

var (
	bold   = color.New(color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

func printStatus(w io.Writer, tr *tracker.Tracker, projects bool) {
	cat := tr.Catalog()
	st := tr.State()
	sum := tr.Summary()

	fmt.Fprintln(w, bold(cat.Title()))
	fmt.Fprintf(w, "%s %d%% completado\n", percentBar(sum.Percent, 30), sum.Percent)
	fmt.Fprintf(w, "Fases completadas %s   Proyectos completados %s\n\n",
		sum.PhasesLabel(), sum.ProjectsLabel())

	for _, ph := range cat.Phases() {
		mark := "[ ]"
		title := ph.Title
		if st.CompletedPhases.Has(ph.ID) {
			mark = green("[✓]")
			title = green(title)
		}
		fmt.Fprintf(w, "%s %s %d. %s %s\n", mark, theme.PhaseIcon(ph.Icon), ph.ID, title, faint(ph.Duration))
		if !projects {
			continue
		}
		for _, p := range ph.Projects {
			fmt.Fprintf(w, "      %s  %s %s\n", projectMark(tr, ph.ID, p, st), p.Title, faint("("+p.ID+")"))
		}
	}
}

func projectMark(tr *tracker.Tracker, phaseID int, p catalog.Project, st progress.State) string {
	switch {
	case st.CompletedProjects.Has(p.ID):
		return green("✅")
	case tr.Unlocked(phaseID, p):
		return yellow("🔓")
	default:
		return faint(fmt.Sprintf("🔒 %d/%d", min(tr.Credit(phaseID), p.UnlockAt), p.UnlockAt))
	}
}

func percentBar(percent, width int) string {
	filled := percent * width / 100
	return "[" + green(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled) + "]"
}

// formatTime renders t in local time, or "-" for the zero value.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
