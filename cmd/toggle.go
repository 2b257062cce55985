package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerpath/internal/tracker"
)

// printNotifier writes gateway notifications to w once enabled, so the
// load message does not clutter command output.
type printNotifier struct {
	w  io.Writer
	on bool
}

func (n *printNotifier) Notify(message string, _ time.Duration) {
	if n.on {
		fmt.Fprintln(n.w, message)
	}
}

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Mark a phase or project as completed (or pending again)",
}

var togglePhaseCmd = &cobra.Command{
	Use:   "phase <id>",
	Short: "Toggle completion of a phase",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid phase ID %q: %w", args[0], err)
		}
		return withTracker(cmd, func(tr *tracker.Tracker) error {
			done, err := tr.TogglePhase(id)
			if err != nil {
				return err
			}
			ph, _ := tr.Catalog().Phase(id)
			if done {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Fase %d completada: %s\n", green("✓"), id, ph.Title)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Fase %d marcada como pendiente: %s\n", id, ph.Title)
			}
			return nil
		})
	},
}

var toggleProjectCmd = &cobra.Command{
	Use:   "project <id>",
	Short: "Toggle completion of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(tr *tracker.Tracker) error {
			done, err := tr.ToggleProject(args[0])
			if errors.Is(err, tracker.ErrLocked) {
				p, phaseID, _ := tr.Catalog().Project(args[0])
				return fmt.Errorf("🔒 %s: completa %d items más de esta fase para desbloquearlo",
					p.Title, p.UnlockAt-tr.Credit(phaseID))
			}
			if err != nil {
				return err
			}
			p, _, _ := tr.Catalog().Project(args[0])
			if done {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Proyecto completado: %s\n", green("✓"), p.Title)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Proyecto marcado como pendiente: %s\n", p.Title)
			}
			return nil
		})
	},
}

func init() {
	toggleCmd.AddCommand(togglePhaseCmd)
	toggleCmd.AddCommand(toggleProjectCmd)
}

// withTracker loads progress, runs fn and writes the resulting autosave
// before returning.
func withTracker(cmd *cobra.Command, fn func(tr *tracker.Tracker) error) error {
	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	tr, _, err := e.openTracker(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tr); err != nil {
		return err
	}
	tr.Flush(ctx)
	return nil
}
