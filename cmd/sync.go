package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerpath/internal/persist"
	"github.com/abhisek/careerpath/internal/plans"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Copy progress between the local store and the remote backend",
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload local progress to the remote backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSync(cmd, func(ctx context.Context, local *persist.Gateway, remote *plans.Service, userID, planID string) error {
			st := local.Load(ctx)
			p := plans.ProgressFromState(st)
			// Local snapshots carry no expansion; keep the remote one.
			p.ExpandedPhases = nil
			if err := remote.SaveProgress(ctx, userID, planID, p); err != nil {
				return fmt.Errorf("push progress: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d fases y %d proyectos enviados (plan %s)\n",
				green("✓"), st.CompletedPhases.Len(), st.CompletedProjects.Len(), planID)
			return nil
		})
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace local progress with the remote copy",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSync(cmd, func(ctx context.Context, local *persist.Gateway, remote *plans.Service, userID, planID string) error {
			p, found, err := remote.LoadProgress(ctx, userID, planID)
			if err != nil {
				return fmt.Errorf("pull progress: %w", err)
			}
			if !found {
				fmt.Fprintf(cmd.OutOrStdout(), "No remote progress for plan %s.\n", planID)
				return nil
			}
			st := p.State()
			local.Save(ctx, st)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d fases y %d proyectos recibidos (actualizado %s)\n",
				green("✓"), st.CompletedPhases.Len(), st.CompletedProjects.Len(), formatTime(p.LastUpdated))
			return nil
		})
	},
}

func init() {
	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncPullCmd)
}

type syncFunc func(ctx context.Context, local *persist.Gateway, remote *plans.Service, userID, planID string) error

// withSync pairs the local snapshot gateway with the remote plans service
// for the plan being tracked.
func withSync(cmd *cobra.Command, fn syncFunc) error {
	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	client, err := e.remoteClient()
	if err != nil {
		return err
	}
	remote := plans.NewService(client, e.logger)
	if _, err := e.catalog(ctx); err != nil {
		return err
	}
	planID := e.planID
	if planID == "" {
		planID = defaultPlanID
	}

	local := persist.NewGateway(e.store.KV(), persist.Options{
		Key:    persist.KeyFor(e.planID),
		Logger: e.logger,
	})
	return fn(ctx, local, remote, e.userID(), planID)
}
