package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/careerpath/internal/app"
)

// runApp opens the environment, loads progress, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	notifier := app.NewNotifier()
	tr, g, err := e.openTracker(ctx, notifier)
	if err != nil {
		return err
	}

	provider, err := e.provider(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "The mentor will answer with setup instructions.")
		e.logger.Warn("LLM provider unavailable", zap.Error(err))
	}

	skip, _ := cmd.Flags().GetBool("no-welcome")
	return app.Run(ctx, app.Options{
		Tracker:     tr,
		Saver:       g,
		Notifier:    notifier,
		Chat:        e.chatServiceFor(provider),
		UserID:      e.userID(),
		SkipWelcome: skip,
		Logger:      e.logger,
	})
}
