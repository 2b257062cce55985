package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerpath/internal/planner"
	"github.com/abhisek/careerpath/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the plans, progress and chat HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			e.cfg.Server.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		deps := server.Deps{Plans: e.plans, Logger: e.logger}
		provider, err := e.provider(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Plan generation will be unavailable.")
		}
		if provider != nil {
			deps.Planner = planner.New(provider, planner.DefaultConfig())
		}
		deps.Chat = e.chatServiceFor(provider)

		fmt.Fprintf(cmd.OutOrStdout(), "careerpath API on %s\n", e.cfg.Server.Addr)
		if err := server.New(e.cfg.Server, deps).Run(ctx); err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		e.logger.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
