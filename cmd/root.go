package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "careerpath",
	Short: "Career roadmap tracker",
	Long: "careerpath: follow a career roadmap phase by phase, unlock projects as you\n" +
		"progress, generate new plans with AI and ask a mentor for guidance.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/careerpath/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides storage.db_path)")
	rootCmd.PersistentFlags().String("plan", "", "Plan ID to track (overrides remote.plan_id)")
	rootCmd.Flags().Bool("no-welcome", false, "Skip the welcome screen")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
