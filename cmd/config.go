package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerpath/internal/config"
	"github.com/abhisek/careerpath/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = config.DefaultPath()
		}
		if err := config.WriteDefault(path); err != nil {
			if errors.Is(err, config.ErrExists) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", path)
				return nil
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s written\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with secrets masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		file := cfg.File
		if file == "" {
			file = "(none, defaults and environment)"
		}
		rows := [][2]string{
			{"file", file},
			{"storage.backend", cfg.Storage.Backend},
			{"storage.db_path", cfg.Storage.DBPath},
			{"storage.redis_url", cfg.Storage.RedisURL},
			{"log.level", cfg.Log.Level},
			{"log.format", cfg.Log.Format},
			{"log.file", cfg.Log.File},
			{"llm.provider", cfg.LLM.Provider},
			{"llm.timeout", cfg.LLM.Timeout.String()},
			{"llm.anthropic.api_key", logging.Mask(cfg.LLM.Anthropic.APIKey)},
			{"llm.openai.api_key", logging.Mask(cfg.LLM.OpenAI.APIKey)},
			{"llm.gemini.api_key", logging.Mask(cfg.LLM.Gemini.APIKey)},
			{"llm.openrouter.api_key", logging.Mask(cfg.LLM.OpenRouter.APIKey)},
			{"llm.groq.api_key", logging.Mask(cfg.LLM.Groq.APIKey)},
			{"remote.url", cfg.Remote.URL},
			{"remote.anon_key", logging.Mask(cfg.Remote.AnonKey)},
			{"remote.user_id", cfg.Remote.UserID},
			{"remote.plan_id", cfg.Remote.PlanID},
			{"server.addr", cfg.Server.Addr},
			{"catalog.path", cfg.Catalog.Path},
			{"autosave.delay", cfg.Autosave.Delay.String()},
		}
		for _, r := range rows {
			fmt.Fprintf(out, "%-24s %s\n", r[0], r[1])
		}
		if p, ok := cfg.LLMProviderConfig(); ok {
			fmt.Fprintf(out, "\nactive LLM provider: %s\n", p.Provider)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
