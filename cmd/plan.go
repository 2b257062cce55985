package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerpath/internal/planner"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate and manage career plans",
}

var planGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a personalized plan with AI",
	Example: `  careerpath plan generate --level beginner --interests Python,SQL --goal "Data Analyst"
  careerpath plan generate --message "Quiero ser ingeniero de datos en 6 meses" --use`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		provider, err := e.provider(ctx)
		if err != nil {
			return err
		}
		if provider == nil {
			return errNoProvider
		}
		p := planner.New(provider, planner.DefaultConfig())

		var (
			g         *planner.GeneratedPlan
			objective string
			answers   any
		)
		if msg, _ := cmd.Flags().GetString("message"); strings.TrimSpace(msg) != "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Generando tu plan a partir del mensaje...")
			g, err = p.FromMessage(ctx, msg)
			objective = msg
			answers = map[string]string{"message": msg}
		} else {
			a := answersFromFlags(cmd).WithDefaults()
			fmt.Fprintln(cmd.OutOrStdout(), "Generando tu plan personalizado...")
			g, err = p.FromAnswers(ctx, a)
			objective = a.Goal
			answers = a
		}
		if err != nil {
			return fmt.Errorf("generate plan: %w", err)
		}

		primary, err := e.plans.PrimaryPlan(ctx, e.userID())
		if err != nil {
			return err
		}
		saved, err := planner.Save(ctx, e.plans, e.userID(), g, objective, answers)
		if err != nil {
			return fmt.Errorf("save plan: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d fases)\n", green("✓"), bold(saved.Title), saved.TotalPhases)
		fmt.Fprintf(cmd.OutOrStdout(), "  id: %s\n", saved.ID)

		// The first plan becomes primary without asking.
		if use, _ := cmd.Flags().GetBool("use"); use || primary == nil {
			if err := e.plans.SetPrimaryPlan(ctx, saved.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "  marcado como plan principal")
		}
		return nil
	},
}

func answersFromFlags(cmd *cobra.Command) planner.Answers {
	var a planner.Answers
	a.Level, _ = cmd.Flags().GetString("level")
	a.Interests, _ = cmd.Flags().GetStringSlice("interests")
	a.HoursPerDay, _ = cmd.Flags().GetInt("hours")
	a.Goal, _ = cmd.Flags().GetString("goal")
	a.TimelineWeeks, _ = cmd.Flags().GetInt("weeks")
	a.PreviousExperience, _ = cmd.Flags().GetString("experience")
	a.LearningStyle, _ = cmd.Flags().GetString("style")
	return a
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		list, err := e.plans.ListPlans(cmd.Context(), e.userID())
		if err != nil {
			return fmt.Errorf("list plans: %w", err)
		}
		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No plans saved. Run `careerpath plan generate` to create one.")
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%-1s  %-36s  %-40s  %-6s  %s\n", "", "ID", "Title", "Phases", "Created")
		fmt.Fprintln(cmd.OutOrStdout(), strings.Repeat("─", 104))
		for _, p := range list {
			mark := " "
			if p.IsPrimary {
				mark = green("★")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-1s  %-36s  %-40s  %-6d  %s\n",
				mark, p.ID, truncate(p.Title, 40), p.TotalPhases, formatTime(p.CreatedAt))
		}
		return nil
	},
}

var planUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Make a plan the primary plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.plans.SetPrimaryPlan(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("set primary plan: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s plan principal: %s\n", green("✓"), args[0])
		return nil
	},
}

var planDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a plan and its progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.plans.DeletePlan(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete plan: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "plan %s eliminado\n", args[0])
		return nil
	},
}

func init() {
	f := planGenerateCmd.Flags()
	f.String("message", "", "Describe your goal in free text instead of answering questions")
	f.String("level", "", "Current level (beginner, intermediate, advanced)")
	f.StringSlice("interests", nil, "Technologies of interest")
	f.Int("hours", 0, "Hours per day available")
	f.String("goal", "", "Career goal")
	f.Int("weeks", 0, "Timeline in weeks")
	f.String("experience", "", "Previous experience")
	f.String("style", "", "Learning style")
	f.Bool("use", false, "Make the generated plan the primary plan")

	planCmd.AddCommand(planGenerateCmd)
	planCmd.AddCommand(planListCmd)
	planCmd.AddCommand(planUseCmd)
	planCmd.AddCommand(planDeleteCmd)
}
