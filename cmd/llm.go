package cmd

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/careerpath/internal/llm"
	"github.com/abhisek/careerpath/internal/store"
)

var purposes = []llm.Purpose{llm.PurposePlan, llm.PurposePlanChat, llm.PurposeChat}

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect logged plan generation and mentor requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		failed, _ := cmd.Flags().GetBool("failed")
		if purpose != "" && !slices.Contains(purposes, llm.Purpose(purpose)) {
			return fmt.Errorf("unknown purpose %q (want one of %s)", purpose, purposeList())
		}

		return withEvents(cmd, func(repo store.EventRepo) error {
			events, err := repo.QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			if failed {
				events = slices.DeleteFunc(events, func(e store.LLMEvent) bool { return e.Success })
			}

			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No LLM requests logged.")
				return nil
			}
			t := usageTable("ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "")
			for _, e := range events {
				mark := green("✓")
				if !e.Success {
					mark = red("✗")
				}
				t.Row(strconv.Itoa(e.ID), e.Timestamp.Local().Format("01-02 15:04:05"), e.Purpose,
					truncate(e.Model, 28), strconv.Itoa(e.InputTokens), strconv.Itoa(e.OutputTokens),
					strconv.FormatInt(e.LatencyMs, 10), mark)
			}
			fmt.Fprintln(out, t.String())
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and answer of one logged request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		return withEvents(cmd, func(repo store.EventRepo) error {
			e, err := repo.GetLLMEvent(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}
			printEvent(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEvents(cmd, func(repo store.EventRepo) error {
			ctx := cmd.Context()
			byPurpose, err := repo.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(byPurpose) == 0 {
				fmt.Fprintln(out, "No LLM usage recorded yet.")
				return nil
			}
			byModel, err := repo.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}

			fmt.Fprintln(out, bold("Usage by purpose"))
			fmt.Fprintln(out, purposeTable(byPurpose))
			fmt.Fprintln(out)
			fmt.Fprintln(out, bold("Estimated cost (USD)"))
			t, unpriced := costTable(byModel)
			fmt.Fprintln(out, t)
			if len(unpriced) > 0 {
				fmt.Fprintf(out, "No pricing for: %s\n", strings.Join(unpriced, ", "))
			}
			return nil
		})
	},
}

func withEvents(cmd *cobra.Command, fn func(store.EventRepo) error) error {
	env, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()
	return fn(env.store.EventRepo())
}

// usageTable is a borderless table with right-aligned numeric columns.
func usageTable(headers ...string) *table.Table {
	head := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).BorderBottom(false).BorderLeft(false).BorderRight(false).
		BorderColumn(false).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := cell
			if row == table.HeaderRow {
				s = head
			}
			if col > 0 && numericColumn(headers[col]) {
				s = s.Align(lipgloss.Right)
			}
			return s
		})
}

func numericColumn(h string) bool {
	switch h {
	case "ID", "Calls", "In", "Out", "Total", "Ms", "Avg ms", "Cost":
		return true
	}
	return false
}

func purposeTable(rows []store.PurposeUsage) string {
	t := usageTable("Purpose", "Calls", "In", "Out", "Total", "Avg ms")
	var calls, in, out int
	for _, u := range rows {
		t.Row(u.Purpose, strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens),
			strconv.Itoa(u.InputTokens+u.OutputTokens), strconv.FormatInt(u.AvgLatencyMs, 10))
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	t.Row("TOTAL", strconv.Itoa(calls), strconv.Itoa(in), strconv.Itoa(out), strconv.Itoa(in+out), "")
	return t.String()
}

// costTable prices each model and returns the models it had no price for.
func costTable(rows []store.ModelUsage) (string, []string) {
	t := usageTable("Model", "Calls", "In", "Out", "Cost")
	var (
		total    float64
		unpriced []string
	)
	for _, u := range rows {
		cost := "?"
		if c := llm.LookupCost(u.Model); c != nil {
			usd := c.Cost(u.InputTokens, u.OutputTokens)
			total += usd
			cost = formatCost(usd)
		} else {
			unpriced = append(unpriced, u.Model)
		}
		t.Row(truncate(u.Model, 32), strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens), cost)
	}
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	t.Row(label, "", "", "", formatCost(total))
	return t.String(), unpriced
}

func printEvent(w io.Writer, e *store.LLMEvent) {
	status := green("ok")
	if !e.Success {
		status = red("failed: " + e.ErrorMessage)
	}
	fmt.Fprintf(w, "%s #%d  %s  %s\n", bold("Request"), e.ID, e.Timestamp.Local().Format("2006-01-02 15:04:05"), status)
	fmt.Fprintf(w, "  %s / %s  purpose=%s  tokens=%d+%d  %dms\n",
		e.Provider, e.Model, e.Purpose, e.InputTokens, e.OutputTokens, e.LatencyMs)

	for _, part := range []struct{ title, body string }{
		{"PROMPT", e.RequestBody},
		{"ANSWER", e.ResponseBody},
	} {
		fmt.Fprintf(w, "\n%s\n%s\n", bold(part.title), strings.Repeat("─", 60))
		if part.body == "" {
			fmt.Fprintln(w, "(not captured)")
			continue
		}
		fmt.Fprintln(w, strings.TrimRight(part.body, "\n"))
	}
}

func purposeList() string {
	names := make([]string, len(purposes))
	for i, p := range purposes {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose ("+purposeList()+")")
	llmListCmd.Flags().Bool("failed", false, "Only show failed requests")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
