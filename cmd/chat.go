package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/abhisek/careerpath/internal/chat"
	"github.com/abhisek/careerpath/internal/llm"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the AI mentor a question",
	Example: `  careerpath chat "¿Qué proyecto hago primero?"
  careerpath chat --history 10
  careerpath chat --clear`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		if wipe, _ := cmd.Flags().GetBool("clear"); wipe {
			if err := e.chatServiceFor(nil).Clear(ctx, e.userID()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Conversación borrada.")
			return nil
		}

		out := cmd.OutOrStdout()
		if n, _ := cmd.Flags().GetInt("history"); n > 0 {
			msgs, err := e.chatServiceFor(nil).History(ctx, e.userID(), n)
			if err != nil {
				return err
			}
			for _, m := range msgs {
				printTurn(cmd, m)
			}
			if len(args) == 0 {
				return nil
			}
		}

		msg := strings.TrimSpace(strings.Join(args, " "))
		if msg == "" {
			return fmt.Errorf("%w: pass a message or --history", chat.ErrEmptyMessage)
		}

		provider, err := e.provider(ctx)
		if err != nil {
			return err
		}
		tr, _, err := e.openTracker(ctx, nil)
		if err != nil {
			return err
		}
		reply, err := e.chatServiceFor(provider).Send(ctx, e.userID(), msg, chat.ContextFor(tr.Catalog(), tr.State()))
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		printTurn(cmd, reply)
		return nil
	},
}

func init() {
	chatCmd.Flags().Bool("clear", false, "Delete the stored conversation")
	chatCmd.Flags().IntP("history", "n", 0, "Print the last N messages first")
}

func printTurn(cmd *cobra.Command, m chat.Message) {
	out := cmd.OutOrStdout()
	if m.Role == llm.RoleUser {
		fmt.Fprintf(out, "%s %s\n", bold("Tú:"), m.Content)
		return
	}
	fmt.Fprintln(out, bold("Mentor:"))
	fmt.Fprintln(out, renderMarkdown(m.Content))
}

// renderMarkdown renders assistant replies for the terminal, falling back
// to the raw text when rendering fails.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return md
	}
	s, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(s, "\n")
}
