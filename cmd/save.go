package cmd

import (
	"github.com/spf13/cobra"
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write the current progress snapshot now",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		n := &printNotifier{w: cmd.OutOrStdout()}
		tr, _, err := e.openTracker(cmd.Context(), n)
		if err != nil {
			return err
		}
		n.on = true
		tr.Save(cmd.Context())
		return nil
	},
}
