package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "back",
		Short: "Clear the session report and return to the landing page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if err := app.Session.Back(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Session cleared")
			return nil
		},
	}
}
