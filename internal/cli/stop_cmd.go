package cli

import (
	"fmt"

	"github.com/alexanderramin/ticktrack/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStopCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.tracker(cmd)
			if err != nil {
				return err
			}
			closed, err := svc.Stop(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStopped(closed))
			return nil
		},
	}
}
