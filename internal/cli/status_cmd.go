package cli

import (
	"fmt"

	"github.com/alexanderramin/ticktrack/internal/cli/formatter"
	"github.com/alexanderramin/ticktrack/internal/domain"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the running task and elapsed time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.tracker(cmd)
			if err != nil {
				return err
			}
			snap, err := svc.Status(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if short {
				if snap.Current == nil {
					fmt.Fprintln(out, "stopped")
					return nil
				}
				fmt.Fprintf(out, "%s %s\n", snap.Current.Task, domain.FormatElapsed(snap.Elapsed))
				return nil
			}
			fmt.Fprintln(out, formatter.FormatStatus(snap, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only \"TASK HH:MM:SS\" (for prompts and status bars)")

	return cmd
}
