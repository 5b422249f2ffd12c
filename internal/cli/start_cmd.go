package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/ticktrack/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newStartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "start [TASK...]",
		Short: "Start tracking a task (stops the running one)",
		Long: `Start tracking a task. The words of TASK are joined with spaces.
Without arguments on a terminal you are prompted for the name.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			if len(args) == 0 && app.interactive() {
				prompt := app.PromptTask
				if prompt == nil {
					prompt = promptTaskName
				}
				if err := prompt(&name); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return nil
					}
					return fmt.Errorf("reading task name: %w", err)
				}
			}

			svc, err := app.tracker(cmd)
			if err != nil {
				return err
			}
			entry, err := svc.Start(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStarted(entry, app.now()))
			return nil
		},
	}
}
