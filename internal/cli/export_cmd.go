package cli

import "github.com/spf13/cobra"

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the stored entries as JSON to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.tracker(cmd)
			if err != nil {
				return err
			}
			return svc.Export(cmd.Context(), cmd.OutOrStdout())
		},
	}
}
