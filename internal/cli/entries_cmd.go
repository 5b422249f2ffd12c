package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/ticktrack/internal/cli/formatter"
	"github.com/alexanderramin/ticktrack/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type filterFlags struct {
	task  string
	days  int
	limit int
}

func bindFilterFlags(fs *pflag.FlagSet, f *filterFlags) {
	fs.StringVar(&f.task, "task", "", "Only entries of this task (case-insensitive)")
	fs.IntVar(&f.days, "days", 0, "Only entries started in the last N days")
}

func (f filterFlags) toFilter(app *App) (service.EntryFilter, error) {
	if f.days < 0 {
		return service.EntryFilter{}, errors.New("--days must not be negative")
	}
	if f.limit < 0 {
		return service.EntryFilter{}, errors.New("--limit must not be negative")
	}
	filter := service.EntryFilter{Task: f.task, Limit: f.limit}
	if f.days > 0 {
		filter.Since = app.now().AddDate(0, 0, -f.days)
	}
	return filter, nil
}

func newEntriesCmd(app *App) *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:     "entries",
		Aliases: []string{"log", "ls"},
		Short:   "List recorded entries, oldest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := flags.toFilter(app)
			if err != nil {
				return err
			}
			svc, err := app.tracker(cmd)
			if err != nil {
				return err
			}
			entries, err := svc.Entries(cmd.Context(), filter)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEntries(entries, app.now()))
			return nil
		},
	}

	bindFilterFlags(cmd.Flags(), &flags)
	cmd.Flags().IntVar(&flags.limit, "limit", 0, "Show at most the N most recent entries")

	return cmd
}

func newSummaryCmd(app *App) *cobra.Command {
	var flags filterFlags
	var chart bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show total time per task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := flags.toFilter(app)
			if err != nil {
				return err
			}
			svc, err := app.tracker(cmd)
			if err != nil {
				return err
			}
			summaries, err := svc.Summaries(cmd.Context(), filter)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSummaries(summaries, chart))
			return nil
		},
	}

	bindFilterFlags(cmd.Flags(), &flags)
	cmd.Flags().BoolVar(&chart, "chart", false, "Draw a bar chart of the totals")

	return cmd
}
