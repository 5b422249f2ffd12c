package cli

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/ticktrack/internal/metrics"
	"github.com/alexanderramin/ticktrack/internal/tracker"
	"github.com/alexanderramin/ticktrack/internal/watch"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the live tracking widget",
		Long: `Open the live tracking widget: type a task name and press enter to
start it, ctrl+s to stop, esc to quit. The elapsed clock refreshes every
second and the lists reload when another ticktrack process changes the store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("the tui needs an interactive terminal")
			}
			rt, err := app.runtime(cmd, true)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			// Notify runs on the scheduler goroutine and inside Update, so
			// Send must not block either caller.
			var prog atomic.Pointer[tea.Program]
			state, err := rt.NewLiveState(tracker.WithNotify(func(ev tracker.Event) {
				if p := prog.Load(); p != nil {
					go p.Send(stateChangedMsg{event: ev})
				}
			}))
			if err != nil {
				return err
			}
			defer state.Close()
			if err := state.Load(ctx); err != nil {
				return err
			}

			var changes <-chan struct{}
			if len(rt.WatchPaths) > 0 {
				w, err := watch.New(rt.Logger, rt.WatchPaths...)
				if err != nil {
					rt.Logger.Warn("store watcher unavailable", slog.Any("error", err))
				} else {
					defer w.Close()
					w.Start(ctx)
					changes = w.Changes()
				}
			}

			if h := rt.MetricsHandler(); h != nil {
				srv, err := metrics.Serve(rt.Config.Metrics.Listen, h, rt.Logger)
				if err != nil {
					return err
				}
				rt.Logger.Info("serving metrics", slog.String("addr", srv.Addr()))
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			p := tea.NewProgram(
				newWidgetModel(ctx, state, changes, app.Now),
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			prog.Store(p)
			defer prog.Store(nil)

			_, err = p.Run()
			return err
		},
	}
}
