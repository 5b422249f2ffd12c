package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/ticktrack/internal/bootstrap"
	"github.com/alexanderramin/ticktrack/internal/config"
	"github.com/alexanderramin/ticktrack/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App holds the wiring hooks the commands use. Zero-valued hooks fall back
// to the production implementations.
type App struct {
	// LoadConfig resolves configuration for the --config path.
	LoadConfig func(path string) (*config.Config, error)
	// Open builds the runtime once flags have been applied.
	Open func(cmd *cobra.Command, cfg config.Config, opts bootstrap.Options) (*bootstrap.Runtime, error)
	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
	// PromptTask asks for a task name when start gets no arguments.
	PromptTask func(name *string) error
	// Now is the wall clock used for rendering and entry timestamps.
	Now func() time.Time

	flags   globalFlags
	rt      *bootstrap.Runtime
	logFile io.Closer
}

type globalFlags struct {
	config   string
	store    string
	key      string
	dbPath   string
	file     string
	dsn      string
	logLevel string
}

func bindGlobalFlags(fs *pflag.FlagSet, f *globalFlags) {
	fs.StringVar(&f.config, "config", "", "Config file (default ~/.ticktrack/config.yaml)")
	fs.StringVar(&f.store, "store", "", "Store backend: sqlite, file or mysql")
	fs.StringVar(&f.key, "key", "", "Slot key the entries are stored under")
	fs.StringVar(&f.dbPath, "db", "", "SQLite database path")
	fs.StringVar(&f.file, "file", "", "JSON store file path")
	fs.StringVar(&f.dsn, "dsn", "", "MySQL DSN")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn or error")
}

// NewRootCmd creates the top-level "ticktrack" command and registers all
// subcommands against app. Call app.Close after executing it.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "ticktrack",
		Short:         "Start and stop named tasks and see where the time went",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	bindGlobalFlags(root.PersistentFlags(), &app.flags)

	root.AddCommand(
		newStartCmd(app),
		newStopCmd(app),
		newStatusCmd(app),
		newEntriesCmd(app),
		newSummaryCmd(app),
		newExportCmd(app),
		newTUICmd(app),
	)

	return root
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// resolveConfig loads configuration and layers the changed flags on top.
func (a *App) resolveConfig(cmd *cobra.Command) (config.Config, error) {
	load := a.LoadConfig
	if load == nil {
		load = config.Load
	}
	cfg, err := load(a.flags.config)
	if err != nil {
		return config.Config{}, err
	}

	fs := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	override("store", &cfg.Store.Backend, a.flags.store)
	override("key", &cfg.Store.Key, a.flags.key)
	override("db", &cfg.Store.DBPath, a.flags.dbPath)
	override("file", &cfg.Store.File, a.flags.file)
	override("dsn", &cfg.Store.DSN, a.flags.dsn)
	override("log-level", &cfg.Log.Level, a.flags.logLevel)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return *cfg, nil
}

// runtime opens the configured runtime on first use. Logs go to stderr
// unless toFile is set, in which case they go to the configured log file.
func (a *App) runtime(cmd *cobra.Command, toFile bool) (*bootstrap.Runtime, error) {
	if a.rt != nil {
		return a.rt, nil
	}
	cfg, err := a.resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	opts := bootstrap.Options{LogOutput: cmd.ErrOrStderr(), Clock: a.Now}
	var logFile io.Closer
	if toFile {
		f, err := openLogFile(cfg.Log.File)
		if err != nil {
			return nil, err
		}
		opts.LogOutput, logFile = f, f
	}

	open := a.Open
	if open == nil {
		open = func(cmd *cobra.Command, cfg config.Config, opts bootstrap.Options) (*bootstrap.Runtime, error) {
			return bootstrap.Open(cmd.Context(), cfg, opts)
		}
	}
	rt, err := open(cmd, cfg, opts)
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, err
	}
	a.rt, a.logFile = rt, logFile
	return rt, nil
}

func (a *App) tracker(cmd *cobra.Command) (service.TrackerService, error) {
	rt, err := a.runtime(cmd, false)
	if err != nil {
		return nil, err
	}
	return rt.Tracker, nil
}

// Close releases whatever the last command opened. It is safe to call when
// nothing was opened.
func (a *App) Close() error {
	var errs []error
	if a.rt != nil {
		errs = append(errs, a.rt.Close())
		a.rt = nil
	}
	if a.logFile != nil {
		errs = append(errs, a.logFile.Close())
		a.logFile = nil
	}
	return errors.Join(errs...)
}

func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, errors.New("log.file is required for the tui")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}
