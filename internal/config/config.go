// Package config resolves ticktrack settings. Sources, lowest precedence
// first: built-in defaults, the YAML config file, a .env file, process
// environment variables. Command-line flags are applied by the cli package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexanderramin/ticktrack/internal/store"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all settings.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// StoreConfig selects and locates the entry slot.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	Key     string `yaml:"key"`
	DBPath  string `yaml:"db_path"`
	File    string `yaml:"file"`
	DSN     string `yaml:"dsn"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level    string `yaml:"level"`
	UseCases bool   `yaml:"use_cases"`
	File     string `yaml:"file"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// Environment variable names.
const (
	EnvConfig      = "TICKTRACK_CONFIG"
	EnvStore       = "TICKTRACK_STORE"
	EnvKey         = "TICKTRACK_KEY"
	EnvDB          = "TICKTRACK_DB"
	EnvFile        = "TICKTRACK_FILE"
	EnvDSN         = "TICKTRACK_DSN"
	EnvLogLevel    = "TICKTRACK_LOG_LEVEL"
	EnvLogUseCases = "TICKTRACK_LOG_USE_CASES"
	EnvLogFile     = "TICKTRACK_LOG_FILE"
	EnvMetrics     = "TICKTRACK_METRICS_LISTEN"
)

// HomeDir returns ~/.ticktrack.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".ticktrack"), nil
}

// Default returns the built-in settings rooted at dir.
func Default(dir string) Config {
	return Config{
		Store: StoreConfig{
			Backend: store.BackendSQLite,
			Key:     store.DefaultSlotKey,
			DBPath:  filepath.Join(dir, "ticktrack.db"),
			File:    filepath.Join(dir, "entries.json"),
		},
		Log: LogConfig{
			Level: "warn",
			File:  filepath.Join(dir, "ticktrack.log"),
		},
	}
}

// Load resolves the configuration. path may be empty, in which case
// TICKTRACK_CONFIG or ~/.ticktrack/config.yaml is used if present. An
// explicitly named file that does not exist is an error.
func Load(path string) (*Config, error) {
	dir, err := HomeDir()
	if err != nil {
		return nil, err
	}
	cfg := Default(dir)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfig)
		explicit = path != ""
	}
	if !explicit {
		path = filepath.Join(dir, "config.yaml")
	}
	if err := cfg.mergeFile(path, explicit); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) mergeFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setString := func(dst *string, name string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	setString(&c.Store.Backend, EnvStore)
	setString(&c.Store.Key, EnvKey)
	setString(&c.Store.DBPath, EnvDB)
	setString(&c.Store.File, EnvFile)
	setString(&c.Store.DSN, EnvDSN)
	setString(&c.Log.Level, EnvLogLevel)
	setString(&c.Log.File, EnvLogFile)
	setString(&c.Metrics.Listen, EnvMetrics)
	if v := os.Getenv(EnvLogUseCases); v != "" {
		c.Log.UseCases, _ = strconv.ParseBool(v)
	}
}

// Validate normalizes enumerations and checks that the chosen backend has
// what it needs.
func (c *Config) Validate() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Key == "" {
		c.Store.Key = store.DefaultSlotKey
	}
	switch c.Store.Backend {
	case store.BackendSQLite:
		if c.Store.DBPath == "" {
			return errors.New("store.db_path is required for the sqlite backend")
		}
	case store.BackendFile:
		if c.Store.File == "" {
			return errors.New("store.file is required for the file backend")
		}
	case store.BackendMySQL:
		if c.Store.DSN == "" {
			return errors.New("store.dsn is required for the mysql backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q (want sqlite, file or mysql)", c.Store.Backend)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level. Empty means warn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
