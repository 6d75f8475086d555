// Package config loads tracerange settings from the environment and
// optional .env files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every variable, e.g. TRACERANGE_DB_PATH.
const EnvPrefix = "TRACERANGE"

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// Defaults. Struct tag defaults must be literals; tests keep them in sync.
const (
	DefaultLogLevel      = "INFO"
	DefaultLogFormat     = LogFormatPretty
	DefaultHistoryQuiet  = 500 * time.Millisecond
	DefaultPanFraction   = 10
	defaultDataDirectory = ".tracerange"
)

// Config holds all environment-based configuration.
type Config struct {
	// DBPath is the SQLite database file.
	// Env: TRACERANGE_DB_PATH (default: ~/.tracerange/tracerange.db)
	DBPath string `envconfig:"DB_PATH"`

	// LogLevel is the log verbosity (DEBUG, INFO, WARN, ERROR).
	// Env: TRACERANGE_LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is pretty or json.
	// Env: TRACERANGE_LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// LogFile receives logs instead of stderr when set. The TUI always
	// needs one since it owns the terminal.
	// Env: TRACERANGE_LOG_FILE
	LogFile string `envconfig:"LOG_FILE"`

	// HistoryQuiet is the pause after which a burst of range changes
	// becomes one history entry.
	// Env: TRACERANGE_HISTORY_QUIET (default: 500ms)
	HistoryQuiet time.Duration `envconfig:"HISTORY_QUIET" default:"500ms"`

	// PanFraction is the share of the view (1/N) moved by one pan step.
	// Env: TRACERANGE_PAN_FRACTION (default: 10)
	PanFraction int `envconfig:"PAN_FRACTION" default:"10"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		DBPath:       defaultDBPath(),
		LogLevel:     DefaultLogLevel,
		LogFormat:    string(DefaultLogFormat),
		HistoryQuiet: DefaultHistoryQuiet,
		PanFraction:  DefaultPanFraction,
	}
}

// Load reads envFile (when it exists) and then the environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if err := LoadDotEnv(envFile); err != nil {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return LoadFromEnv()
}

// LoadFromEnv loads configuration from TRACERANGE_* variables.
func LoadFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath()
	}
	if cfg.PanFraction <= 0 {
		cfg.PanFraction = DefaultPanFraction
	}
	return cfg, nil
}

// LoadDotEnv loads variables from a .env file. If path is empty it
// loads ".env"; a missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// Format returns the parsed log format; unknown values mean pretty.
func (c Config) Format() LogFormat {
	if strings.EqualFold(c.LogFormat, string(LogFormatJSON)) {
		return LogFormatJSON
	}
	return LogFormatPretty
}

func defaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, defaultDataDirectory, "tracerange.db")
}
