// Command tracerange manages trace experiments and the time ranges
// selected in them.
//
// Usage:
//
//	tracerange <command> [flags]
//
// Commands:
//
//	experiment  Register, list and delete experiments
//	range       Save, list and delete bookmarked ranges
//	resolve     Resolve a selection edit against an experiment
//	tui         Browse experiments interactively
//	version     Print version information
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Mr-Dark-debug/tracerange/internal/config"
	"github.com/Mr-Dark-debug/tracerange/internal/database"
	"github.com/Mr-Dark-debug/tracerange/internal/log"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	envFile string
	dbPath  string
	output  string
}

func rootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "tracerange",
		Short: "Trace experiment time range manager",
		Long: `tracerange keeps the experiments of a trace viewer and the time ranges
selected in them.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  TRACERANGE_DB_PATH         SQLite database (default: ~/.tracerange/tracerange.db)
  TRACERANGE_LOG_LEVEL       Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  TRACERANGE_LOG_FORMAT      Log format: pretty, json (default: pretty)
  TRACERANGE_LOG_FILE        Write logs to this file instead of stderr
  TRACERANGE_HISTORY_QUIET   Pause before range changes enter history (default: 500ms)
  TRACERANGE_PAN_FRACTION    Share of the view moved by one pan step, 1/N (default: 10)`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "Path to SQLite database file")
	cmd.PersistentFlags().StringVarP(&flags.output, "output", "o", "text", "Output format: text, json")

	cmd.AddCommand(experimentCmd(&flags))
	cmd.AddCommand(rangeCmd(&flags))
	cmd.AddCommand(resolveCmd(&flags))
	cmd.AddCommand(tuiCmd(&flags))
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from the .env file and environment,
// then applies flag overrides.
func loadConfig(flags *globalFlags) (config.Config, error) {
	cfg, err := config.Load(flags.envFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if flags.dbPath != "" {
		cfg.DBPath = flags.dbPath
	}
	return cfg, nil
}

// openStore opens the configured database, creating its directory.
func openStore(cfg config.Config) (*database.DBService, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	store, err := database.NewDBService(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database at %s: %w", cfg.DBPath, err)
	}
	return store, nil
}

// env is what a subcommand works with.
type env struct {
	cfg    config.Config
	store  *database.DBService
	logger *log.Logger
}

func (e *env) Close() {
	e.store.Close()
	e.logger.Close()
}

// setup loads configuration, the logger and the store.
func setup(flags *globalFlags) (*env, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	return setupWith(cfg)
}

func setupWith(cfg config.Config) (*env, error) {
	logger, err := log.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	store, err := openStore(cfg)
	if err != nil {
		logger.Close()
		return nil, err
	}
	logger.Debug("database opened", "path", cfg.DBPath)
	return &env{cfg: cfg, store: store, logger: logger}, nil
}
