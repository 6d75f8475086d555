package main

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Mr-Dark-debug/tracerange/internal/tui"
)

func tuiCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse experiments and navigate their ranges interactively",
		Long: `Browse experiments and navigate their ranges interactively.

The TUI owns the terminal, so logs go to TRACERANGE_LOG_FILE, or to
tui.log next to the database when it is unset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cfg.LogFile == "" {
				cfg.LogFile = filepath.Join(filepath.Dir(cfg.DBPath), "tui.log")
			}

			e, err := setupWith(cfg)
			if err != nil {
				return err
			}
			defer e.Close()

			model := tui.NewModel(e.store, e.logger, tui.OptionsFromConfig(cfg))
			p := tea.NewProgram(model, tea.WithAltScreen())

			e.logger.Info("tui started")
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running TUI: %w", err)
			}
			return nil
		},
	}
}
