package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tinyland-lab/reclaim/config"
)

// appState holds the flags and derived objects shared by every subcommand.
type appState struct {
	configPath string
	verbose    bool
	jsonOutput bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	state := &appState{}

	root := &cobra.Command{
		Use:     "reclaim",
		Short:   "Find and reclaim disk space used by developer project artifacts",
		Version: fmt.Sprintf("%s (%s) built %s", version, commit, date),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return state.init()
		},
	}

	root.PersistentFlags().StringVar(&state.configPath, "config", "", "path to config file (default: ~/.config/reclaim/config.toml)")
	root.PersistentFlags().BoolVarP(&state.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&state.jsonOutput, "json", false, "set ui.json in the loaded config (report output stays plain text)")

	root.AddCommand(
		newScanCmd(state),
		newCleanCmd(state),
		newAnalyzeCmd(state),
		newBinariesCmd(state),
	)

	return root
}

func (s *appState) init() error {
	path := s.configPath
	if path == "" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, ".config", "reclaim", "config.toml")
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if s.jsonOutput {
		cfg.UI.JSON = true
	}
	s.cfg = cfg

	level := slog.LevelInfo
	switch cfg.General.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if s.verbose {
		level = slog.LevelDebug
	}

	var writer io.Writer = os.Stderr
	if cfg.General.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.General.LogFile), 0755); err == nil {
			if f, err := os.OpenFile(cfg.General.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
				writer = io.MultiWriter(os.Stderr, f)
			}
		}
	}

	s.logger = slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level}))
	return nil
}
