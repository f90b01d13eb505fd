// Package cli wires the hollowdeep commands: play (interactive), sim
// (headless batch) and replay (journal playback).
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/calderos/hollowdeep/config"
)

var (
	flagConfig   string
	flagLogLevel string
	flagLogFile  string

	logger *slog.Logger
	tuning config.Tuning
)

// NewRootCmd builds the hollowdeep command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hollowdeep",
		Short: "hollowdeep — a turn-based dungeon crawl",
		Long: `hollowdeep is a terminal dungeon crawl built on a deterministic
turn scheduler. Fixed seeds reproduce entire runs.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if logger, err = newLogger(flagLogLevel, flagLogFile); err != nil {
				return err
			}
			if tuning, err = config.Load(flagConfig); err != nil {
				return err
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "hollowdeep.yaml", "tuning file (missing file uses defaults)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "log destination (default stderr; play logs to hollowdeep.log)")

	root.AddCommand(
		newPlayCmd(),
		newSimCmd(),
		newReplayCmd(),
	)
	return root
}

func newLogger(level, path string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	out := os.Stderr
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		out = f
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl})), nil
}
