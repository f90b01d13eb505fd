package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/calderos/hollowdeep/game"
)

func newPlayCmd() *cobra.Command {
	var seed int64
	var noJournal bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play interactively in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The screen owns the terminal, so logs go to a file unless
			// the user pointed them elsewhere.
			if flagLogFile == "" {
				var err error
				if logger, err = newLogger(flagLogLevel, "hollowdeep.log"); err != nil {
					return err
				}
			}

			journalDir := tuning.Telemetry.JournalDir
			if noJournal {
				journalDir = ""
			}
			sess, err := game.NewSession(tuning, game.Options{
				Seed:        seed,
				JournalDir:  journalDir,
				TelemetryDB: tuning.Telemetry.DBPath,
			}, logger)
			if err != nil {
				return err
			}
			defer sess.Close(context.Background())

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}
			// Restore the terminal before a panic reaches the user.
			defer func() {
				screen.Fini()
				if r := recover(); r != nil {
					fmt.Fprintf(os.Stderr, "panic: %v\n", r)
					panic(r)
				}
			}()

			return game.RunInteractive(cmd.Context(), sess, screen)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "world seed (0 = random)")
	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "disable run recording")
	return cmd
}
