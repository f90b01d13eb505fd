package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calderos/hollowdeep/action"
	"github.com/calderos/hollowdeep/game"
	"github.com/calderos/hollowdeep/journal"
)

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <journal-file>",
		Short: "Re-simulate a recorded run",
		Long: `replay loads a journal, rebuilds the world from its seed, and feeds the
recorded player actions back through the scheduler. The simulation is
deterministic, so the replayed run matches the original.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hdr, turns, err := journal.Read(args[0])
			if err != nil {
				return err
			}

			var script []action.Action
			for _, rec := range turns {
				if rec.Actor == "world" {
					continue
				}
				act, err := game.ParseRecordedAction(rec.Action)
				if err != nil {
					return fmt.Errorf("turn %d: %w", rec.Seq, err)
				}
				script = append(script, act)
			}

			sess, err := game.NewSession(tuning, game.Options{Seed: hdr.Seed}, logger)
			if err != nil {
				return err
			}
			defer sess.Close(context.Background())

			if err := game.Replay(cmd.Context(), sess, script); err != nil {
				return err
			}

			snap := sess.Registry.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(),
				"replayed run %s: seed=%d actions=%d turns=%.0f player_alive=%v\n",
				hdr.RunID, hdr.Seed, len(script),
				snap["scheduler.turns_processed"], sess.PlayerAlive())
			return nil
		},
	}
	return cmd
}
