package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"snakerl/internal/env"
	"snakerl/internal/render"
)

func newReplayCmd(opts *options) *cobra.Command {
	var noDisplay bool
	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Re-run a recorded episode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			replay, err := env.LoadReplay(args[0])
			if err != nil {
				return fmt.Errorf("failed to load replay: %w", err)
			}
			game, err := replay.Playback()
			if err != nil {
				return err
			}

			var r render.Renderer = render.Nop{}
			if !noDisplay {
				r = render.NewTerminal(os.Stdout, true)
			}
			delay := frameDelay(cfg.Env.TargetFPS)

			var total float64
			tr := env.Transition{Observation: game.Observe()}
			for _, action := range replay.Actions {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				if err := r.Render(render.Snapshot(game, tr)); err != nil {
					return err
				}
				if !noDisplay {
					time.Sleep(delay)
				}
				if tr, err = game.Step(action); err != nil {
					return fmt.Errorf("replay diverged at step %d: %w", game.Steps(), err)
				}
				total += tr.Reward
			}
			if err := r.Render(render.Snapshot(game, tr)); err != nil {
				return err
			}

			stats := game.Stats(replay.Seed, total)
			printEpisode(stats)
			if stats != replay.FinalStats {
				return fmt.Errorf("replay outcome %+v differs from recorded %+v", stats, replay.FinalStats)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noDisplay, "no-display", false, "run without display (just print stats)")
	return cmd
}
