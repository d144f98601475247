package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"snakerl/internal/config"
	"snakerl/internal/env"
	"snakerl/internal/eval"
	"snakerl/internal/policy"
	"snakerl/internal/render"
)

func newPlayCmd(opts *options) *cobra.Command {
	var noReplay bool
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one episode with the configured policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			factory, err := policy.NewFactory(cfg.Policy)
			if err != nil {
				return err
			}

			evaluator := eval.NewEvaluator(cfg, factory)
			replay, stats, err := evaluator.RunWithReplay(cmd.Context(), cfg.Seed, frameHook(cfg))
			if err != nil {
				return fmt.Errorf("episode failed: %w", err)
			}

			printEpisode(stats)
			if noReplay {
				return nil
			}
			path := filepath.Join(cfg.Logging.ReplayDir, fmt.Sprintf("replay_%s.json", replay.ID))
			if err := replay.Save(path); err != nil {
				return fmt.Errorf("failed to save replay: %w", err)
			}
			log.Printf("Saved replay to %s", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noReplay, "no-replay", false, "do not write a replay file")
	return cmd
}

// frameHook renders each tick when the config attaches a display
func frameHook(cfg *config.Config) eval.StepHook {
	if cfg.Headless() {
		return nil
	}
	r := render.NewTerminal(os.Stdout, true)
	delay := frameDelay(cfg.Env.TargetFPS)
	return func(g *env.Game, tr env.Transition) error {
		if err := r.Render(render.Snapshot(g, tr)); err != nil {
			return err
		}
		time.Sleep(delay)
		return nil
	}
}

func frameDelay(fps int) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Second / time.Duration(fps)
}

func printEpisode(stats env.EpisodeStats) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════")
	fmt.Printf("  Game Over! Reason: %s\n", stats.Reason)
	fmt.Printf("  Steps: %d, Score: %d, Length: %d\n", stats.Steps, stats.Score, stats.Length)
	fmt.Printf("  Total Reward: %.2f\n", stats.TotalReward)
	fmt.Println("═══════════════════════════════════")
}
