package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"snakerl/internal/env"
	"snakerl/internal/eval"
	"snakerl/internal/logging"
	"snakerl/internal/policy"
	"snakerl/internal/storage"
)

func newEvalCmd(opts *options) *cobra.Command {
	var episodes int
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate the configured policy over a range of seeds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("episodes") {
				cfg.Eval.Episodes = episodes
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			factory, err := policy.NewFactory(cfg.Policy)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			store, err := storage.Open(ctx, cfg.Logging.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open episode store: %w", err)
			}
			defer store.Close()

			logger, err := logging.NewLogger(cfg.Logging.CSVPath, cfg.Logging.JSONPath, os.Stdout)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer logger.Close()

			evaluator := eval.NewEvaluator(cfg, factory)
			log.Printf("Evaluating %s on %dx%d grid: %d episodes, %d workers",
				cfg.Policy.Kind, cfg.Env.GridSize, cfg.Env.GridSize, cfg.Eval.Episodes, evaluator.Workers())

			results, err := evaluator.Run(ctx, cfg.Eval.BaseSeed, cfg.Eval.Episodes)
			if err != nil {
				return fmt.Errorf("evaluation failed: %w", err)
			}

			for i, stats := range results {
				if err := logger.LogEpisode(i, cfg.Policy.Kind, stats); err != nil {
					return fmt.Errorf("failed to log episode %d: %w", i, err)
				}
				rec := storage.EpisodeRecord{RunID: logger.RunID, Episode: i, Policy: cfg.Policy.Kind, Stats: stats}
				if err := store.SaveEpisode(ctx, rec); err != nil {
					return fmt.Errorf("failed to store episode %d: %w", i, err)
				}
			}
			logger.LogSummary(cfg.Policy.Kind, env.Aggregate(results), cfg.Eval.RobustnessLambda)
			return nil
		},
	}
	cmd.Flags().IntVar(&episodes, "episodes", 0, "override eval.episodes")
	return cmd
}
