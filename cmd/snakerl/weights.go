package main

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"snakerl/internal/env"
	"snakerl/internal/nn"
)

func newInitWeightsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init-weights [file]",
		Short: "Write a randomly initialised MLP weights file sized from the config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			path := cfg.Policy.WeightsPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.New("no weights file given and policy.weights_path is empty")
			}
			if cfg.Policy.Hidden1 < 1 || cfg.Policy.Hidden2 < 0 {
				return fmt.Errorf("policy hidden sizes %d/%d invalid", cfg.Policy.Hidden1, cfg.Policy.Hidden2)
			}

			net := nn.NewMLP(env.ObsDim, cfg.Policy.Hidden1, cfg.Policy.Hidden2, env.NumActions)
			net.Randomize(rand.New(rand.NewSource(cfg.Seed)))
			if err := net.SaveWeights(path); err != nil {
				return fmt.Errorf("failed to save weights: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d weights (%dx%dx%dx%d) to %s\n",
				net.NumWeights(), env.ObsDim, cfg.Policy.Hidden1, cfg.Policy.Hidden2, env.NumActions, path)
			return nil
		},
	}
}
