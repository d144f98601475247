package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"snakerl/internal/config"
)

const (
	envConfigPath = "SNAKERL_CONFIG"
	envSeed       = "SNAKERL_SEED"
)

type options struct {
	configPath string
	seed       int64
}

func main() {
	for _, envFile := range []string{".env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:          "snakerl",
		Short:        "snakerl runs the grid Snake reinforcement-learning environment.",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to YAML config (default $"+envConfigPath+")")
	rootCmd.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "override the config seed (default $"+envSeed+")")

	rootCmd.AddCommand(newPlayCmd(opts), newEvalCmd(opts), newReplayCmd(opts), newInitWeightsCmd(opts))
	return rootCmd
}

// loadConfig resolves the config from flags, then environment, then defaults
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = os.Getenv(envConfigPath)
	}

	var cfg *config.Config
	if path == "" {
		cfg = config.Default()
	} else {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	switch {
	case cmd.Flags().Changed("seed"):
		cfg.Seed = opts.seed
	case os.Getenv(envSeed) != "":
		seed, err := strconv.ParseInt(os.Getenv(envSeed), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envSeed, err)
		}
		cfg.Seed = seed
	}
	return cfg, nil
}
