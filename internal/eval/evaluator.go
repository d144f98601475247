package eval

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"snakerl/internal/config"
	"snakerl/internal/env"
	"snakerl/internal/policy"
)

// StepHook observes the game after Reset and after every Step
type StepHook func(g *env.Game, tr env.Transition) error

// Evaluator runs policy episodes on fresh environments
type Evaluator struct {
	gridSize  int
	newPolicy policy.Factory
	workers   int
}

// NewEvaluator creates a new evaluator
func NewEvaluator(cfg *config.Config, factory policy.Factory) *Evaluator {
	workers := cfg.Eval.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Evaluator{
		gridSize:  cfg.Env.GridSize,
		newPolicy: factory,
		workers:   workers,
	}
}

// Workers returns the size of the worker pool
func (e *Evaluator) Workers() int { return e.workers }

// RunEpisode plays one episode to completion with the given seed
func (e *Evaluator) RunEpisode(ctx context.Context, seed int64) (env.EpisodeStats, error) {
	return e.episode(ctx, seed, nil, nil)
}

// RunWithReplay plays one episode, recording every action. hook may be nil.
func (e *Evaluator) RunWithReplay(ctx context.Context, seed int64, hook StepHook) (*env.Replay, env.EpisodeStats, error) {
	p, err := e.newPolicy(seed)
	if err != nil {
		return nil, env.EpisodeStats{}, err
	}
	replay := env.NewReplay(seed, e.gridSize, p.Name())
	stats, err := e.play(ctx, seed, p, replay, hook)
	if err != nil {
		return nil, stats, err
	}
	replay.SetFinalStats(stats)
	return replay, stats, nil
}

// Run evaluates n episodes with seeds baseSeed..baseSeed+n-1 on the worker
// pool. Results are returned in seed order.
func (e *Evaluator) Run(ctx context.Context, baseSeed int64, n int) ([]env.EpisodeStats, error) {
	results := make([]env.EpisodeStats, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := 0; i < n; i++ {
		seed := baseSeed + int64(i)
		g.Go(func() error {
			stats, err := e.RunEpisode(ctx, seed)
			if err != nil {
				return fmt.Errorf("episode seed %d: %w", seed, err)
			}
			results[seed-baseSeed] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Evaluator) episode(ctx context.Context, seed int64, replay *env.Replay, hook StepHook) (env.EpisodeStats, error) {
	p, err := e.newPolicy(seed)
	if err != nil {
		return env.EpisodeStats{}, err
	}
	return e.play(ctx, seed, p, replay, hook)
}

func (e *Evaluator) play(ctx context.Context, seed int64, p policy.Policy, replay *env.Replay, hook StepHook) (env.EpisodeStats, error) {
	game, err := env.NewSeededGame(e.gridSize, seed)
	if err != nil {
		return env.EpisodeStats{}, err
	}

	obs := game.Reset()
	if hook != nil {
		if err := hook(game, env.Transition{Observation: obs}); err != nil {
			return game.Stats(seed, 0), err
		}
	}

	var total float64
	for !game.Done() {
		if err := ctx.Err(); err != nil {
			return game.Stats(seed, total), err
		}
		action := p.Act(obs)
		if replay != nil {
			replay.Record(action)
		}
		tr, err := game.Step(action)
		if err != nil {
			return game.Stats(seed, total), err
		}
		total += tr.Reward
		obs = tr.Observation
		if hook != nil {
			if err := hook(game, tr); err != nil {
				return game.Stats(seed, total), err
			}
		}
	}
	return game.Stats(seed, total), nil
}
