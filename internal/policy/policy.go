// Package policy holds the agents that choose actions from observations.
package policy

import (
	"fmt"
	"math/rand"

	"snakerl/internal/config"
	"snakerl/internal/env"
	"snakerl/internal/nn"
)

// Policy maps an observation to an absolute heading.
// Implementations are not safe for concurrent use.
type Policy interface {
	Name() string
	Act(obs env.Observation) env.Direction
}

// Factory builds an independent policy instance for one episode seed
type Factory func(seed int64) (Policy, error)

// NewFactory returns a Factory for the configured policy kind.
// MLP weights are read once and copied into each instance; the file's hidden
// layer sizes must match the config.
func NewFactory(cfg config.PolicyConfig) (Factory, error) {
	switch cfg.Kind {
	case config.PolicyRandom:
		return func(seed int64) (Policy, error) {
			return NewRandom(rand.New(rand.NewSource(seed))), nil
		}, nil
	case config.PolicyGreedy:
		return func(int64) (Policy, error) {
			return Greedy{}, nil
		}, nil
	case config.PolicyMLP:
		proto, err := nn.LoadMLP(cfg.WeightsPath)
		if err != nil {
			return nil, fmt.Errorf("load mlp policy: %w", err)
		}
		if proto.InputSize != env.ObsDim || proto.OutputSize != env.NumActions {
			return nil, fmt.Errorf("mlp policy %s: network is %d->%d, need %d->%d",
				cfg.WeightsPath, proto.InputSize, proto.OutputSize, env.ObsDim, env.NumActions)
		}
		if proto.Hidden1 != cfg.Hidden1 || proto.Hidden2 != cfg.Hidden2 {
			return nil, fmt.Errorf("mlp policy %s: hidden layers are %d/%d, config expects %d/%d",
				cfg.WeightsPath, proto.Hidden1, proto.Hidden2, cfg.Hidden1, cfg.Hidden2)
		}
		return func(int64) (Policy, error) {
			m := nn.NewMLP(proto.InputSize, proto.Hidden1, proto.Hidden2, proto.OutputSize)
			if err := m.SetWeights(proto.Weights); err != nil {
				return nil, err
			}
			return NewMLP(m), nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown policy kind %q", cfg.Kind)
	}
}

// Random picks one of the four headings uniformly
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random policy drawing from rng
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) Name() string { return config.PolicyRandom }

func (r *Random) Act(env.Observation) env.Direction {
	return env.Direction(r.rng.Intn(env.NumActions))
}

// Greedy heads for the food along safe cells and otherwise takes any safe
// turn, preferring to keep its heading.
type Greedy struct{}

func (Greedy) Name() string { return config.PolicyGreedy }

func (Greedy) Act(obs env.Observation) env.Direction {
	heading := obs.Heading()
	candidates := []env.Direction{heading, (heading + 1) % 4, (heading + 3) % 4}

	for _, d := range candidates {
		if obs.FoodToward(d) && !obs.Danger(d) {
			return d
		}
	}
	for _, d := range candidates {
		if !obs.Danger(d) {
			return d
		}
	}
	return heading
}

// MLP chooses the argmax output of a neural network
type MLP struct {
	net *nn.MLP
	buf []float32
}

// NewMLP wraps a network with ObsDim inputs and NumActions outputs
func NewMLP(net *nn.MLP) *MLP {
	return &MLP{net: net, buf: make([]float32, env.ObsDim)}
}

func (m *MLP) Name() string { return config.PolicyMLP }

func (m *MLP) Act(obs env.Observation) env.Direction {
	copy(m.buf, obs[:])
	return env.Direction(m.net.Forward(m.buf))
}
