package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"snakerl/internal/env"
)

// Render modes
const (
	RenderNone  = "none"
	RenderHuman = "human"
)

// Policy kinds
const (
	PolicyRandom = "random"
	PolicyGreedy = "greedy"
	PolicyMLP    = "mlp"
)

// Default seeds. They are set before decoding so an explicit 0 in YAML is kept.
const (
	DefaultSeed     int64 = 1337
	DefaultBaseSeed int64 = 1000
)

// Config is the root configuration structure
type Config struct {
	Seed    int64        `yaml:"seed"` // absent means DefaultSeed; 0 is a valid seed
	Env     EnvConfig    `yaml:"env"`
	Policy  PolicyConfig `yaml:"policy"`
	Eval    EvalConfig   `yaml:"eval"`
	Logging LogConfig    `yaml:"logging"`
}

// EnvConfig defines environment parameters
type EnvConfig struct {
	GridSize   int    `yaml:"grid_size"`
	TargetFPS  int    `yaml:"target_fps"`  // presentation only
	RenderMode string `yaml:"render_mode"` // none|human
}

// PolicyConfig selects the agent driving the environment
type PolicyConfig struct {
	Kind        string `yaml:"kind"` // random|greedy|mlp
	WeightsPath string `yaml:"weights_path"`
	Hidden1     int    `yaml:"hidden1"`
	Hidden2     int    `yaml:"hidden2"`
}

// EvalConfig defines evaluation parameters
type EvalConfig struct {
	Episodes         int     `yaml:"episodes"`
	BaseSeed         int64   `yaml:"base_seed"` // absent means DefaultBaseSeed
	Workers          int     `yaml:"workers"`
	RobustnessLambda float64 `yaml:"robustness_lambda"`
}

// LogConfig defines logging and artifact parameters
type LogConfig struct {
	CSVPath   string `yaml:"csv_path"`
	JSONPath  string `yaml:"json_path"`
	DBPath    string `yaml:"db_path"` // empty keeps episodes in memory
	ReplayDir string `yaml:"replay_dir"`
}

// Load reads a YAML config file and returns a Config
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := newConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns a config with every field at its default
func Default() *Config {
	cfg := newConfig()
	applyDefaults(cfg)
	return cfg
}

// newConfig presets the fields whose zero value is meaningful
func newConfig() *Config {
	return &Config{
		Seed: DefaultSeed,
		Eval: EvalConfig{BaseSeed: DefaultBaseSeed},
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Env.GridSize == 0 {
		cfg.Env.GridSize = 20
	}
	if cfg.Env.TargetFPS == 0 {
		cfg.Env.TargetFPS = 10
	}
	if cfg.Env.RenderMode == "" {
		cfg.Env.RenderMode = RenderNone
	}
	if cfg.Policy.Kind == "" {
		cfg.Policy.Kind = PolicyGreedy
	}
	if cfg.Policy.Hidden1 == 0 {
		cfg.Policy.Hidden1 = 16
	}
	if cfg.Eval.Episodes == 0 {
		cfg.Eval.Episodes = 100
	}
	if cfg.Eval.RobustnessLambda == 0 {
		cfg.Eval.RobustnessLambda = 0.25
	}
	if cfg.Logging.CSVPath == "" {
		cfg.Logging.CSVPath = "runs/episodes.csv"
	}
	if cfg.Logging.JSONPath == "" {
		cfg.Logging.JSONPath = "runs/episodes.jsonl"
	}
	if cfg.Logging.ReplayDir == "" {
		cfg.Logging.ReplayDir = "artifacts"
	}
}

// Validate checks field ranges after defaults are applied
func (c *Config) Validate() error {
	var errs []error
	if c.Env.GridSize < env.MinGridSize {
		errs = append(errs, fmt.Errorf("env.grid_size %d below minimum %d", c.Env.GridSize, env.MinGridSize))
	}
	if c.Env.TargetFPS < 0 {
		errs = append(errs, fmt.Errorf("env.target_fps %d is negative", c.Env.TargetFPS))
	}
	switch c.Env.RenderMode {
	case RenderNone, RenderHuman:
	default:
		errs = append(errs, fmt.Errorf("env.render_mode %q not one of none|human", c.Env.RenderMode))
	}
	switch c.Policy.Kind {
	case PolicyRandom, PolicyGreedy:
	case PolicyMLP:
		if c.Policy.WeightsPath == "" {
			errs = append(errs, errors.New("policy.weights_path is required for mlp"))
		}
		if c.Policy.Hidden1 < 1 || c.Policy.Hidden2 < 0 {
			errs = append(errs, fmt.Errorf("policy hidden sizes %d/%d invalid", c.Policy.Hidden1, c.Policy.Hidden2))
		}
	default:
		errs = append(errs, fmt.Errorf("policy.kind %q not one of random|greedy|mlp", c.Policy.Kind))
	}
	if c.Eval.Episodes < 1 {
		errs = append(errs, fmt.Errorf("eval.episodes %d must be positive", c.Eval.Episodes))
	}
	if c.Eval.Workers < 0 {
		errs = append(errs, fmt.Errorf("eval.workers %d is negative", c.Eval.Workers))
	}
	return errors.Join(errs...)
}

// Headless reports whether no renderer should be attached
func (c *Config) Headless() bool {
	return c.Env.RenderMode != RenderHuman
}
