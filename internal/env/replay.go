package env

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Replay stores a deterministic action trace for playback
type Replay struct {
	ID         string       `json:"id"`
	Seed       int64        `json:"seed"`
	GridSize   int          `json:"grid_size"`
	Policy     string       `json:"policy,omitempty"`
	Actions    []Direction  `json:"actions"`
	FinalStats EpisodeStats `json:"final_stats"`
}

// NewReplay creates a new replay recorder
func NewReplay(seed int64, gridSize int, policy string) *Replay {
	return &Replay{
		ID:       uuid.NewString(),
		Seed:     seed,
		GridSize: gridSize,
		Policy:   policy,
		Actions:  make([]Direction, 0, 256),
	}
}

// Record adds an action to the replay
func (r *Replay) Record(action Direction) {
	r.Actions = append(r.Actions, action)
}

// SetFinalStats sets the final episode statistics
func (r *Replay) SetFinalStats(stats EpisodeStats) {
	r.FinalStats = stats
}

// Save writes the replay to a file, creating parent directories
func (r *Replay) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadReplay loads a replay from a file
func LoadReplay(path string) (*Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Replay
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode replay %s: %w", path, err)
	}
	return &r, nil
}

// Playback recreates the seeded game and resets it to the replay's start state
func (r *Replay) Playback() (*Game, error) {
	g, err := NewSeededGame(r.GridSize, r.Seed)
	if err != nil {
		return nil, err
	}
	g.Reset()
	return g, nil
}

// PlaybackStep applies the first n recorded actions to g, stopping early when the episode ends.
// It returns the number of actions applied.
func (r *Replay) PlaybackStep(g *Game, n int) (int, error) {
	if n > len(r.Actions) {
		n = len(r.Actions)
	}
	applied := 0
	for i := 0; i < n && !g.Done(); i++ {
		if _, err := g.Step(r.Actions[i]); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}
