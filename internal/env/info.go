package env

// Reason indicates how an episode ended
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonWall      Reason = "wall_collision"
	ReasonSelf      Reason = "self_collision"
	ReasonTruncated Reason = "truncated"
)

// Collision reports whether r is a collision outcome
func (r Reason) Collision() bool {
	return r == ReasonWall || r == ReasonSelf
}

func (r Reason) String() string {
	if r == ReasonNone {
		return "none"
	}
	return string(r)
}

// Info carries the diagnostics returned with every Step.
// Collision steps set Reason and leave Steps and SnakeLength zero.
type Info struct {
	Score       int    `json:"score"`
	Steps       int    `json:"steps,omitempty"`
	SnakeLength int    `json:"snake_length,omitempty"`
	Reason      Reason `json:"reason,omitempty"`
}

// Map returns the info as a key/value mapping: score always, reason on
// collision steps, steps and snake_length otherwise.
func (i Info) Map() map[string]any {
	m := map[string]any{"score": i.Score}
	if i.Reason.Collision() {
		m["reason"] = string(i.Reason)
		return m
	}
	m["steps"] = i.Steps
	m["snake_length"] = i.SnakeLength
	return m
}
