package env

import (
	"errors"
	"fmt"
	"math/rand"
)

// Direction represents the snake's heading and doubles as the action space
type Direction int

const (
	DirUp Direction = iota
	DirRight
	DirDown
	DirLeft
)

// NumActions is the size of the discrete action space
const NumActions = 4

// MinGridSize is the smallest grid that fits the starting snake
const MinGridSize = 5

const (
	startLength    = 3
	stepCapFactor  = 100
	rewardFood     = 10.0
	rewardCollide  = -10.0
	rewardStepCost = -0.01
)

var (
	ErrNotReset      = errors.New("env: step called before reset")
	ErrEpisodeDone   = errors.New("env: episode is done, call reset")
	ErrInvalidAction = errors.New("env: invalid action")
)

// Opposite returns the reverse heading
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Valid reports whether d is one of the four headings
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirLeft
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Point represents a coordinate on the grid
type Point struct {
	X, Y int
}

// Move returns the neighbouring cell in direction d
func (p Point) Move(d Direction) Point {
	switch d {
	case DirUp:
		return Point{X: p.X, Y: p.Y - 1}
	case DirRight:
		return Point{X: p.X + 1, Y: p.Y}
	case DirDown:
		return Point{X: p.X, Y: p.Y + 1}
	case DirLeft:
		return Point{X: p.X - 1, Y: p.Y}
	}
	return p
}

// Transition is the result of a single Step
type Transition struct {
	Observation Observation
	Reward      float64
	Done        bool
	Info        Info
}

// Game is the snake environment. A Game is owned by a single goroutine.
type Game struct {
	size    int
	stepCap int

	snake  *Body
	dir    Direction
	food   Point
	score  int
	steps  int
	done   bool
	reason Reason
	ready  bool

	rng *rand.Rand
}

// NewGame creates an environment on a size x size grid. Call Reset before Step.
func NewGame(size int, rng *rand.Rand) (*Game, error) {
	if size < MinGridSize {
		return nil, fmt.Errorf("env: grid size %d below minimum %d", size, MinGridSize)
	}
	if rng == nil {
		return nil, errors.New("env: random source is required")
	}
	return &Game{
		size:    size,
		stepCap: size * size * stepCapFactor,
		rng:     rng,
	}, nil
}

// NewSeededGame is NewGame with a rand.Rand seeded from seed
func NewSeededGame(size int, seed int64) (*Game, error) {
	return NewGame(size, rand.New(rand.NewSource(seed)))
}

// Reset places a fresh snake in the centre heading up and returns the first observation
func (g *Game) Reset() Observation {
	c := g.size / 2
	cells := make([]Point, startLength)
	for i := range cells {
		cells[i] = Point{X: c, Y: c + i}
	}
	g.snake = NewBody(cells...)
	g.dir = DirUp
	g.food = PlaceFood(g.snake, g.size, g.rng)
	g.score = 0
	g.steps = 0
	g.done = false
	g.reason = ReasonNone
	g.ready = true

	return g.Observe()
}

// Step advances the game by one tick with the given absolute heading
func (g *Game) Step(action Direction) (Transition, error) {
	if !g.ready {
		return Transition{}, ErrNotReset
	}
	if g.done {
		return Transition{}, ErrEpisodeDone
	}
	if !action.Valid() {
		return Transition{}, fmt.Errorf("%w: %d", ErrInvalidAction, int(action))
	}

	g.steps++

	// Reversal is a no-op
	if action != g.dir.Opposite() {
		g.dir = action
	}

	newHead := g.snake.Head().Move(g.dir)

	// Both checks run against the pre-move body, so the current tail cell blocks.
	if !g.InBounds(newHead) {
		return g.collide(ReasonWall), nil
	}
	if g.snake.Contains(newHead) {
		return g.collide(ReasonSelf), nil
	}

	var reward float64
	g.snake.PushHead(newHead)
	if newHead == g.food {
		g.score++
		reward = rewardFood
		g.food = PlaceFood(g.snake, g.size, g.rng)
	} else {
		g.snake.PopTail()
		reward = rewardStepCost
	}

	if g.steps >= g.stepCap {
		g.done = true
		g.reason = ReasonTruncated
	}

	return Transition{
		Observation: g.Observe(),
		Reward:      reward,
		Done:        g.done,
		Info: Info{
			Score:       g.score,
			Steps:       g.steps,
			SnakeLength: g.snake.Len(),
		},
	}, nil
}

func (g *Game) collide(reason Reason) Transition {
	g.done = true
	g.reason = reason
	return Transition{
		Observation: g.Observe(),
		Reward:      rewardCollide,
		Done:        true,
		Info:        Info{Score: g.score, Reason: reason},
	}
}

// Observe encodes the current state
func (g *Game) Observe() Observation {
	return Encode(g.snake, g.food, g.dir, g.size)
}

// InBounds reports whether p lies on the grid
func (g *Game) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.size && p.Y >= 0 && p.Y < g.size
}

// Size returns the grid side length
func (g *Game) Size() int { return g.size }

// StepCap returns the truncation limit
func (g *Game) StepCap() int { return g.stepCap }

// Snake returns a copy of the body cells, head first
func (g *Game) Snake() []Point {
	if g.snake == nil {
		return nil
	}
	return g.snake.Cells()
}

// Head returns the snake's head position
func (g *Game) Head() Point { return g.snake.Head() }

// Dir returns the current heading
func (g *Game) Dir() Direction { return g.dir }

// Food returns the food cell
func (g *Game) Food() Point { return g.food }

// Score returns the number of food items eaten this episode
func (g *Game) Score() int { return g.score }

// Steps returns the ticks elapsed since Reset
func (g *Game) Steps() int { return g.steps }

// Done reports whether the current episode has ended
func (g *Game) Done() bool { return g.done }

// Reason returns why the episode ended, or ReasonNone while it is running
func (g *Game) Reason() Reason { return g.reason }

// Truncated reports whether the episode ended on the step cap rather than a collision
func (g *Game) Truncated() bool { return g.reason == ReasonTruncated }
