package env

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestGame(t *testing.T, size int, seed int64) *Game {
	t.Helper()
	g, err := NewSeededGame(size, seed)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g
}

func TestResetInitialState(t *testing.T) {
	g := newTestGame(t, 20, 1)
	obs := g.Reset()

	want := []Point{{10, 10}, {10, 11}, {10, 12}}
	if diff := cmp.Diff(want, g.Snake()); diff != "" {
		t.Fatalf("snake mismatch (-want +got):\n%s", diff)
	}
	if g.Dir() != DirUp {
		t.Fatalf("expected heading up, got %s", g.Dir())
	}
	if g.Score() != 0 || g.Steps() != 0 {
		t.Fatalf("expected zero counters, got score=%d steps=%d", g.Score(), g.Steps())
	}
	if g.snake.Contains(g.Food()) {
		t.Fatalf("food %v placed inside snake", g.Food())
	}
	if g.StepCap() != 40000 {
		t.Fatalf("expected step cap 40000, got %d", g.StepCap())
	}
	if obs != g.Observe() {
		t.Fatalf("reset observation differs from Observe: %v vs %v", obs, g.Observe())
	}
}

func TestResetClearsPreviousEpisode(t *testing.T) {
	g := newTestGame(t, 10, 3)
	g.Reset()
	for !g.Done() {
		if _, err := g.Step(DirUp); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	g.Reset()
	if g.Done() || g.Reason() != ReasonNone || g.Steps() != 0 || len(g.Snake()) != 3 {
		t.Fatalf("reset left stale state: done=%v reason=%s steps=%d len=%d",
			g.Done(), g.Reason(), g.Steps(), len(g.Snake()))
	}
}

func TestStepReversalIgnored(t *testing.T) {
	g := newTestGame(t, 20, 1)
	g.Reset()
	g.food = Point{0, 0}

	tr, err := g.Step(DirDown)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if g.Dir() != DirUp {
		t.Fatalf("reversal changed heading to %s", g.Dir())
	}
	if g.Head() != (Point{10, 9}) {
		t.Fatalf("expected head (10,9), got %v", g.Head())
	}
	if tr.Reward != -0.01 {
		t.Fatalf("expected step cost -0.01, got %v", tr.Reward)
	}
	if tr.Done {
		t.Fatal("episode ended after a single safe step")
	}
	want := Info{Score: 0, Steps: 1, SnakeLength: 3}
	if diff := cmp.Diff(want, tr.Info); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestRepeatedReversalNeverSelfCollides(t *testing.T) {
	for _, d := range []Direction{DirUp, DirRight, DirDown, DirLeft} {
		t.Run(d.String(), func(t *testing.T) {
			g := newTestGame(t, 20, 9)
			g.Reset()
			g.food = Point{0, 0}
			if d != DirUp {
				// turn first so the heading under test is d
				turn := d
				if d == DirDown {
					turn = DirRight
				}
				if _, err := g.Step(turn); err != nil {
					t.Fatalf("turn: %v", err)
				}
				if d == DirDown {
					if _, err := g.Step(DirDown); err != nil {
						t.Fatalf("turn: %v", err)
					}
				}
			}
			heading := g.Dir()
			if heading != d {
				t.Fatalf("setup heading %s, want %s", heading, d)
			}
			for !g.Done() {
				tr, err := g.Step(heading.Opposite())
				if err != nil {
					t.Fatalf("step: %v", err)
				}
				if g.Dir() != heading {
					t.Fatalf("heading changed from %s to %s", heading, g.Dir())
				}
				if tr.Done && tr.Info.Reason != ReasonWall {
					t.Fatalf("expected wall collision, got %q", tr.Info.Reason)
				}
			}
		})
	}
}

func TestWallCollision(t *testing.T) {
	g := newTestGame(t, 20, 5)
	g.Reset()

	var (
		tr     Transition
		before []Point
		err    error
	)
	for i := 0; i < 50 && !g.Done(); i++ {
		before = g.Snake()
		tr, err = g.Step(DirLeft)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if !tr.Done {
		t.Fatal("snake never reached the wall")
	}
	if tr.Reward != -10.0 {
		t.Fatalf("expected reward -10, got %v", tr.Reward)
	}
	if tr.Info.Reason != ReasonWall {
		t.Fatalf("expected wall_collision, got %q", tr.Info.Reason)
	}
	if g.Head().X != 0 {
		t.Fatalf("expected head on the left edge, got %v", g.Head())
	}
	if diff := cmp.Diff(before, g.Snake()); diff != "" {
		t.Fatalf("collision mutated snake (-before +after):\n%s", diff)
	}
	m := tr.Info.Map()
	if diff := cmp.Diff(map[string]any{"score": tr.Info.Score, "reason": "wall_collision"}, m); diff != "" {
		t.Fatalf("info map mismatch (-want +got):\n%s", diff)
	}
}

func TestSelfCollisionIntoTail(t *testing.T) {
	g := newTestGame(t, 10, 1)
	g.Reset()
	// head (5,5) with the tail directly below it
	g.snake = NewBody(Point{5, 5}, Point{6, 5}, Point{6, 6}, Point{5, 6})
	g.dir = DirLeft
	g.food = Point{0, 0}
	before := g.Snake()

	tr, err := g.Step(DirDown)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !tr.Done || tr.Info.Reason != ReasonSelf {
		t.Fatalf("expected self collision, got done=%v reason=%q", tr.Done, tr.Info.Reason)
	}
	if tr.Reward != -10.0 {
		t.Fatalf("expected reward -10, got %v", tr.Reward)
	}
	if diff := cmp.Diff(before, g.Snake()); diff != "" {
		t.Fatalf("collision mutated snake (-before +after):\n%s", diff)
	}
	if _, ok := tr.Info.Map()["steps"]; ok {
		t.Fatal("collision info must not carry steps")
	}
}

func TestEatFood(t *testing.T) {
	g := newTestGame(t, 20, 11)
	g.Reset()
	g.food = g.Head().Move(DirUp)

	tr, err := g.Step(DirUp)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if tr.Reward != 10.0 {
		t.Fatalf("expected reward 10, got %v", tr.Reward)
	}
	if g.Score() != 1 || tr.Info.Score != 1 {
		t.Fatalf("expected score 1, got game=%d info=%d", g.Score(), tr.Info.Score)
	}
	if tr.Info.SnakeLength != 4 || len(g.Snake()) != 4 {
		t.Fatalf("expected length 4, got info=%d snake=%d", tr.Info.SnakeLength, len(g.Snake()))
	}
	if g.snake.Contains(g.Food()) {
		t.Fatalf("new food %v placed inside snake", g.Food())
	}
	if g.snake.Tail() != (Point{X: 10, Y: 12}) {
		t.Fatalf("tail moved while growing: %v", g.Snake())
	}
}

func TestStepCapTruncation(t *testing.T) {
	g := newTestGame(t, 20, 2)
	g.Reset()
	g.food = Point{0, 0}

	// a 2x2 loop never meets its own tail with length 3
	loop := []Direction{DirRight, DirDown, DirLeft, DirUp}
	var tr Transition
	var err error
	for i := 0; i < g.StepCap(); i++ {
		tr, err = g.Step(loop[i%len(loop)])
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if tr.Done && i != g.StepCap()-1 {
			t.Fatalf("episode ended early at step %d: %+v", i+1, tr.Info)
		}
	}
	if !tr.Done {
		t.Fatal("expected truncation on the final step")
	}
	if tr.Reward != -0.01 {
		t.Fatalf("truncation changed reward to %v", tr.Reward)
	}
	if tr.Info.Reason != ReasonNone || tr.Info.Steps != 40000 {
		t.Fatalf("unexpected truncation info: %+v", tr.Info)
	}
	if !g.Truncated() {
		t.Fatal("expected Truncated after hitting the step cap")
	}
	if _, err := g.Step(DirUp); !errors.Is(err, ErrEpisodeDone) {
		t.Fatalf("expected ErrEpisodeDone, got %v", err)
	}
}

func TestStepErrors(t *testing.T) {
	g := newTestGame(t, 20, 1)
	if _, err := g.Step(DirUp); !errors.Is(err, ErrNotReset) {
		t.Fatalf("expected ErrNotReset, got %v", err)
	}

	g.Reset()
	for _, bad := range []Direction{-1, 4, 42} {
		if _, err := g.Step(bad); !errors.Is(err, ErrInvalidAction) {
			t.Fatalf("action %d: expected ErrInvalidAction, got %v", bad, err)
		}
	}
	if g.Steps() != 0 {
		t.Fatalf("invalid actions advanced the clock to %d", g.Steps())
	}
}

func TestNewGameValidation(t *testing.T) {
	if _, err := NewSeededGame(MinGridSize-1, 1); err == nil {
		t.Fatal("expected error for undersized grid")
	}
	if _, err := NewGame(20, nil); err == nil {
		t.Fatal("expected error for nil random source")
	}
	g, err := NewSeededGame(MinGridSize, 1)
	if err != nil {
		t.Fatalf("minimum grid: %v", err)
	}
	g.Reset()
	for _, p := range g.Snake() {
		if !g.InBounds(p) {
			t.Fatalf("starting cell %v off grid", p)
		}
	}
}

func TestRandomPlayInvariants(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		g := newTestGame(t, 8, seed)
		rng := rand.New(rand.NewSource(seed + 100))
		g.Reset()
		for !g.Done() {
			tr, err := g.Step(Direction(rng.Intn(NumActions)))
			if err != nil {
				t.Fatalf("seed %d: step: %v", seed, err)
			}

			cells := g.Snake()
			seen := make(map[Point]bool, len(cells))
			for _, p := range cells {
				if seen[p] {
					t.Fatalf("seed %d: duplicate cell %v in %v", seed, p, cells)
				}
				seen[p] = true
				if !g.snake.Contains(p) {
					t.Fatalf("seed %d: index missing %v", seed, p)
				}
			}
			if len(g.snake.index) != len(cells) {
				t.Fatalf("seed %d: index has %d cells, body %d", seed, len(g.snake.index), len(cells))
			}
			if seen[g.Food()] {
				t.Fatalf("seed %d: food %v inside snake", seed, g.Food())
			}
			if tr.Observation != g.Observe() || g.Observe() != g.Observe() {
				t.Fatalf("seed %d: observation not reproducible", seed)
			}
		}
	}
}

func TestInfoMapKeys(t *testing.T) {
	running := Info{Score: 2, Steps: 7, SnakeLength: 5}
	want := map[string]any{"score": 2, "steps": 7, "snake_length": 5}
	if diff := cmp.Diff(want, running.Map()); diff != "" {
		t.Fatalf("running info (-want +got):\n%s", diff)
	}

	collided := Info{Score: 3, Reason: ReasonSelf}
	want = map[string]any{"score": 3, "reason": "self_collision"}
	if diff := cmp.Diff(want, collided.Map()); diff != "" {
		t.Fatalf("collision info (-want +got):\n%s", diff)
	}
}
