// Package render draws environment snapshots. The environment never depends
// on it; drivers build a Frame after each step and hand it to a Renderer.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"snakerl/internal/env"
)

// Frame is a read-only snapshot of one tick
type Frame struct {
	GridSize int
	Snake    []env.Point
	Food     env.Point
	Dir      env.Direction
	Score    int
	Steps    int
	Reward   float64
	Done     bool
	Reason   env.Reason
}

// Snapshot captures the game state together with the last transition
func Snapshot(g *env.Game, tr env.Transition) Frame {
	return Frame{
		GridSize: g.Size(),
		Snake:    g.Snake(),
		Food:     g.Food(),
		Dir:      g.Dir(),
		Score:    g.Score(),
		Steps:    g.Steps(),
		Reward:   tr.Reward,
		Done:     g.Done(),
		Reason:   g.Reason(),
	}
}

// Renderer consumes frames
type Renderer interface {
	Render(f Frame) error
}

// Nop discards frames
type Nop struct{}

func (Nop) Render(Frame) error { return nil }

// Terminal draws a bordered text grid
type Terminal struct {
	w     io.Writer
	clear bool
}

// NewTerminal creates a terminal renderer writing to w. When clear is set
// each frame starts with an ANSI clear-screen sequence.
func NewTerminal(w io.Writer, clear bool) *Terminal {
	return &Terminal{w: w, clear: clear}
}

func (t *Terminal) Render(f Frame) error {
	grid := make([][]rune, f.GridSize)
	for y := range grid {
		grid[y] = []rune(strings.Repeat("·", f.GridSize))
	}

	inside := func(p env.Point) bool {
		return p.X >= 0 && p.X < f.GridSize && p.Y >= 0 && p.Y < f.GridSize
	}
	if inside(f.Food) {
		grid[f.Food.Y][f.Food.X] = '*'
	}
	for i := len(f.Snake) - 1; i >= 0; i-- {
		p := f.Snake[i]
		if !inside(p) {
			continue
		}
		if i == 0 {
			grid[p.Y][p.X] = headGlyph(f.Dir)
		} else {
			grid[p.Y][p.X] = '█'
		}
	}

	bw := bufio.NewWriter(t.w)
	if t.clear {
		bw.WriteString("\033[H\033[2J")
	}
	border := strings.Repeat("──", f.GridSize)
	fmt.Fprintf(bw, "┌%s┐\n", border)
	for _, row := range grid {
		bw.WriteString("│")
		for _, c := range row {
			fmt.Fprintf(bw, " %c", c)
		}
		bw.WriteString("│\n")
	}
	fmt.Fprintf(bw, "└%s┘\n", border)

	fmt.Fprintf(bw, "  Step: %4d | Score: %d | Length: %d | Reward: %+.2f\n",
		f.Steps, f.Score, len(f.Snake), f.Reward)
	if f.Done {
		fmt.Fprintf(bw, "  GAME OVER: %s\n", f.Reason)
	}
	return bw.Flush()
}

func headGlyph(dir env.Direction) rune {
	switch dir {
	case env.DirUp:
		return '▲'
	case env.DirRight:
		return '▶'
	case env.DirDown:
		return '▼'
	case env.DirLeft:
		return '◀'
	}
	return 'O'
}
