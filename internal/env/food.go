package env

import "math/rand"

// PlaceFood samples cells uniformly until one is not occupied.
// It does not return if every cell on the grid is occupied.
func PlaceFood(occupied Occupancy, size int, rng *rand.Rand) Point {
	for {
		p := Point{X: rng.Intn(size), Y: rng.Intn(size)}
		if !occupied.Contains(p) {
			return p
		}
	}
}
