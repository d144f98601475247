package env

// ObsDim is the length of the observation vector
const ObsDim = 11

// Observation layout:
//
//	[0..3]  danger one cell up, right, down, left
//	[4..7]  food is up, right, down, left of the head
//	[8..10] heading is up, right, down (left when all zero)
type Observation [ObsDim]float32

// Slice returns the observation as a freshly allocated slice
func (o Observation) Slice() []float32 {
	out := make([]float32, ObsDim)
	copy(out, o[:])
	return out
}

// Encode builds the observation vector for the given state
func Encode(body *Body, food Point, dir Direction, size int) Observation {
	var obs Observation
	head := body.Head()

	for d := DirUp; d <= DirLeft; d++ {
		obs[d] = boolToFloat(IsBlocked(head.Move(d), body, size))
	}

	obs[4] = boolToFloat(food.Y < head.Y)
	obs[5] = boolToFloat(food.X > head.X)
	obs[6] = boolToFloat(food.Y > head.Y)
	obs[7] = boolToFloat(food.X < head.X)

	obs[8] = boolToFloat(dir == DirUp)
	obs[9] = boolToFloat(dir == DirRight)
	obs[10] = boolToFloat(dir == DirDown)

	return obs
}

// Heading recovers the current direction from the one-hot block
func (o Observation) Heading() Direction {
	switch {
	case o[8] == 1:
		return DirUp
	case o[9] == 1:
		return DirRight
	case o[10] == 1:
		return DirDown
	}
	return DirLeft
}

// Danger reports the danger flag for direction d
func (o Observation) Danger(d Direction) bool {
	return o[d] == 1
}

// FoodToward reports whether food lies in direction d from the head
func (o Observation) FoodToward(d Direction) bool {
	return o[4+int(d)] == 1
}

func boolToFloat(b bool) float32 {
	if b {
		return 1.0
	}
	return 0.0
}
