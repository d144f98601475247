package env

// IsBlocked reports whether p is off the size x size grid or occupied.
// Step and Encode both classify cells through this function.
func IsBlocked(p Point, occupied Occupancy, size int) bool {
	if p.X < 0 || p.X >= size || p.Y < 0 || p.Y >= size {
		return true
	}
	return occupied.Contains(p)
}
