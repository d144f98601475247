package env

// Occupancy answers cell membership queries
type Occupancy interface {
	Contains(p Point) bool
}

// Body is the ordered snake, head at index 0, with a cell index for O(1) membership.
// The slice order is authoritative; the index mirrors it.
type Body struct {
	cells []Point
	index map[Point]struct{}
}

// NewBody builds a body from cells, head first. Cells must be distinct.
func NewBody(cells ...Point) *Body {
	b := &Body{
		cells: make([]Point, len(cells), len(cells)+8),
		index: make(map[Point]struct{}, len(cells)),
	}
	copy(b.cells, cells)
	for _, p := range cells {
		b.index[p] = struct{}{}
	}
	return b
}

// Head returns the first cell
func (b *Body) Head() Point {
	return b.cells[0]
}

// Tail returns the last cell
func (b *Body) Tail() Point {
	return b.cells[len(b.cells)-1]
}

// Len returns the number of cells
func (b *Body) Len() int {
	return len(b.cells)
}

// Contains reports whether p is occupied
func (b *Body) Contains(p Point) bool {
	_, ok := b.index[p]
	return ok
}

// PushHead prepends p as the new head
func (b *Body) PushHead(p Point) {
	b.cells = append(b.cells, Point{})
	copy(b.cells[1:], b.cells)
	b.cells[0] = p
	b.index[p] = struct{}{}
}

// PopTail removes and returns the last cell
func (b *Body) PopTail() Point {
	last := len(b.cells) - 1
	tail := b.cells[last]
	b.cells = b.cells[:last]
	delete(b.index, tail)
	return tail
}

// Cells returns a copy of the body, head first
func (b *Body) Cells() []Point {
	out := make([]Point, len(b.cells))
	copy(out, b.cells)
	return out
}
