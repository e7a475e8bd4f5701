package core

// Coord addresses a cell by row and column.
type Coord struct {
	Row, Col int
}

// Wrap applies toroidal wrapping to v on an axis of length n.
func Wrap(v, n int) int {
	if n <= 0 {
		return 0
	}
	return (v%n + n) % n
}

// WrapCoord wraps both axes of c onto an n x n torus.
func WrapCoord(c Coord, n int) Coord {
	return Coord{Row: Wrap(c.Row, n), Col: Wrap(c.Col, n)}
}

// InBounds reports whether c lies inside an n x n grid without wrapping.
func InBounds(c Coord, n int) bool {
	return c.Row >= 0 && c.Row < n && c.Col >= 0 && c.Col < n
}
