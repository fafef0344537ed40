package pattern

import "fmt"

// Point is a selectable grid position. Index is its row-major position in
// the grid; X and Y are pixel coordinates. Points are compared by value.
type Point struct {
	Index int `json:"index"`
	X     int `json:"x"`
	Y     int `json:"y"`
}

// Number returns the 1-based point number used in tokens.
func (p Point) Number() int {
	return p.Index + 1
}

func (p Point) String() string {
	return fmt.Sprintf("#%d(%d,%d)", p.Number(), p.X, p.Y)
}

// coord is the identity key of a point. Two points with the same pixel
// coordinates are the same point.
type coord struct {
	x, y int
}

func (p Point) coord() coord {
	return coord{x: p.X, y: p.Y}
}
