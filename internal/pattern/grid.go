package pattern

import "fmt"

// Layout is the arrangement of points on the grid.
type Layout struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// DefaultLayout is the classic 3x3 lock screen.
var DefaultLayout = Layout{Rows: 3, Cols: 3}

// Size returns the number of points in the layout.
func (l Layout) Size() int {
	return l.Rows * l.Cols
}

func (l Layout) String() string {
	return fmt.Sprintf("%dx%d", l.Rows, l.Cols)
}

// Grid is the fixed set of selectable points for one viewport size.
// A Grid is immutable once built and may be shared freely.
type Grid struct {
	width  int
	height int
	layout Layout
	points []Point
	byXY   map[coord]int
}

// Build computes the default 3x3 grid for a viewport.
func Build(width, height int) (*Grid, error) {
	return BuildLayout(width, height, DefaultLayout)
}

// BuildLayout computes a grid of layout.Rows x layout.Cols points evenly
// spaced around the centre of a width x height viewport.
//
// On each axis the centre is floor(size/2) and the spacing is
// floor(size/count); for three points this is floor(size/2) ± floor(size/3).
// Points are indexed in row-major order from the top-left.
//
// The viewport must be at least one pixel per point on each axis so that
// no two points share coordinates.
func BuildLayout(width, height int, layout Layout) (*Grid, error) {
	if layout.Rows <= 0 || layout.Cols <= 0 {
		return nil, NewConfigurationError(width, height, layout, "layout must have at least one row and column")
	}
	if width <= 0 || height <= 0 {
		return nil, NewConfigurationError(width, height, layout, "width and height must be positive")
	}
	if width < layout.Cols || height < layout.Rows {
		return nil, NewConfigurationError(width, height, layout, "viewport too small for distinct points")
	}

	g := &Grid{
		width:  width,
		height: height,
		layout: layout,
		points: make([]Point, 0, layout.Size()),
		byXY:   make(map[coord]int, layout.Size()),
	}

	for r := 0; r < layout.Rows; r++ {
		y := axisPosition(height, layout.Rows, r)
		for c := 0; c < layout.Cols; c++ {
			p := Point{
				Index: len(g.points),
				X:     axisPosition(width, layout.Cols, c),
				Y:     y,
			}
			g.points = append(g.points, p)
			g.byXY[p.coord()] = p.Index
		}
	}

	return g, nil
}

// MustBuild is like Build but panics on error.
// Use only in tests or when dimensions are known to be valid.
func MustBuild(width, height int) *Grid {
	g, err := Build(width, height)
	if err != nil {
		panic(err)
	}
	return g
}

// axisPosition places point i of n along an axis of the given size.
// Half steps (even n) round toward negative infinity so positions stay
// distinct whenever step >= 1.
func axisPosition(size, n, i int) int {
	mid := size / 2
	step := size / n
	return mid + floorDiv((2*i-(n-1))*step, 2)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Width returns the viewport width the grid was built for.
func (g *Grid) Width() int { return g.width }

// Height returns the viewport height the grid was built for.
func (g *Grid) Height() int { return g.height }

// Layout returns the grid layout.
func (g *Grid) Layout() Layout { return g.layout }

// Len returns the number of points N.
func (g *Grid) Len() int { return len(g.points) }

// Points returns a copy of all points in index order.
func (g *Grid) Points() []Point {
	out := make([]Point, len(g.points))
	copy(out, g.points)
	return out
}

// PointAt returns the point with exactly the given coordinates.
// Taps must land on the point itself; there is no hit radius.
func (g *Grid) PointAt(x, y int) (Point, bool) {
	i, ok := g.byXY[coord{x: x, y: y}]
	if !ok {
		return Point{}, false
	}
	return g.points[i], true
}

// IndexToPoint returns the point with index i.
func (g *Grid) IndexToPoint(i int) (Point, error) {
	if i < 0 || i >= len(g.points) {
		return Point{}, NewOutOfRangeError(i, len(g.points))
	}
	return g.points[i], nil
}

// Contains reports whether i is a valid point index.
func (g *Grid) Contains(i int) bool {
	return i >= 0 && i < len(g.points)
}
