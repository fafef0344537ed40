package pattern

// Sequence is an ordered, duplicate-free list of points.
//
// A point is a duplicate when another point in the sequence has the same
// coordinates. The zero value is an empty sequence ready to use.
type Sequence struct {
	points []Point
	seen   map[coord]struct{}
}

// NewSequence builds a sequence from points, skipping duplicates.
func NewSequence(points ...Point) Sequence {
	var s Sequence
	for _, p := range points {
		s.Add(p)
	}
	return s
}

// Add appends p unless it is already present. Reports whether p was added.
func (s *Sequence) Add(p Point) bool {
	if s.Contains(p) {
		return false
	}
	if s.seen == nil {
		s.seen = make(map[coord]struct{})
	}
	s.points = append(s.points, p)
	s.seen[p.coord()] = struct{}{}
	return true
}

// Contains reports whether a point with p's coordinates is present.
func (s Sequence) Contains(p Point) bool {
	_, ok := s.seen[p.coord()]
	return ok
}

// Len returns the number of points.
func (s Sequence) Len() int {
	return len(s.points)
}

// IsEmpty reports whether the sequence has no points.
func (s Sequence) IsEmpty() bool {
	return len(s.points) == 0
}

// Points returns a copy of the points in selection order.
func (s Sequence) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// Indices returns the 0-based point indices in selection order.
func (s Sequence) Indices() []int {
	out := make([]int, len(s.points))
	for i, p := range s.points {
		out[i] = p.Index
	}
	return out
}

// Equal reports ordered, index-exact equality: same length and the same
// point index at every position. The same points in another order differ.
func (s Sequence) Equal(other Sequence) bool {
	if len(s.points) != len(other.points) {
		return false
	}
	for i := range s.points {
		if s.points[i].Index != other.points[i].Index {
			return false
		}
	}
	return true
}

// clone returns an independent copy, so views handed out never alias the
// owner's storage.
func (s Sequence) clone() Sequence {
	return NewSequence(s.points...)
}

func (s *Sequence) clear() {
	s.points = nil
	s.seen = nil
}
