package pattern

// Attempt holds the trace currently being drawn.
type Attempt struct {
	current Sequence
}

// Select appends p unless it was already selected in this attempt.
// Reports whether p was appended.
func (a *Attempt) Select(p Point) bool {
	return a.current.Add(p)
}

// Reset empties the attempt.
func (a *Attempt) Reset() {
	a.current.clear()
}

// Sequence returns a copy of the attempt in selection order.
func (a *Attempt) Sequence() Sequence {
	return a.current.clone()
}

// Len returns the number of selected points.
func (a *Attempt) Len() int {
	return a.current.Len()
}
