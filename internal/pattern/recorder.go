package pattern

import (
	"strconv"
	"strings"
)

// TokenSeparator joins point numbers in canonical tokens.
const TokenSeparator = "-"

// tokenDelimiters are accepted between point numbers when reading a token.
const tokenDelimiters = "#|_,; -"

// Recorder holds the saved (reference) pattern.
type Recorder struct {
	saved Sequence
}

// Record appends p to the saved pattern. Recording a point that is already
// part of the pattern does nothing. Reports whether p was appended.
func (r *Recorder) Record(p Point) bool {
	return r.saved.Add(p)
}

// Load replaces the saved pattern with seq.
func (r *Recorder) Load(seq Sequence) {
	r.saved = seq.clone()
}

// Clear empties the saved pattern.
func (r *Recorder) Clear() {
	r.saved.clear()
}

// IsEmpty reports whether no pattern is saved.
func (r *Recorder) IsEmpty() bool {
	return r.saved.IsEmpty()
}

// Sequence returns a copy of the saved pattern.
func (r *Recorder) Sequence() Sequence {
	return r.saved.clone()
}

// Serialize encodes the saved pattern as a token, e.g. "3-6-9".
func (r *Recorder) Serialize() string {
	return Serialize(r.saved)
}

// Serialize encodes seq as 1-based point numbers joined by "-".
// An empty sequence encodes to "".
func Serialize(seq Sequence) string {
	parts := make([]string, len(seq.points))
	for i, p := range seq.points {
		parts[i] = strconv.Itoa(p.Number())
	}
	return strings.Join(parts, TokenSeparator)
}

// Deserialize decodes a token against g.
//
// Point numbers may be separated by any run of '#', '|', '_', ',', ';',
// ' ' or '-'. Parts that are not integers, or that name no point of g, are
// dropped, as are repeats of a point already decoded. Deserialize never
// fails: a token with no usable parts yields an empty sequence.
func Deserialize(token string, g *Grid) Sequence {
	var seq Sequence
	for _, part := range splitToken(token) {
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		if !g.Contains(n - 1) {
			continue
		}
		seq.Add(g.points[n-1])
	}
	return seq
}

// Normalize rewrites a token in canonical form for grid g.
func Normalize(token string, g *Grid) string {
	return Serialize(Deserialize(token, g))
}

func splitToken(token string) []string {
	return strings.FieldsFunc(token, func(r rune) bool {
		return strings.ContainsRune(tokenDelimiters, r)
	})
}
