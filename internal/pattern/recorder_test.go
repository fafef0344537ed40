package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pointsAt(t *testing.T, g *Grid, indices ...int) []Point {
	t.Helper()
	pts := make([]Point, len(indices))
	for i, idx := range indices {
		p, err := g.IndexToPoint(idx)
		require.NoError(t, err)
		pts[i] = p
	}
	return pts
}

func TestRecorder_RecordIgnoresDuplicates(t *testing.T) {
	g := MustBuild(400, 400)
	var r Recorder
	pts := pointsAt(t, g, 2, 5, 8)

	assert.True(t, r.IsEmpty())
	assert.True(t, r.Record(pts[0]))
	assert.True(t, r.Record(pts[1]))
	assert.False(t, r.Record(pts[1]), "second record of same point is a no-op")
	assert.False(t, r.Record(pts[0]))
	assert.True(t, r.Record(pts[2]))

	assert.Equal(t, []int{2, 5, 8}, r.Sequence().Indices())
	assert.Equal(t, "3-6-9", r.Serialize())
	assert.False(t, r.IsEmpty())
}

func TestRecorder_DuplicateIsByCoordinate(t *testing.T) {
	var r Recorder
	r.Record(Point{Index: 0, X: 10, Y: 10})
	assert.False(t, r.Record(Point{Index: 5, X: 10, Y: 10}))
	assert.Equal(t, 1, r.Sequence().Len())
}

func TestRecorder_Clear(t *testing.T) {
	g := MustBuild(400, 400)
	var r Recorder
	for _, p := range pointsAt(t, g, 0, 1) {
		r.Record(p)
	}
	r.Clear()

	assert.True(t, r.IsEmpty())
	assert.Equal(t, "", r.Serialize())

	// Cleared points can be recorded again.
	assert.True(t, r.Record(pointsAt(t, g, 0)[0]))
}

func TestRecorder_SequenceIsCopy(t *testing.T) {
	g := MustBuild(400, 400)
	var r Recorder
	r.Record(pointsAt(t, g, 4)[0])

	seq := r.Sequence()
	seq.Add(pointsAt(t, g, 5)[0])

	assert.Equal(t, 1, r.Sequence().Len())
}

func TestSerialize_Empty(t *testing.T) {
	assert.Equal(t, "", Serialize(Sequence{}))
}

func TestDeserialize(t *testing.T) {
	g := MustBuild(400, 400)

	tests := []struct {
		name  string
		token string
		want  []int
	}{
		{"canonical", "8-5-2", []int{7, 4, 1}},
		{"malformed part dropped", "1-x-3", []int{0, 2}},
		{"hash delimiter", "1#2#3", []int{0, 1, 2}},
		{"pipe delimiter", "1|5|9", []int{0, 4, 8}},
		{"underscore delimiter", "9_8_7", []int{8, 7, 6}},
		{"comma delimiter", "4,5,6", []int{3, 4, 5}},
		{"semicolon delimiter", "3;2;1", []int{2, 1, 0}},
		{"space delimiter", "1 2 3", []int{0, 1, 2}},
		{"mixed delimiter runs", "1 ,; 2--|#_3", []int{0, 1, 2}},
		{"leading and trailing delimiters", "--1-2--", []int{0, 1}},
		{"zero dropped", "0-1", []int{0}},
		{"out of range dropped", "10-1-99", []int{0}},
		{"signed zero dropped", "+0-2", []int{1}},
		{"duplicates dropped", "1-1-2-1", []int{0, 1}},
		{"empty token", "", []int{}},
		{"only delimiters", "#|_,; -", []int{}},
		{"no valid parts", "a-b-c", []int{}},
		{"full grid", "1-2-3-4-5-6-7-8-9", []int{0, 1, 2, 3, 4, 5, 6, 7, 8}},
		{"leading zeros", "01-002", []int{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := Deserialize(tt.token, g)
			assert.Equal(t, tt.want, seq.Indices())
		})
	}
}

func TestDeserialize_RoundTrip(t *testing.T) {
	g := MustBuild(400, 400)

	orders := [][]int{
		{},
		{4},
		{7, 4, 1},
		{0, 1, 2, 5, 8, 7, 6, 3, 4},
		{8, 0},
	}

	for _, order := range orders {
		seq := NewSequence(pointsAt(t, g, order...)...)
		got := Deserialize(Serialize(seq), g)
		assert.True(t, seq.Equal(got), "round trip of %v gave %v", order, got.Indices())
	}
}

func TestDeserialize_LargerGrid(t *testing.T) {
	g, err := BuildLayout(500, 500, Layout{Rows: 4, Cols: 4})
	require.NoError(t, err)

	seq := Deserialize("16-10-11-17", g)
	assert.Equal(t, []int{15, 9, 10}, seq.Indices())
	assert.Equal(t, "16-10-11", Serialize(seq))
}

func TestNormalize(t *testing.T) {
	g := MustBuild(400, 400)
	assert.Equal(t, "8-5-2", Normalize("8 5,2", g))
	assert.Equal(t, "", Normalize("x", g))
}
