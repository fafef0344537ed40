package testutil

import (
	"testing"

	"github.com/roach88/patternlock/internal/ir"
	"github.com/roach88/patternlock/internal/pattern"
)

// DefaultSessionID is returned by a FixedIDGenerator created with "".
const DefaultSessionID = "test-session-default"

// FixedIDGenerator returns the same session ID every time, so identical
// scenarios produce byte-identical journals and golden traces.
// Stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a generator for id, or DefaultSessionID
// when id is empty.
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = DefaultSessionID
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed ID.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}

// TouchCommands returns one touch command per grid index, aimed at the
// exact point coordinates.
func TouchCommands(t testing.TB, g *pattern.Grid, indices ...int) []ir.Command {
	t.Helper()
	cmds := make([]ir.Command, len(indices))
	for i, idx := range indices {
		p, err := g.IndexToPoint(idx)
		if err != nil {
			t.Fatalf("TouchCommands: %v", err)
		}
		cmds[i] = ir.NewTouch(p.X, p.Y)
	}
	return cmds
}
