package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/patternlock/internal/ir"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSession creates a 3x3 400x400 session record.
func createTestSession(id string) ir.Session {
	return ir.Session{
		ID:            id,
		Width:         400,
		Height:        400,
		Rows:          3,
		Cols:          3,
		EngineVersion: "0.1.0",
		IRVersion:     "1",
	}
}

// createTestEntry creates a command/outcome pair with minimal fields.
func createTestEntry(id, sessionID string, kind ir.CommandKind, args ir.Args, seq int64) ir.JournalEntry {
	return ir.JournalEntry{
		Command: ir.Command{
			ID:        id,
			SessionID: sessionID,
			Kind:      kind,
			Args:      args,
			Seq:       seq,
		},
		Outcome: ir.Outcome{
			ID:          "out-" + id,
			CommandID:   id,
			Case:        ir.CaseOK,
			Mode:        "idle",
			Index:       -1,
			SavedDigest: ir.PatternDigest(""),
			Seq:         seq + 1,
		},
	}
}

// mustWriteSession writes a session or fails the test.
func mustWriteSession(t *testing.T, s *Store, id string) {
	t.Helper()
	if err := s.WriteSession(context.Background(), createTestSession(id)); err != nil {
		t.Fatalf("WriteSession() failed: %v", err)
	}
}
