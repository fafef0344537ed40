package store

import (
	"context"
	"fmt"

	"github.com/roach88/patternlock/internal/ir"
)

// SessionState is everything needed to re-execute a session.
type SessionState struct {
	Session ir.Session
	Entries []ir.JournalEntry
	LastSeq int64

	// Orphans counts commands journaled without an outcome. WriteEntry
	// never produces them; a non-zero count means rows were written by
	// something else or the file was edited.
	Orphans int
}

// ReplaySession loads a session and its full journal for re-execution.
// Returns sql.ErrNoRows (wrapped) if the session does not exist.
func (s *Store) ReplaySession(ctx context.Context, sessionID string) (SessionState, error) {
	state := SessionState{}

	sess, err := s.ReadSession(ctx, sessionID)
	if err != nil {
		return state, fmt.Errorf("replay session %s: %w", sessionID, err)
	}
	state.Session = sess

	entries, err := s.ReadJournal(ctx, sessionID)
	if err != nil {
		return state, fmt.Errorf("replay session %s: %w", sessionID, err)
	}
	state.Entries = entries

	for _, e := range entries {
		if e.Outcome.Seq > state.LastSeq {
			state.LastSeq = e.Outcome.Seq
		}
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM commands c
		LEFT JOIN outcomes o ON o.command_id = c.id
		WHERE c.session_id = ? AND o.id IS NULL
	`, sessionID).Scan(&state.Orphans)
	if err != nil {
		return state, fmt.Errorf("replay session %s: count orphans: %w", sessionID, err)
	}

	return state, nil
}
