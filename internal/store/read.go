package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/patternlock/internal/ir"
)

// ReadSession retrieves a single session by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadSession(ctx context.Context, id string) (ir.Session, error) {
	var sess ir.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT id, width, height, rows, cols, engine_version, ir_version
		FROM sessions
		WHERE id = ?
	`, id).Scan(
		&sess.ID, &sess.Width, &sess.Height, &sess.Rows, &sess.Cols,
		&sess.EngineVersion, &sess.IRVersion,
	)
	if err != nil {
		return ir.Session{}, err
	}
	return sess, nil
}

// ListSessions returns all sessions ordered by ID.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ListSessions(ctx context.Context) ([]ir.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, width, height, rows, cols, engine_version, ir_version
		FROM sessions
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []ir.Session{}
	for rows.Next() {
		var sess ir.Session
		if err := rows.Scan(
			&sess.ID, &sess.Width, &sess.Height, &sess.Rows, &sess.Cols,
			&sess.EngineVersion, &sess.IRVersion,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ReadJournal returns every command of a session paired with its outcome.
// Results are ordered by command seq ASC, id COLLATE BINARY ASC.
// Commands without an outcome are omitted; see ReplaySession.
//
// Returns an empty slice (not nil) if the session has no entries.
func (s *Store) ReadJournal(ctx context.Context, sessionID string) ([]ir.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.session_id, c.kind, c.args, c.seq,
		       o.id, o.command_id, o.output_case, o.mode, o.point_index,
		       o.saved_digest, o.attempt_len, o.seq
		FROM commands c
		JOIN outcomes o ON o.command_id = c.id
		WHERE c.session_id = ?
		ORDER BY c.seq ASC, c.id COLLATE BINARY ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	entries := []ir.JournalEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return entries, nil
}

// ReadCommand retrieves a single command by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadCommand(ctx context.Context, id string) (ir.Command, error) {
	var cmd ir.Command
	var kind, argsJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, kind, args, seq
		FROM commands
		WHERE id = ?
	`, id).Scan(&cmd.ID, &cmd.SessionID, &kind, &argsJSON, &cmd.Seq)
	if err != nil {
		return ir.Command{}, err
	}

	cmd.Kind = ir.CommandKind(kind)
	cmd.Args, err = unmarshalArgs(argsJSON)
	if err != nil {
		return ir.Command{}, fmt.Errorf("read command %s: %w", id, err)
	}
	return cmd, nil
}

func scanEntry(rows *sql.Rows) (ir.JournalEntry, error) {
	var entry ir.JournalEntry
	var kind, argsJSON string

	cmd := &entry.Command
	out := &entry.Outcome
	if err := rows.Scan(
		&cmd.ID, &cmd.SessionID, &kind, &argsJSON, &cmd.Seq,
		&out.ID, &out.CommandID, &out.Case, &out.Mode, &out.Index,
		&out.SavedDigest, &out.AttemptLen, &out.Seq,
	); err != nil {
		return ir.JournalEntry{}, fmt.Errorf("scan journal entry: %w", err)
	}

	cmd.Kind = ir.CommandKind(kind)
	args, err := unmarshalArgs(argsJSON)
	if err != nil {
		return ir.JournalEntry{}, fmt.Errorf("journal entry %s: %w", cmd.ID, err)
	}
	cmd.Args = args

	return entry, nil
}
