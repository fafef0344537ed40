package store

import (
	"context"
	"fmt"

	"github.com/roach88/patternlock/internal/ir"
)

// WriteSession inserts a session record.
// Uses ON CONFLICT(id) DO NOTHING - rewriting the same session is a no-op.
func (s *Store) WriteSession(ctx context.Context, sess ir.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions
		(id, width, height, rows, cols, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		sess.ID,
		sess.Width,
		sess.Height,
		sess.Rows,
		sess.Cols,
		sess.EngineVersion,
		sess.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// WriteCommand inserts a command record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency.
//
// Note: The session referenced by SessionID must exist (foreign key constraint).
func (s *Store) WriteCommand(ctx context.Context, cmd ir.Command) error {
	argsJSON, err := marshalArgs(cmd.Args)
	if err != nil {
		return fmt.Errorf("write command: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO commands
		(id, session_id, kind, args, seq)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		cmd.ID,
		cmd.SessionID,
		string(cmd.Kind),
		argsJSON,
		cmd.Seq,
	)
	if err != nil {
		return fmt.Errorf("write command: %w", err)
	}
	return nil
}

// WriteOutcome inserts an outcome record.
// Each command has at most one outcome; a second outcome for the same
// command is silently ignored.
//
// Note: The command referenced by CommandID must exist (foreign key constraint).
func (s *Store) WriteOutcome(ctx context.Context, out ir.Outcome) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO outcomes
		(id, command_id, output_case, mode, point_index, saved_digest, attempt_len, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		out.ID,
		out.CommandID,
		out.Case,
		out.Mode,
		out.Index,
		out.SavedDigest,
		out.AttemptLen,
		out.Seq,
	)
	if err != nil {
		return fmt.Errorf("write outcome: %w", err)
	}
	return nil
}

// WriteEntry atomically writes a command and its outcome in a single
// transaction. Either both rows persist or neither does, so a crash never
// leaves a command without its outcome.
func (s *Store) WriteEntry(ctx context.Context, entry ir.JournalEntry) error {
	argsJSON, err := marshalArgs(entry.Command.Args)
	if err != nil {
		return fmt.Errorf("write entry: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write entry: begin tx: %w", err)
	}
	defer tx.Rollback()

	cmd := entry.Command
	_, err = tx.ExecContext(ctx, `
		INSERT INTO commands
		(id, session_id, kind, args, seq)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, cmd.ID, cmd.SessionID, string(cmd.Kind), argsJSON, cmd.Seq)
	if err != nil {
		return fmt.Errorf("write entry: write command: %w", err)
	}

	out := entry.Outcome
	_, err = tx.ExecContext(ctx, `
		INSERT INTO outcomes
		(id, command_id, output_case, mode, point_index, saved_digest, attempt_len, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, out.ID, out.CommandID, out.Case, out.Mode, out.Index, out.SavedDigest, out.AttemptLen, out.Seq)
	if err != nil {
		return fmt.Errorf("write entry: write outcome: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write entry: commit: %w", err)
	}
	return nil
}
