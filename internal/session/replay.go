package session

import (
	"context"
	"fmt"
	"strconv"

	"github.com/roach88/patternlock/internal/ir"
	"github.com/roach88/patternlock/internal/pattern"
	"github.com/roach88/patternlock/internal/store"
)

// ReplaySource loads a journaled session. Implemented by *store.Store.
type ReplaySource interface {
	ReplaySession(ctx context.Context, sessionID string) (store.SessionState, error)
}

// ReplayResult summarizes a successful replay.
type ReplayResult struct {
	Session     ir.Session `json:"session"`
	Entries     int        `json:"entries"`
	LastSeq     int64      `json:"last_seq"`
	Orphans     int        `json:"orphans"`
	FinalMode   string     `json:"final_mode"`
	SavedDigest string     `json:"saved_digest"`
	Successes   int        `json:"successes"`
	Failures    int        `json:"failures"`
}

// Replay rebuilds the engine of a journaled session and re-applies every
// command in seq order. Each regenerated command ID and outcome must equal
// the journaled one; the first difference is returned as a ReplayMismatch
// error.
//
// opts configure the rebuilt session (logger, observer, callbacks). Any
// journal or clock option is ignored; replay never writes and always
// starts from seq 0.
func Replay(ctx context.Context, src ReplaySource, sessionID string, opts ...Option) (*ReplayResult, error) {
	state, err := src.ReplaySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	info := state.Session
	if info.IRVersion != ir.IRVersion {
		return nil, NewReplayMismatchError(sessionID, 0, "ir_version", info.IRVersion, ir.IRVersion)
	}

	grid, err := pattern.BuildLayout(info.Width, info.Height, pattern.Layout{Rows: info.Rows, Cols: info.Cols})
	if err != nil {
		return nil, fmt.Errorf("replay session %s: %w", sessionID, err)
	}

	s := New(grid, NewFixedGenerator(sessionID), opts...)
	s.journal = nil
	s.clock = NewClock()

	if state.Orphans > 0 {
		s.logger.Warn("journal has commands without outcomes", "orphans", state.Orphans)
	}

	for _, want := range state.Entries {
		cmd := ir.Command{Kind: want.Command.Kind, Args: want.Command.Args}
		got, err := s.Apply(ctx, cmd)
		if err != nil {
			return nil, fmt.Errorf("replay seq %d: %w", want.Command.Seq, err)
		}
		if err := compareEntry(sessionID, want, got); err != nil {
			return nil, err
		}
	}

	st := s.State()
	s.logger.Info("session replayed",
		"entries", len(state.Entries),
		"last_seq", st.LastSeq,
		"mode", st.Mode,
	)

	return &ReplayResult{
		Session:     info,
		Entries:     len(state.Entries),
		LastSeq:     st.LastSeq,
		Orphans:     state.Orphans,
		FinalMode:   st.Mode,
		SavedDigest: ir.PatternDigest(s.Token()),
		Successes:   st.Successes,
		Failures:    st.Failures,
	}, nil
}

func compareEntry(sessionID string, want, got ir.JournalEntry) error {
	seq := want.Command.Seq
	checks := []struct {
		field     string
		want, got string
	}{
		{"command_id", want.Command.ID, got.Command.ID},
		{"case", want.Outcome.Case, got.Outcome.Case},
		{"mode", want.Outcome.Mode, got.Outcome.Mode},
		{"index", strconv.Itoa(want.Outcome.Index), strconv.Itoa(got.Outcome.Index)},
		{"saved_digest", want.Outcome.SavedDigest, got.Outcome.SavedDigest},
		{"attempt_len", strconv.Itoa(want.Outcome.AttemptLen), strconv.Itoa(got.Outcome.AttemptLen)},
		{"outcome_id", want.Outcome.ID, got.Outcome.ID},
	}
	for _, c := range checks {
		if c.want != c.got {
			return NewReplayMismatchError(sessionID, seq, c.field, c.want, c.got)
		}
	}
	return nil
}
