package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/patternlock/internal/ir"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database  string
	SessionID string
	Kind      string // optional - filter to one command kind
}

// TraceEntry is one journaled command with its outcome.
type TraceEntry struct {
	Seq        int64   `json:"seq"`
	CommandID  string  `json:"command_id"`
	Kind       string  `json:"kind"`
	Args       ir.Args `json:"args"`
	Case       string  `json:"case"`
	Mode       string  `json:"mode"`
	Index      int     `json:"index"`
	AttemptLen int     `json:"attempt_len"`
	OutcomeSeq int64   `json:"outcome_seq"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	Commands int            `json:"commands"`
	ByKind   map[string]int `json:"by_kind"`
	ByCase   map[string]int `json:"by_case"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Session  ir.Session   `json:"session"`
	Timeline []TraceEntry `json:"timeline"`
	Stats    TraceStats   `json:"stats"`
}

func (r TraceResult) String() string {
	var b strings.Builder
	s := r.Session
	fmt.Fprintf(&b, "Session: %s (%dx%d grid, viewport %dx%d)\n", s.ID, s.Rows, s.Cols, s.Width, s.Height)
	fmt.Fprintf(&b, "Commands: %d\n\n", r.Stats.Commands)

	for _, e := range r.Timeline {
		fmt.Fprintf(&b, "[%d] %s%s -> %s", e.Seq, e.Kind, formatArgs(e.Args), e.Case)
		if e.Index >= 0 {
			fmt.Fprintf(&b, " #%d", e.Index+1)
		}
		fmt.Fprintf(&b, " (mode=%s attempt=%d)\n", e.Mode, e.AttemptLen)
	}

	if len(r.Stats.ByCase) > 0 {
		b.WriteString("\nOutcomes:")
		for _, k := range sortedKeys(r.Stats.ByCase) {
			fmt.Fprintf(&b, " %s=%d", k, r.Stats.ByCase[k])
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the journal of a session",
		Long: `Show the journaled timeline of a session: every command in seq order
with the outcome it produced.

Examples:
  patternlock trace --db ./lock.db --session demo
  patternlock trace --db ./lock.db --session demo --kind touch
  patternlock trace --db ./lock.db --session demo --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.SessionID, "session", "", "session ID to trace (required)")
	_ = cmd.MarkFlagRequired("session")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "filter to one command kind")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := newFormatter(opts.RootOptions, cmd)

	if opts.Kind != "" && !ir.CommandKind(opts.Kind).Valid() {
		_ = out.Error(ErrCodeGeneric, fmt.Sprintf("unknown command kind %q", opts.Kind), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown command kind %q", opts.Kind))
	}

	st, err := openExisting(opts.Database)
	if err != nil {
		_ = out.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	info, err := st.ReadSession(ctx, opts.SessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = fmt.Errorf("session %q not found", opts.SessionID)
		}
		_ = out.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}

	entries, err := st.ReadJournal(ctx, opts.SessionID)
	if err != nil {
		_ = out.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}

	return out.Success(buildTrace(info, entries, opts.Kind))
}

func buildTrace(info ir.Session, entries []ir.JournalEntry, kind string) TraceResult {
	result := TraceResult{
		Session:  info,
		Timeline: make([]TraceEntry, 0, len(entries)),
		Stats: TraceStats{
			ByKind: map[string]int{},
			ByCase: map[string]int{},
		},
	}

	for _, e := range entries {
		if kind != "" && string(e.Command.Kind) != kind {
			continue
		}
		result.Timeline = append(result.Timeline, TraceEntry{
			Seq:        e.Command.Seq,
			CommandID:  e.Command.ID,
			Kind:       string(e.Command.Kind),
			Args:       e.Command.Args,
			Case:       e.Outcome.Case,
			Mode:       e.Outcome.Mode,
			Index:      e.Outcome.Index,
			AttemptLen: e.Outcome.AttemptLen,
			OutcomeSeq: e.Outcome.Seq,
		})
		result.Stats.ByKind[string(e.Command.Kind)]++
		result.Stats.ByCase[e.Outcome.Case]++
	}
	result.Stats.Commands = len(result.Timeline)

	return result
}

// formatArgs renders args as " k=v k=v" in key order, or "" when empty.
func formatArgs(args ir.Args) string {
	if len(args) == 0 {
		return ""
	}
	var b strings.Builder
	for _, k := range sortedKeys(args) {
		fmt.Fprintf(&b, " %s=%v", k, args[k])
	}
	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
