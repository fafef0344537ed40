package harness

import (
	"github.com/roach88/patternlock/internal/ir"
	"github.com/roach88/patternlock/internal/session"
)

// Trace event types.
const (
	EventCommand = "command"
	EventOutcome = "outcome"
)

// TraceEvent is one command or outcome in a scenario trace.
// IDs and digests are left out so golden files stay readable.
type TraceEvent struct {
	Type       string  `json:"type"` // "command" or "outcome"
	Kind       string  `json:"kind,omitempty"`
	Args       ir.Args `json:"args,omitempty"`
	Case       string  `json:"case,omitempty"`
	Mode       string  `json:"mode,omitempty"`
	Index      int     `json:"index"`
	AttemptLen int     `json:"attempt_len"`
	Seq        int64   `json:"seq"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace holds a command event and an outcome event per applied step.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State is the final session snapshot.
	State session.State `json:"state"`

	// Token is the final saved pattern token.
	Token string `json:"token"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddEntry appends the command and outcome of entry to the trace.
func (r *Result) AddEntry(entry ir.JournalEntry) {
	cmd, out := entry.Command, entry.Outcome
	r.Trace = append(r.Trace,
		TraceEvent{
			Type:  EventCommand,
			Kind:  string(cmd.Kind),
			Args:  cmd.Args,
			Index: -1,
			Seq:   cmd.Seq,
		},
		TraceEvent{
			Type:       EventOutcome,
			Kind:       string(cmd.Kind),
			Case:       out.Case,
			Mode:       out.Mode,
			Index:      out.Index,
			AttemptLen: out.AttemptLen,
			Seq:        out.Seq,
		},
	)
}

// Outcomes returns the outcome events of the trace.
func (r *Result) Outcomes() []TraceEvent {
	var out []TraceEvent
	for _, ev := range r.Trace {
		if ev.Type == EventOutcome {
			out = append(out, ev)
		}
	}
	return out
}
