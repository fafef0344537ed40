package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/patternlock/internal/ir"
	"github.com/roach88/patternlock/internal/pattern"
	"github.com/roach88/patternlock/internal/session"
	"github.com/roach88/patternlock/internal/store"
	"github.com/roach88/patternlock/internal/testutil"
)

// Harness drives one scenario through a real session.
type Harness struct {
	store   *store.Store
	grid    *pattern.Grid
	session *session.Session
	result  *Result
}

// Run executes a scenario and returns the result.
//
// Each run gets a fresh in-memory journal, a fixed session ID and a
// deterministic clock. Execution flow:
//  1. Build the grid and session
//  2. Apply the scenario pattern as set_pattern, if any
//  3. Apply the steps, checking each expect clause
//  4. Evaluate assertions
//  5. Replay the journal and compare it with the live run
//
// An error is returned only when the scenario cannot be executed at all
// (bad grid, storage failure, rejected command). Failed expectations are
// reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	gs := scenario.Grid.withDefaults()
	grid, err := pattern.BuildLayout(gs.Width, gs.Height, pattern.Layout{Rows: gs.Rows, Cols: gs.Cols})
	if err != nil {
		return nil, fmt.Errorf("failed to build grid: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	result := NewResult()

	h := &Harness{
		store:  st,
		grid:   grid,
		result: result,
	}
	h.session = session.New(grid, testutil.NewFixedIDGenerator(scenario.SessionID),
		session.WithJournal(st),
		session.WithClock(testutil.NewDeterministicClock()),
		session.WithLogger(logger),
		session.WithEntryHandler(result.AddEntry),
	)

	if scenario.Pattern != "" {
		if _, err := h.session.Apply(ctx, ir.NewSetPattern(scenario.Pattern)); err != nil {
			return nil, fmt.Errorf("failed to apply pattern: %w", err)
		}
	}

	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i, step); err != nil {
			return nil, err
		}
	}

	result.State = h.session.State()
	result.Token = h.session.Token()

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	replayed, err := session.Replay(ctx, st, h.session.ID(), session.WithLogger(logger))
	if err != nil {
		result.AddError(fmt.Sprintf("replay: %v", err))
	} else if replayed.FinalMode != result.State.Mode {
		result.AddError(fmt.Sprintf("replay: final mode %q, live run ended in %q",
			replayed.FinalMode, result.State.Mode))
	}

	return result, nil
}

// executeStep applies one step and checks its expect clause against the
// last outcome it produced.
func (h *Harness) executeStep(ctx context.Context, i int, step Step) error {
	cmds, err := h.commands(step)
	if err != nil {
		return fmt.Errorf("step %d: %w", i, err)
	}

	var last ir.JournalEntry
	for _, cmd := range cmds {
		last, err = h.session.Apply(ctx, cmd)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.Action, err)
		}
	}

	if step.Expect != nil {
		h.checkExpect(i, step, last.Outcome)
	}
	return nil
}

// commands expands a step into the commands it applies.
func (h *Harness) commands(step Step) ([]ir.Command, error) {
	switch step.Action {
	case ActionTrace:
		cmds := make([]ir.Command, 0, len(step.Indices))
		for _, idx := range step.Indices {
			cmd, err := h.touchIndex(idx)
			if err != nil {
				return nil, err
			}
			cmds = append(cmds, cmd)
		}
		return cmds, nil

	case string(ir.CommandTouch):
		if step.Index != nil {
			cmd, err := h.touchIndex(*step.Index)
			if err != nil {
				return nil, err
			}
			return []ir.Command{cmd}, nil
		}
		if step.X == nil || step.Y == nil {
			return nil, fmt.Errorf("touch needs x and y")
		}
		return []ir.Command{ir.NewTouch(*step.X, *step.Y)}, nil

	case string(ir.CommandSetPattern):
		if step.Token == nil {
			return nil, fmt.Errorf("set_pattern needs token")
		}
		return []ir.Command{ir.NewSetPattern(*step.Token)}, nil

	case string(ir.CommandShowHint):
		if step.Visible == nil {
			return nil, fmt.Errorf("show_hint needs visible")
		}
		return []ir.Command{ir.NewShowHint(*step.Visible)}, nil
	}

	return []ir.Command{ir.NewCommand(ir.CommandKind(step.Action))}, nil
}

func (h *Harness) touchIndex(idx int) (ir.Command, error) {
	p, err := h.grid.IndexToPoint(idx)
	if err != nil {
		return ir.Command{}, err
	}
	return ir.NewTouch(p.X, p.Y), nil
}

func (h *Harness) checkExpect(i int, step Step, out ir.Outcome) {
	exp := step.Expect
	if exp.Case != "" && exp.Case != out.Case {
		h.result.AddError(fmt.Sprintf("step %d (%s): expected case %q, got %q",
			i, step.Action, exp.Case, out.Case))
	}
	if exp.Unlocked != nil {
		got := out.Case == ir.CaseUnlocked
		if got != *exp.Unlocked {
			h.result.AddError(fmt.Sprintf("step %d (%s): expected unlocked=%t, got case %q",
				i, step.Action, *exp.Unlocked, out.Case))
		}
	}
	if exp.Mode != "" && exp.Mode != out.Mode {
		h.result.AddError(fmt.Sprintf("step %d (%s): expected mode %q, got %q",
			i, step.Action, exp.Mode, out.Mode))
	}
}
