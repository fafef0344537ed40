package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/patternlock/internal/ir"
)

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func modeAssert(m string) Assertion {
	return Assertion{Type: AssertMode, Mode: m}
}

func TestRun_RecordThenUnlock(t *testing.T) {
	scenario := &Scenario{
		Name:        "record_unlock",
		Description: "Record a pattern then unlock with it",
		Steps: []Step{
			{Action: string(ir.CommandStartRecording)},
			{Action: ActionTrace, Indices: []int{0, 4, 8}},
			{Action: string(ir.CommandStopRecording)},
			{Action: ActionTrace, Indices: []int{0, 4, 8}},
			{Action: string(ir.CommandUnlock), Expect: &ExpectClause{Unlocked: boolPtr(true), Mode: "idle"}},
		},
		Assertions: []Assertion{
			{Type: AssertSavedPattern, Token: strPtr("1-5-9")},
			{Type: AssertCallbacks, Successes: intPtr(1), Failures: intPtr(0)},
			modeAssert("idle"),
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)

	// 9 commands, each a command event plus an outcome event.
	assert.Len(t, result.Trace, 18)
	assert.Equal(t, EventCommand, result.Trace[0].Type)
	assert.Equal(t, EventOutcome, result.Trace[1].Type)
	assert.Equal(t, int64(18), result.State.LastSeq)
	assert.Equal(t, "1-5-9", result.Token)
}

func TestRun_PatternAppliedFirst(t *testing.T) {
	scenario := &Scenario{
		Name:        "pattern_first",
		Description: "Scenario pattern becomes a set_pattern command",
		Pattern:     "3-2-1",
		Steps:       []Step{{Action: string(ir.CommandClearAttempt)}},
		Assertions:  []Assertion{{Type: AssertSavedPattern, Indices: []int{2, 1, 0}}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	require.NotEmpty(t, result.Trace)
	assert.Equal(t, string(ir.CommandSetPattern), result.Trace[0].Kind)
	assert.Equal(t, "3-2-1", result.Trace[0].Args["token"])
}

func TestRun_ExpectMismatchReported(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "Wrong expectations fail the run without an error",
		Pattern:     "1-2",
		Steps: []Step{
			{Action: string(ir.CommandTouch), Index: intPtr(1), Expect: &ExpectClause{Case: ir.CaseMissed}},
			{Action: string(ir.CommandUnlock), Expect: &ExpectClause{Unlocked: boolPtr(true), Mode: "idle"}},
		},
		Assertions: []Assertion{modeAssert("idle")},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	// touch case, unlock result, unlock mode, final mode assertion
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], `expected case "missed", got "selected"`)
	assert.Contains(t, result.Errors[1], "expected unlocked=true")
	assert.Contains(t, result.Errors[2], `expected mode "idle", got "rejected"`)
	assert.Contains(t, result.Errors[3], "Assertion failed: mode")
}

func TestRun_CustomGrid(t *testing.T) {
	scenario := &Scenario{
		Name:        "four_by_four",
		Description: "A 4x4 layout indexes 16 points",
		Grid:        GridSpec{Width: 400, Height: 400, Rows: 4, Cols: 4},
		Pattern:     "1-16",
		Steps: []Step{
			{Action: ActionTrace, Indices: []int{0, 15}},
			{Action: string(ir.CommandComplete), Expect: &ExpectClause{Case: ir.CaseUnlocked}},
		},
		Assertions: []Assertion{{Type: AssertCallbacks, Successes: intPtr(1)}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_InvalidGrid(t *testing.T) {
	scenario := &Scenario{
		Name:        "too_small",
		Description: "Viewport smaller than the layout",
		Grid:        GridSpec{Width: 2, Height: 2},
		Steps:       []Step{{Action: string(ir.CommandUnlock)}},
		Assertions:  []Assertion{modeAssert("idle")},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build grid")
}

func TestRun_IndexOutOfRange(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_index",
		Description: "Touch index outside the grid",
		Steps:       []Step{{Action: string(ir.CommandTouch), Index: intPtr(9)}},
		Assertions:  []Assertion{modeAssert("idle")},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 0")
}

func TestRun_UnknownActionFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "unknown",
		Description: "Unvalidated scenario with a bad action",
		Steps:       []Step{{Action: "swipe"}},
		Assertions:  []Assertion{modeAssert("idle")},
	}

	_, err := Run(scenario)
	require.Error(t, err)
}

func TestRun_Deterministic(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "wrong_order_rejected.yaml"))
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	a, err := MarshalTrace(scenario.Name, first)
	require.NoError(t, err)
	b, err := MarshalTrace(scenario.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRun_ExampleScenariosPass(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}
