package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/patternlock/internal/ir"
)

// Default grid used when a scenario omits grid fields.
const (
	DefaultWidth  = 400
	DefaultHeight = 400
	DefaultRows   = 3
	DefaultCols   = 3
)

// ActionTrace is the step shorthand for a sequence of index touches.
const ActionTrace = "trace"

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. Also the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Grid is the viewport and layout. Zero fields take the defaults.
	Grid GridSpec `yaml:"grid,omitempty"`

	// Pattern is an optional saved pattern token applied before the steps.
	Pattern string `yaml:"pattern,omitempty"`

	// SessionID is an optional fixed session ID.
	// Defaults to testutil.DefaultSessionID.
	SessionID string `yaml:"session_id,omitempty"`

	// Steps are applied in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state and the trace.
	Assertions []Assertion `yaml:"assertions"`
}

// GridSpec describes the grid a scenario runs on.
type GridSpec struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
	Rows   int `yaml:"rows,omitempty"`
	Cols   int `yaml:"cols,omitempty"`
}

// withDefaults fills zero fields.
func (g GridSpec) withDefaults() GridSpec {
	if g.Width == 0 {
		g.Width = DefaultWidth
	}
	if g.Height == 0 {
		g.Height = DefaultHeight
	}
	if g.Rows == 0 {
		g.Rows = DefaultRows
	}
	if g.Cols == 0 {
		g.Cols = DefaultCols
	}
	return g
}

// Step is one scenario action.
type Step struct {
	// Action is a command kind (touch, unlock, ...) or "trace".
	Action string `yaml:"action"`

	// X and Y are raw touch coordinates.
	X *int `yaml:"x,omitempty"`
	Y *int `yaml:"y,omitempty"`

	// Index touches the exact coordinates of a grid point.
	Index *int `yaml:"index,omitempty"`

	// Indices lists the points touched by a trace step.
	Indices []int `yaml:"indices,omitempty"`

	// Token is the set_pattern argument.
	Token *string `yaml:"token,omitempty"`

	// Visible is the show_hint argument.
	Visible *bool `yaml:"visible,omitempty"`

	// Expect checks the outcome of the step (the last touch of a trace).
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a step.
// Empty fields are not checked.
type ExpectClause struct {
	// Case is the expected output case (selected, missed, unlocked, ...).
	Case string `yaml:"case,omitempty"`

	// Unlocked checks unlock and complete results.
	Unlocked *bool `yaml:"unlocked,omitempty"`

	// Mode is the expected engine mode after the step.
	Mode string `yaml:"mode,omitempty"`
}

// Assertion validates final state or the trace.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Token is the expected saved pattern token (saved_pattern).
	Token *string `yaml:"token,omitempty"`

	// Indices are expected point indices (saved_pattern, attempt).
	Indices []int `yaml:"indices,omitempty"`

	// Mode is the expected final mode (mode).
	Mode string `yaml:"mode,omitempty"`

	// Successes and Failures are expected callback counts (callbacks).
	Successes *int `yaml:"successes,omitempty"`
	Failures  *int `yaml:"failures,omitempty"`

	// Action and Case select outcomes to count (step_count).
	// An empty field matches everything.
	Action string `yaml:"action,omitempty"`
	Case   string `yaml:"case,omitempty"`

	// Count is the expected number of matching outcomes (step_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertSavedPattern = "saved_pattern"
	AssertAttempt      = "attempt"
	AssertMode         = "mode"
	AssertCallbacks    = "callbacks"
	AssertStepCount    = "step_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	g := s.Grid
	if g.Width < 0 || g.Height < 0 || g.Rows < 0 || g.Cols < 0 {
		return fmt.Errorf("grid dimensions must be positive")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, s *Step) error {
	if s.Action == "" {
		return fmt.Errorf("steps[%d]: action is required", index)
	}

	switch s.Action {
	case string(ir.CommandTouch):
		hasXY := s.X != nil && s.Y != nil
		if hasXY == (s.Index != nil) {
			return fmt.Errorf("steps[%d]: touch needs either x and y or index", index)
		}
		if s.Index == nil && (s.X == nil) != (s.Y == nil) {
			return fmt.Errorf("steps[%d]: touch needs both x and y", index)
		}
	case ActionTrace:
		if len(s.Indices) == 0 {
			return fmt.Errorf("steps[%d]: indices list is required for trace", index)
		}
	case string(ir.CommandSetPattern):
		if s.Token == nil {
			return fmt.Errorf("steps[%d]: token is required for set_pattern", index)
		}
	case string(ir.CommandShowHint):
		if s.Visible == nil {
			return fmt.Errorf("steps[%d]: visible is required for show_hint", index)
		}
	default:
		if !ir.CommandKind(s.Action).Valid() {
			return fmt.Errorf("steps[%d]: unknown action %q", index, s.Action)
		}
	}

	if e := s.Expect; e != nil && e.Case == "" && e.Unlocked == nil && e.Mode == "" {
		return fmt.Errorf("steps[%d].expect: case, unlocked or mode is required", index)
	}

	return nil
}

func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertSavedPattern:
		if a.Token == nil && a.Indices == nil {
			return fmt.Errorf("assertions[%d]: token or indices is required for saved_pattern", index)
		}
	case AssertAttempt:
		// Missing indices means an empty attempt.
	case AssertMode:
		if a.Mode == "" {
			return fmt.Errorf("assertions[%d]: mode is required for mode", index)
		}
	case AssertCallbacks:
		if a.Successes == nil && a.Failures == nil {
			return fmt.Errorf("assertions[%d]: successes or failures is required for callbacks", index)
		}
	case AssertStepCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for step_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
