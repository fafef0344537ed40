package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			if event.Type == EventOutcome {
				fmt.Fprintf(&buf, "  [%d] %s -> %s (%s)\n", event.Seq, event.Kind, event.Case, event.Mode)
			}
		}
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against result and returns
// one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %s", i, err.Error()))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertSavedPattern:
		return assertSavedPattern(result, a)
	case AssertAttempt:
		return assertAttempt(result, a)
	case AssertMode:
		return assertMode(result, a)
	case AssertCallbacks:
		return assertCallbacks(result, a)
	case AssertStepCount:
		return assertStepCount(result, a)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

func assertSavedPattern(result *Result, a Assertion) error {
	if a.Token != nil && *a.Token != result.Token {
		return &AssertionError{
			Type:     AssertSavedPattern,
			Expected: fmt.Sprintf("token %q", *a.Token),
			Actual:   fmt.Sprintf("token %q", result.Token),
			Trace:    result.Trace,
		}
	}
	if a.Indices != nil && !slices.Equal(a.Indices, result.State.SavedPattern) {
		return &AssertionError{
			Type:     AssertSavedPattern,
			Expected: fmt.Sprintf("indices %v", a.Indices),
			Actual:   fmt.Sprintf("indices %v", result.State.SavedPattern),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertAttempt(result *Result, a Assertion) error {
	// nil and empty both mean "no attempt".
	if len(a.Indices) == 0 && len(result.State.Attempt) == 0 {
		return nil
	}
	if !slices.Equal(a.Indices, result.State.Attempt) {
		return &AssertionError{
			Type:     AssertAttempt,
			Expected: fmt.Sprintf("indices %v", a.Indices),
			Actual:   fmt.Sprintf("indices %v", result.State.Attempt),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertMode(result *Result, a Assertion) error {
	if a.Mode != result.State.Mode {
		return &AssertionError{
			Type:     AssertMode,
			Expected: a.Mode,
			Actual:   result.State.Mode,
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertCallbacks(result *Result, a Assertion) error {
	var want, got []string
	if a.Successes != nil && *a.Successes != result.State.Successes {
		want = append(want, fmt.Sprintf("successes=%d", *a.Successes))
		got = append(got, fmt.Sprintf("successes=%d", result.State.Successes))
	}
	if a.Failures != nil && *a.Failures != result.State.Failures {
		want = append(want, fmt.Sprintf("failures=%d", *a.Failures))
		got = append(got, fmt.Sprintf("failures=%d", result.State.Failures))
	}
	if len(want) > 0 {
		return &AssertionError{
			Type:     AssertCallbacks,
			Expected: strings.Join(want, " "),
			Actual:   strings.Join(got, " "),
		}
	}
	return nil
}

func assertStepCount(result *Result, a Assertion) error {
	count := 0
	for _, ev := range result.Outcomes() {
		if a.Action != "" && ev.Kind != a.Action {
			continue
		}
		if a.Case != "" && ev.Case != a.Case {
			continue
		}
		count++
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertStepCount,
			Expected: fmt.Sprintf("%d outcomes (action=%q case=%q)", a.Count, a.Action, a.Case),
			Actual:   fmt.Sprintf("%d outcomes", count),
			Trace:    result.Trace,
		}
	}
	return nil
}
