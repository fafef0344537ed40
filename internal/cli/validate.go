package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ValidationIssue is one problem found in a config file.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Config   *LockConfig       `json:"config,omitempty"`
	Points   int               `json:"points,omitempty"`
	Warnings []ValidationIssue `json:"warnings,omitempty"`
	Errors   []ValidationIssue `json:"errors,omitempty"`
}

func (r ValidationResult) String() string {
	var b strings.Builder
	if r.Valid {
		c := r.Config
		fmt.Fprintf(&b, "✓ Config valid: %dx%d grid (%d points), viewport %dx%d\n",
			c.Rows, c.Cols, r.Points, c.Width, c.Height)
		if c.Pattern != "" {
			fmt.Fprintf(&b, "  Pattern: %q\n", c.Pattern)
		}
		fmt.Fprintf(&b, "  Hint: %t\n", c.Hint)
	} else {
		b.WriteString("✗ Config invalid\n")
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "  warning [%s]: %s\n", w.Code, w.Message)
	}
	for _, e := range r.Errors {
		if e.Line > 0 {
			fmt.Fprintf(&b, "  error [%s] line %d: %s\n", e.Code, e.Line, e.Message)
		} else {
			fmt.Fprintf(&b, "  error [%s]: %s\n", e.Code, e.Message)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config.cue>",
		Short: "Validate a lock config file",
		Long: `Validate a CUE lock config against the lock schema.

A config holds one lock struct; omitted fields take their defaults:

  lock: {
      width:   400
      height:  400
      rows:    3
      cols:    3
      pattern: "1-5-9"
      hint:    false
  }

The grid must fit the viewport. A pattern that names points outside the
grid, or repeats points, is reported as a warning.

Exit codes:
  0 - Config valid
  1 - Config invalid
  2 - Command error (file not found)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	out := newFormatter(opts, cmd)

	cfg, err := LoadLockConfig(path)
	if err != nil {
		var le *LoadError
		if !errors.As(err, &le) {
			le = &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
		}
		if le.Code == ErrCodeNotFound || le.Code == ErrCodeReadFailed {
			_ = out.Error(le.Code, le.Message, nil)
			return WrapExitError(ExitCommandError, "cannot read config", err)
		}

		issue := ValidationIssue{Code: le.Code, Message: le.Message}
		if le.Pos.IsValid() {
			issue.Line = le.Pos.Line()
		}
		result := ValidationResult{Valid: false, Errors: []ValidationIssue{issue}}
		_ = out.Failure(le.Code, "config invalid", result)
		return WrapExitError(ExitFailure, "config invalid", err)
	}

	out.VerboseLog("Loaded lock config from %s", path)

	grid, _ := cfg.Grid() // validated by LoadLockConfig
	result := ValidationResult{
		Valid:  true,
		Config: &cfg,
		Points: grid.Len(),
	}

	if cfg.Pattern != "" {
		parsed := parseToken(cfg.Pattern, grid)
		switch {
		case parsed.Points == 0:
			result.Warnings = append(result.Warnings, ValidationIssue{
				Code:    ErrCodeInvalidToken,
				Message: fmt.Sprintf("pattern %q names no point; the lock will never unlock", cfg.Pattern),
			})
		case !parsed.Canonical:
			result.Warnings = append(result.Warnings, ValidationIssue{
				Code:    ErrCodeInvalidToken,
				Message: fmt.Sprintf("pattern %q loads as %q", cfg.Pattern, parsed.Normalized),
			})
		}
	}

	return out.Success(result)
}
