package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/patternlock/internal/pattern"
)

// ParseResult is the output of the parse command.
type ParseResult struct {
	Token      string `json:"token"`
	Normalized string `json:"normalized"`
	Indices    []int  `json:"indices"`
	Points     int    `json:"points"`
	Canonical  bool   `json:"canonical"` // token was already in normalized form
}

func (r ParseResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Token:      %q\n", r.Token)
	fmt.Fprintf(&b, "Normalized: %q\n", r.Normalized)
	fmt.Fprintf(&b, "Indices:    %v\n", r.Indices)
	if !r.Canonical {
		b.WriteString("Note: token was rewritten; unusable or repeated parts were dropped")
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &GridFlags{}

	cmd := &cobra.Command{
		Use:   "parse <token>",
		Short: "Decode a pattern token against a grid",
		Long: `Decode a pattern token and print the points it names.

Point numbers may be separated by '-', '#', '|', '_', ',', ';' or spaces.
Parts that are not numbers, name no point, or repeat a point are dropped.

Exit codes:
  0 - Token names at least one point
  1 - Token names no point
  2 - Command error (bad grid, config not found)

Examples:
  patternlock parse 1-5-9
  patternlock parse "3#2#1" --format json
  patternlock parse 1-16 --rows 4 --cols 4`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, flags, args[0], cmd)
		},
	}
	flags.register(cmd)

	return cmd
}

func runParse(opts *RootOptions, flags *GridFlags, token string, cmd *cobra.Command) error {
	out := newFormatter(opts, cmd)

	_, grid, err := flags.resolve(cmd)
	if err != nil {
		return configError(out, err)
	}

	result := parseToken(token, grid)
	if result.Points == 0 {
		_ = out.Failure(ErrCodeInvalidToken, "token names no point of the grid", result)
		return NewExitError(ExitFailure, fmt.Sprintf("token %q names no point", token))
	}
	return out.Success(result)
}

func parseToken(token string, grid *pattern.Grid) ParseResult {
	seq := pattern.Deserialize(token, grid)
	normalized := pattern.Serialize(seq)
	return ParseResult{
		Token:      token,
		Normalized: normalized,
		Indices:    seq.Indices(),
		Points:     seq.Len(),
		Canonical:  normalized == token,
	}
}
