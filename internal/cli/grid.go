package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/patternlock/internal/pattern"
)

// GridFlags selects a grid from a config file and/or explicit flags.
// Flags set on the command line override the config file.
type GridFlags struct {
	Config string
	Width  int
	Height int
	Rows   int
	Cols   int
}

func (g *GridFlags) register(cmd *cobra.Command) {
	d := DefaultLockConfig()
	cmd.Flags().StringVar(&g.Config, "config", "", "CUE lock config file")
	cmd.Flags().IntVar(&g.Width, "width", d.Width, "viewport width")
	cmd.Flags().IntVar(&g.Height, "height", d.Height, "viewport height")
	cmd.Flags().IntVar(&g.Rows, "rows", d.Rows, "grid rows")
	cmd.Flags().IntVar(&g.Cols, "cols", d.Cols, "grid columns")
}

// resolve returns the effective lock config and its grid.
func (g *GridFlags) resolve(cmd *cobra.Command) (LockConfig, *pattern.Grid, error) {
	cfg := DefaultLockConfig()
	if g.Config != "" {
		loaded, err := LoadLockConfig(g.Config)
		if err != nil {
			return LockConfig{}, nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = g.Width
	}
	if flags.Changed("height") {
		cfg.Height = g.Height
	}
	if flags.Changed("rows") {
		cfg.Rows = g.Rows
	}
	if flags.Changed("cols") {
		cfg.Cols = g.Cols
	}

	grid, err := cfg.Grid()
	if err != nil {
		return LockConfig{}, nil, &LoadError{Code: ErrCodeGrid, Message: err.Error()}
	}
	return cfg, grid, nil
}

// GridPoint is one point in grid output.
type GridPoint struct {
	Index  int `json:"index"`
	Number int `json:"number"`
	X      int `json:"x"`
	Y      int `json:"y"`
}

// GridResult is the output of the grid command.
type GridResult struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Rows   int         `json:"rows"`
	Cols   int         `json:"cols"`
	Points []GridPoint `json:"points"`
}

func (r GridResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Grid %dx%d, viewport %dx%d\n", r.Rows, r.Cols, r.Width, r.Height)
	for _, p := range r.Points {
		fmt.Fprintf(&b, "  %2d  (%d, %d)\n", p.Number, p.X, p.Y)
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewGridCommand creates the grid command.
func NewGridCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &GridFlags{}

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print the point coordinates of a grid",
		Long: `Print every point of the grid for a viewport: its 1-based number and
the exact coordinates a touch must hit.

Examples:
  patternlock grid
  patternlock grid --width 300 --height 600
  patternlock grid --config lock.cue --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrid(rootOpts, flags, cmd)
		},
	}
	flags.register(cmd)

	return cmd
}

func runGrid(opts *RootOptions, flags *GridFlags, cmd *cobra.Command) error {
	out := newFormatter(opts, cmd)

	cfg, grid, err := flags.resolve(cmd)
	if err != nil {
		return configError(out, err)
	}

	return out.Success(gridResult(cfg, grid))
}

func gridResult(cfg LockConfig, grid *pattern.Grid) GridResult {
	points := grid.Points()
	result := GridResult{
		Width:  cfg.Width,
		Height: cfg.Height,
		Rows:   cfg.Rows,
		Cols:   cfg.Cols,
		Points: make([]GridPoint, len(points)),
	}
	for i, p := range points {
		result.Points[i] = GridPoint{Index: p.Index, Number: p.Number(), X: p.X, Y: p.Y}
	}
	return result
}

// configError reports a config or grid error and maps it to ExitCommandError.
func configError(out *OutputFormatter, err error) error {
	code := ErrCodeGeneric
	var le *LoadError
	if errors.As(err, &le) {
		code = le.Code
	}
	_ = out.Error(code, err.Error(), nil)
	return WrapExitError(ExitCommandError, "invalid grid configuration", err)
}
