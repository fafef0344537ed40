package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/patternlock/internal/ir"
	"github.com/roach88/patternlock/internal/session"
	"github.com/roach88/patternlock/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	GridFlags
	Database  string
	SessionID string

	// IDGenerator overrides session ID generation (for testing).
	// If nil, SessionID or a UUIDv7 is used.
	IDGenerator session.IDGenerator
}

// RunResult is the output of the run command.
type RunResult struct {
	SessionID string        `json:"session_id"`
	Commands  int           `json:"commands"`
	Applied   int           `json:"applied"`
	Skipped   int           `json:"skipped"`
	Token     string        `json:"token"`
	State     session.State `json:"state"`
}

func (r RunResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\n", r.SessionID)
	fmt.Fprintf(&b, "Commands: %d applied, %d skipped\n", r.Applied, r.Skipped)
	fmt.Fprintf(&b, "Mode: %s\n", r.State.Mode)
	fmt.Fprintf(&b, "Saved pattern: %q\n", r.Token)
	fmt.Fprintf(&b, "Attempt: %v\n", r.State.Attempt)
	fmt.Fprintf(&b, "Unlocks: %d succeeded, %d failed", r.State.Successes, r.State.Failures)
	return b.String()
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Run a session script and journal it",
		Long: `Run a session script through the single-writer session loop, journaling
every command and its outcome to a SQLite database (created if missing).

With --config, the configured pattern and hint are applied before the
script. Interrupting the command stops the loop after the current command.

Example:
  patternlock run --db ./lock.db ./session.yaml
  patternlock run --db ./lock.db --config lock.cue --session demo ./session.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(opts, args[0], cmd)
		},
	}

	opts.GridFlags.register(cmd)
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.SessionID, "session", "", "session ID (default: new UUIDv7)")

	return cmd
}

func runSession(opts *RunOptions, scriptPath string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	cfg, grid, err := opts.GridFlags.resolve(cmd)
	if err != nil {
		return configError(out, err)
	}

	script, err := LoadScript(scriptPath)
	if err != nil {
		_ = out.Error(ErrCodeScript, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid script", err)
	}
	cmds, err := script.Build(grid)
	if err != nil {
		_ = out.Error(ErrCodeScript, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid script", err)
	}

	var prelude []ir.Command
	if cfg.Pattern != "" {
		prelude = append(prelude, ir.NewSetPattern(cfg.Pattern))
	}
	if cfg.Hint {
		prelude = append(prelude, ir.NewShowHint(true))
	}
	cmds = append(prelude, cmds...)

	logger.Info("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database)
	if err != nil {
		_ = out.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	ids := opts.IDGenerator
	switch {
	case ids != nil:
	case opts.SessionID != "":
		ids = session.NewFixedGenerator(opts.SessionID)
	default:
		ids = session.UUIDv7Generator{}
	}

	applied := 0
	sess := session.New(grid, ids,
		session.WithJournal(st),
		session.WithLogger(logger),
		session.WithEntryHandler(func(ir.JournalEntry) { applied++ }),
	)

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := sess.Start(ctx); err != nil {
		_ = out.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to start session", err)
	}

	for _, c := range cmds {
		sess.Enqueue(c)
	}
	sess.Stop()

	if err := sess.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return WrapExitError(ExitFailure, "session error", err)
	}

	return out.Success(RunResult{
		SessionID: sess.ID(),
		Commands:  len(cmds),
		Applied:   applied,
		Skipped:   len(cmds) - applied,
		Token:     sess.Token(),
		State:     sess.State(),
	})
}
