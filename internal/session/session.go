package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/patternlock/internal/ir"
	"github.com/roach88/patternlock/internal/pattern"
)

// Journal persists applied commands. Implemented by *store.Store.
type Journal interface {
	WriteSession(ctx context.Context, sess ir.Session) error
	WriteEntry(ctx context.Context, entry ir.JournalEntry) error
}

// Session is the single-writer command loop around one pattern.Engine.
//
// Thread-safety model:
//   - Enqueue(), Stop(), QueueLen(): safe from any goroutine
//   - Run(), Apply(), State(): must be called from exactly one goroutine
type Session struct {
	id      string
	grid    *pattern.Grid
	engine  *pattern.Engine
	journal Journal
	clock   Sequencer
	queue   *commandQueue
	logger  *slog.Logger

	observer  pattern.Observer
	onEntry   func(ir.JournalEntry)
	onSuccess func()
	onFailure func()

	successes int
	failures  int
	started   bool
}

// Option configures a Session.
type Option func(*Session)

// WithJournal journals every applied command and its outcome.
func WithJournal(j Journal) Option {
	return func(s *Session) {
		s.journal = j
	}
}

// WithClock replaces the session's logical clock.
func WithClock(c Sequencer) Option {
	return func(s *Session) {
		s.clock = c
	}
}

// WithLogger sets the logger for the session and its engine.
// Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver forwards engine feedback (selected points, cleared
// attempts, hint changes) to o.
func WithObserver(o pattern.Observer) Option {
	return func(s *Session) {
		s.observer = o
	}
}

// WithEntryHandler is called after each command is applied and journaled.
// It runs on the goroutine that applied the command.
func WithEntryHandler(fn func(ir.JournalEntry)) Option {
	return func(s *Session) {
		s.onEntry = fn
	}
}

// WithCallbacks sets the unlock success and failure callbacks.
func WithCallbacks(onSuccess, onFailure func()) Option {
	return func(s *Session) {
		s.onSuccess = onSuccess
		s.onFailure = onFailure
	}
}

// New creates a Session for grid. The session ID comes from ids.
// Panics if grid is nil.
func New(grid *pattern.Grid, ids IDGenerator, opts ...Option) *Session {
	s := &Session{
		id:       ids.Generate(),
		grid:     grid,
		clock:    NewClock(),
		queue:    newCommandQueue(),
		logger:   slog.Default(),
		observer: pattern.NopObserver{},
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.With("session", s.id)
	s.engine = pattern.New(grid,
		pattern.WithLogger(s.logger),
		pattern.WithObserver(s.observer),
		pattern.WithOnSuccess(s.unlocked),
		pattern.WithOnFailure(s.rejected),
	)

	return s
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Info returns the session record written to the journal.
func (s *Session) Info() ir.Session {
	layout := s.grid.Layout()
	return ir.Session{
		ID:            s.id,
		Width:         s.grid.Width(),
		Height:        s.grid.Height(),
		Rows:          layout.Rows,
		Cols:          layout.Cols,
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}
}

// Clock returns the session's logical clock.
func (s *Session) Clock() Sequencer { return s.clock }

// Start writes the session record to the journal. Apply calls it on first
// use; calling it again is a no-op.
func (s *Session) Start(ctx context.Context) error {
	if s.started {
		return nil
	}
	if s.journal != nil {
		if err := s.journal.WriteSession(ctx, s.Info()); err != nil {
			return NewJournalError(s.id, 0, err)
		}
	}
	s.started = true
	s.logger.Info("session started",
		"width", s.grid.Width(),
		"height", s.grid.Height(),
		"layout", s.grid.Layout().String(),
	)
	return nil
}

// step is the result of executing one command against the engine.
type step struct {
	outputCase string
	index      int
}

// Apply validates cmd, stamps it with the next seq, executes it on the
// engine and journals the command together with its outcome.
//
// Commands rejected before execution (unknown kind, bad args) return an
// error and consume no seq. A journal failure is returned after the
// engine has already changed; the entry is still returned.
func (s *Session) Apply(ctx context.Context, cmd ir.Command) (ir.JournalEntry, error) {
	exec, err := s.prepare(cmd)
	if err != nil {
		return ir.JournalEntry{}, err
	}

	if err := s.Start(ctx); err != nil {
		return ir.JournalEntry{}, err
	}

	if cmd.Args == nil {
		cmd.Args = ir.Args{}
	}
	cmd.SessionID = s.id
	cmd.Seq = s.clock.Next()
	cmd.ID, err = ir.CommandID(s.id, cmd.Kind, cmd.Args, cmd.Seq)
	if err != nil {
		return ir.JournalEntry{}, fmt.Errorf("apply %s: %w", cmd.Kind, err)
	}

	res := exec()

	out := ir.Outcome{
		CommandID:   cmd.ID,
		Case:        res.outputCase,
		Mode:        s.engine.Mode().String(),
		Index:       res.index,
		SavedDigest: ir.PatternDigest(s.engine.Serialize()),
		AttemptLen:  s.engine.Attempt().Len(),
		Seq:         s.clock.Next(),
	}
	out.ID, err = ir.OutcomeID(cmd.ID, out.Case, out.Seq)
	if err != nil {
		return ir.JournalEntry{}, fmt.Errorf("apply %s: %w", cmd.Kind, err)
	}

	entry := ir.JournalEntry{Command: cmd, Outcome: out}

	s.logger.Debug("command applied",
		"kind", cmd.Kind,
		"seq", cmd.Seq,
		"case", out.Case,
		"mode", out.Mode,
	)

	if s.journal != nil {
		if err := s.journal.WriteEntry(ctx, entry); err != nil {
			return entry, NewJournalError(s.id, cmd.Seq, err)
		}
	}

	if s.onEntry != nil {
		s.onEntry(entry)
	}

	return entry, nil
}

// prepare checks the command and binds its arguments. The returned
// function performs the engine call.
func (s *Session) prepare(cmd ir.Command) (func() step, error) {
	if !cmd.Kind.Valid() {
		return nil, NewUnknownCommandError(s.id, string(cmd.Kind))
	}
	if cmd.Args != nil {
		if _, err := ir.MarshalCanonical(cmd.Args); err != nil {
			return nil, NewInvalidArgsError(s.id, string(cmd.Kind), err)
		}
	}

	ok := func() step { return step{outputCase: ir.CaseOK, index: -1} }

	switch cmd.Kind {
	case ir.CommandTouch:
		x, err := cmd.Args.Int("x")
		if err != nil {
			return nil, NewInvalidArgsError(s.id, string(cmd.Kind), err)
		}
		y, err := cmd.Args.Int("y")
		if err != nil {
			return nil, NewInvalidArgsError(s.id, string(cmd.Kind), err)
		}
		return func() step {
			p, sel := s.engine.Touch(x, y)
			switch sel {
			case pattern.Selected:
				return step{outputCase: ir.CaseSelected, index: p.Index}
			case pattern.Duplicate:
				return step{outputCase: ir.CaseDuplicate, index: p.Index}
			default:
				return step{outputCase: ir.CaseMissed, index: -1}
			}
		}, nil

	case ir.CommandUnlock:
		return func() step {
			return step{outputCase: unlockCase(s.engine.Unlock()), index: -1}
		}, nil

	case ir.CommandComplete:
		return func() step {
			unlocked, evaluated := s.engine.Complete()
			if !evaluated {
				return step{outputCase: ir.CaseIgnored, index: -1}
			}
			return step{outputCase: unlockCase(unlocked), index: -1}
		}, nil

	case ir.CommandStartRecording:
		return func() step { s.engine.StartRecording(); return ok() }, nil

	case ir.CommandStopRecording:
		return func() step { s.engine.StopRecording(); return ok() }, nil

	case ir.CommandReset:
		return func() step { s.engine.Reset(); return ok() }, nil

	case ir.CommandClearAttempt:
		return func() step { s.engine.ClearAttempt(); return ok() }, nil

	case ir.CommandSetPattern:
		token, err := cmd.Args.String("token")
		if err != nil {
			return nil, NewInvalidArgsError(s.id, string(cmd.Kind), err)
		}
		return func() step { s.engine.SetPattern(token); return ok() }, nil

	case ir.CommandShowHint:
		visible, err := cmd.Args.Bool("visible")
		if err != nil {
			return nil, NewInvalidArgsError(s.id, string(cmd.Kind), err)
		}
		return func() step { s.engine.ShowHint(visible); return ok() }, nil
	}

	return nil, NewUnknownCommandError(s.id, string(cmd.Kind))
}

func unlockCase(unlocked bool) string {
	if unlocked {
		return ir.CaseUnlocked
	}
	return ir.CaseRejected
}

func (s *Session) unlocked() {
	s.successes++
	if s.onSuccess != nil {
		s.onSuccess()
	}
}

func (s *Session) rejected() {
	s.failures++
	if s.onFailure != nil {
		s.onFailure()
	}
}

// Enqueue submits a command for the Run loop.
// Returns false if the session has been stopped.
func (s *Session) Enqueue(cmd ir.Command) bool {
	return s.queue.Enqueue(cmd)
}

// Run applies queued commands until ctx is cancelled or Stop is called.
// Commands already queued when Stop is called are still applied; once ctx
// is cancelled no further command is dequeued.
//
// A command that fails is logged and skipped; the loop keeps going so the
// journal stays a faithful record of what the engine actually saw.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("session loop starting")

	for {
		if err := ctx.Err(); err != nil {
			s.logger.Info("session loop stopping: context cancelled",
				"pending", s.queue.Len(),
			)
			s.queue.Close()
			return err
		}

		cmd, ok := s.queue.TryDequeue()
		if ok {
			if _, err := s.Apply(ctx, cmd); err != nil {
				s.logger.Error("command failed",
					"error", err,
					"kind", cmd.Kind,
				)
			}
			continue
		}

		select {
		case <-ctx.Done():
			s.logger.Info("session loop stopping: context cancelled")
			s.queue.Close()
			return ctx.Err()

		case <-s.queue.Wait():
			// A closed queue keeps signalling; stop once it is drained.
			if s.queue.Len() == 0 && s.queue.Closed() {
				s.logger.Info("session loop stopping: queue closed")
				return nil
			}
		}
	}
}

// Stop closes the queue. Run returns once the remaining commands are applied.
func (s *Session) Stop() {
	s.queue.Close()
}

// QueueLen returns the number of commands waiting for Run.
func (s *Session) QueueLen() int {
	return s.queue.Len()
}

// State is a read-only snapshot of the engine.
type State struct {
	Mode         string `json:"mode"`
	SavedPattern []int  `json:"saved_pattern"`
	Attempt      []int  `json:"attempt"`
	HintVisible  bool   `json:"hint_visible"`
	Successes    int    `json:"successes"`
	Failures     int    `json:"failures"`
	LastSeq      int64  `json:"last_seq"`
}

// State returns a snapshot of the engine. Call it from the goroutine that
// applies commands (or after Run has returned).
func (s *Session) State() State {
	return State{
		Mode:         s.engine.Mode().String(),
		SavedPattern: s.engine.SavedPattern().Indices(),
		Attempt:      s.engine.Attempt().Indices(),
		HintVisible:  s.engine.HintVisible(),
		Successes:    s.successes,
		Failures:     s.failures,
		LastSeq:      s.clock.Current(),
	}
}

// Token returns the saved pattern in token form.
func (s *Session) Token() string {
	return s.engine.Serialize()
}
