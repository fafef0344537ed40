package pattern

import (
	"log/slog"
)

// Engine is the pattern lock state machine.
//
// It owns the saved pattern and the current attempt and decides which of
// the two receives a touched point:
//
//	ModeIdle ──touch──▶ ModeAttempting ──unlock ok──▶ ModeIdle
//	                         │
//	                    unlock fails
//	                         ▼
//	                    ModeRejected ──touch (clears stale attempt)──▶ ModeAttempting
//
//	any ──StartRecording──▶ ModeRecording ──StopRecording──▶ ModeIdle
//
// Thread-safety: none. All methods must be called from the goroutine that
// owns the Engine (see package documentation).
type Engine struct {
	grid     *Grid
	recorder Recorder
	attempt  Attempt
	mode     Mode
	hint     bool

	onSuccess func()
	onFailure func()
	observer  Observer
	logger    *slog.Logger

	initialPattern string
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithOnSuccess sets the callback invoked when Unlock succeeds.
func WithOnSuccess(fn func()) EngineOption {
	return func(e *Engine) {
		e.onSuccess = fn
	}
}

// WithOnFailure sets the callback invoked when Unlock fails.
func WithOnFailure(fn func()) EngineOption {
	return func(e *Engine) {
		e.onFailure = fn
	}
}

// WithObserver sets the receiver of drawing feedback.
func WithObserver(o Observer) EngineOption {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithPattern preloads a saved pattern from its token.
func WithPattern(token string) EngineOption {
	return func(e *Engine) {
		e.initialPattern = token
	}
}

// WithHint sets the initial hint visibility.
func WithHint(visible bool) EngineOption {
	return func(e *Engine) {
		e.hint = visible
	}
}

// New creates an idle Engine over grid. grid must not be nil.
func New(grid *Grid, opts ...EngineOption) *Engine {
	if grid == nil {
		panic("pattern: New called with nil grid")
	}

	e := &Engine{
		grid:     grid,
		mode:     ModeIdle,
		observer: NopObserver{},
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.initialPattern != "" {
		e.SetPattern(e.initialPattern)
	}

	return e
}

// Grid returns the grid the Engine resolves touches against.
func (e *Engine) Grid() *Grid { return e.grid }

// Mode returns the current state.
func (e *Engine) Mode() Mode { return e.mode }

// ClearPending reports whether the next touch discards the current attempt.
func (e *Engine) ClearPending() bool { return e.mode == ModeRejected }

// SavedPattern returns the saved pattern. Once recording stops this is the
// finalized sequence the hint is built from.
func (e *Engine) SavedPattern() Sequence { return e.recorder.Sequence() }

// Attempt returns the current attempt.
func (e *Engine) Attempt() Sequence { return e.attempt.Sequence() }

// Serialize returns the saved pattern as a token.
func (e *Engine) Serialize() string { return e.recorder.Serialize() }

// HintVisible reports whether the hint is shown.
func (e *Engine) HintVisible() bool { return e.hint }

// Touch handles a raw pointer position. Positions that are not exactly a
// grid point are ignored.
func (e *Engine) Touch(x, y int) (Point, Selection) {
	p, ok := e.grid.PointAt(x, y)
	if !ok {
		e.logger.Debug("touch missed grid", "x", x, "y", y, "mode", e.mode)
		return Point{}, Missed
	}
	return p, e.selectPoint(p)
}

func (e *Engine) selectPoint(p Point) Selection {
	var added bool

	switch e.mode {
	case ModeRecording:
		added = e.recorder.Record(p)

	case ModeRejected:
		e.clearAttempt()
		added = e.attempt.Select(p)
		e.mode = ModeAttempting

	default:
		added = e.attempt.Select(p)
		e.mode = ModeAttempting
	}

	if !added {
		e.logger.Debug("point already selected", "index", p.Index, "mode", e.mode)
		return Duplicate
	}

	e.logger.Debug("point selected", "index", p.Index, "mode", e.mode)
	e.observer.PointSelected(p, e.mode)
	return Selected
}

// Unlock compares the current attempt with the saved pattern.
//
// The comparison is ordered and index-exact. On a match the success
// callback runs and the attempt is cleared. On a mismatch the failure
// callback runs and the Engine enters ModeRejected, keeping the stale
// attempt until the next touch.
//
// An empty attempt is a failure that leaves the state untouched. The
// attempt is always empty while recording, so Unlock then fails without
// leaving ModeRecording.
func (e *Engine) Unlock() bool {
	if e.mode == ModeRecording || e.attempt.Len() == 0 {
		e.logger.Debug("unlock with empty attempt")
		fire(e.onFailure)
		return false
	}

	if e.attempt.current.Equal(e.recorder.saved) {
		e.logger.Debug("unlock succeeded", "length", e.attempt.Len())
		fire(e.onSuccess)
		e.clearAttempt()
		return true
	}

	e.logger.Debug("unlock failed",
		"attempt_length", e.attempt.Len(),
		"saved_length", e.recorder.saved.Len(),
	)
	e.mode = ModeRejected
	fire(e.onFailure)
	return false
}

// Complete signals the end of a trace (pointer up / touch end).
// Outside recording it unlocks; evaluated is false when nothing was checked.
func (e *Engine) Complete() (unlocked, evaluated bool) {
	if e.mode == ModeRecording {
		return false, false
	}
	return e.Unlock(), true
}

// StartRecording discards the attempt and the saved pattern and starts
// recording a new one.
func (e *Engine) StartRecording() {
	e.clearAttempt()
	e.recorder.Clear()
	e.mode = ModeRecording
	e.observer.HintChanged(Sequence{})
	e.logger.Debug("recording started")
}

// StopRecording finalizes the saved pattern and rebuilds the hint from it.
func (e *Engine) StopRecording() {
	e.mode = ModeIdle
	e.clearAttempt()
	e.observer.HintChanged(e.recorder.Sequence())
	e.logger.Debug("recording stopped", "points", e.recorder.saved.Len())
}

// Reset discards the attempt and the saved pattern.
func (e *Engine) Reset() {
	e.reset()
	e.observer.HintChanged(Sequence{})
}

func (e *Engine) reset() {
	e.mode = ModeIdle
	e.clearAttempt()
	e.recorder.Clear()
	e.logger.Debug("engine reset")
}

// ClearAttempt discards the current attempt only.
func (e *Engine) ClearAttempt() {
	e.clearAttempt()
}

func (e *Engine) clearAttempt() {
	e.attempt.Reset()
	if e.mode != ModeRecording {
		e.mode = ModeIdle
	}
	e.observer.AttemptCleared()
}

// SetPattern resets the Engine and loads the saved pattern from token.
// Unusable parts of the token are dropped; see Deserialize.
func (e *Engine) SetPattern(token string) Sequence {
	e.reset()
	seq := Deserialize(token, e.grid)
	e.recorder.Load(seq)
	e.observer.HintChanged(e.recorder.Sequence())
	e.logger.Debug("pattern loaded", "points", seq.Len())
	return seq
}

// ShowHint shows or hides the hint.
func (e *Engine) ShowHint(visible bool) {
	e.hint = visible
	e.observer.HintVisibilityChanged(visible)
}

func fire(fn func()) {
	if fn != nil {
		fn()
	}
}
