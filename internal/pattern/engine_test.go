package pattern

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// callbacks counts success/failure invocations.
type callbacks struct {
	success int
	failure int
}

func (c *callbacks) options() []EngineOption {
	return []EngineOption{
		WithOnSuccess(func() { c.success++ }),
		WithOnFailure(func() { c.failure++ }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
}

func newTestEngine(t *testing.T, opts ...EngineOption) (*Engine, *callbacks) {
	t.Helper()
	cb := &callbacks{}
	g, err := Build(400, 400)
	require.NoError(t, err)
	return New(g, append(cb.options(), opts...)...), cb
}

// touchIndex touches the exact coordinates of grid point i.
func touchIndex(t *testing.T, e *Engine, i int) Selection {
	t.Helper()
	p, err := e.Grid().IndexToPoint(i)
	require.NoError(t, err)
	got, sel := e.Touch(p.X, p.Y)
	if sel != Missed {
		require.Equal(t, p, got)
	}
	return sel
}

func touchAll(t *testing.T, e *Engine, indices ...int) {
	t.Helper()
	for _, i := range indices {
		touchIndex(t, e, i)
	}
}

func TestEngine_NewIsIdle(t *testing.T) {
	e, _ := newTestEngine(t)
	assert.Equal(t, ModeIdle, e.Mode())
	assert.False(t, e.ClearPending())
	assert.True(t, e.SavedPattern().IsEmpty())
	assert.True(t, e.Attempt().IsEmpty())
	assert.False(t, e.HintVisible())
}

func TestEngine_NewNilGridPanics(t *testing.T) {
	assert.Panics(t, func() { New(nil) })
}

func TestEngine_RecordSerializes(t *testing.T) {
	e, cb := newTestEngine(t)

	e.StartRecording()
	assert.Equal(t, ModeRecording, e.Mode())

	touchAll(t, e, 7, 4, 1)
	assert.True(t, e.Attempt().IsEmpty(), "recording does not populate the attempt")

	e.StopRecording()
	assert.Equal(t, ModeIdle, e.Mode())
	assert.Equal(t, "8-5-2", e.Serialize())
	assert.Equal(t, []int{7, 4, 1}, e.SavedPattern().Indices())
	assert.Zero(t, cb.success+cb.failure)
}

func TestEngine_RestoreAndUnlock(t *testing.T) {
	e, cb := newTestEngine(t)
	e.StartRecording()
	touchAll(t, e, 7, 4, 1)
	e.StopRecording()
	token := e.Serialize()

	e.Reset()
	assert.True(t, e.SavedPattern().IsEmpty())

	restored := e.SetPattern(token)
	assert.Equal(t, []int{7, 4, 1}, restored.Indices())
	assert.Equal(t, "8-5-2", e.Serialize())

	touchAll(t, e, 7, 4, 1)
	assert.Equal(t, ModeAttempting, e.Mode())

	assert.True(t, e.Unlock())
	assert.Equal(t, 1, cb.success)
	assert.Equal(t, 0, cb.failure)
	assert.Equal(t, ModeIdle, e.Mode())
	assert.True(t, e.Attempt().IsEmpty(), "successful unlock clears the attempt")
}

// The same points in another order fail; the next touch starts fresh.
func TestEngine_WrongOrderRejected(t *testing.T) {
	e, cb := newTestEngine(t, WithPattern("8-5-2"))

	touchAll(t, e, 4, 7, 1)
	assert.False(t, e.Unlock())
	assert.Equal(t, 0, cb.success)
	assert.Equal(t, 1, cb.failure)
	assert.Equal(t, ModeRejected, e.Mode())
	assert.True(t, e.ClearPending())
	assert.Equal(t, []int{4, 7, 1}, e.Attempt().Indices(), "stale attempt kept until next touch")

	assert.Equal(t, Selected, touchIndex(t, e, 7))
	assert.False(t, e.ClearPending())
	assert.Equal(t, ModeAttempting, e.Mode())
	assert.Equal(t, []int{7}, e.Attempt().Indices())

	touchAll(t, e, 4, 1)
	assert.True(t, e.Unlock())
	assert.Equal(t, 1, cb.success)
}

func TestEngine_RejectedMissDoesNotClear(t *testing.T) {
	e, _ := newTestEngine(t, WithPattern("1-2"))
	touchAll(t, e, 2, 1)
	require.False(t, e.Unlock())

	_, sel := e.Touch(1, 1)
	assert.Equal(t, Missed, sel)
	assert.True(t, e.ClearPending())
	assert.Equal(t, []int{2, 1}, e.Attempt().Indices())
}

func TestEngine_DuplicateTouchIsIdempotent(t *testing.T) {
	e, _ := newTestEngine(t)

	assert.Equal(t, Selected, touchIndex(t, e, 3))
	assert.Equal(t, Duplicate, touchIndex(t, e, 3))
	assert.Equal(t, 1, e.Attempt().Len())

	e.StartRecording()
	assert.Equal(t, Selected, touchIndex(t, e, 3))
	assert.Equal(t, Duplicate, touchIndex(t, e, 3))
	assert.Equal(t, 1, e.SavedPattern().Len())
}

func TestEngine_TouchMissIgnored(t *testing.T) {
	e, _ := newTestEngine(t)

	p, sel := e.Touch(68, 67)
	assert.Equal(t, Missed, sel)
	assert.Equal(t, Point{}, p)
	assert.Equal(t, ModeIdle, e.Mode())
	assert.True(t, e.Attempt().IsEmpty())
}

func TestEngine_UnlockWrongLength(t *testing.T) {
	e, cb := newTestEngine(t, WithPattern("1-2-3"))

	touchAll(t, e, 0, 1)
	assert.False(t, e.Unlock())

	touchAll(t, e, 0, 1, 2, 5)
	assert.False(t, e.Unlock())
	assert.Equal(t, 2, cb.failure)
}

func TestEngine_UnlockEmptyAttempt(t *testing.T) {
	e, cb := newTestEngine(t, WithPattern("1-2-3"))

	assert.False(t, e.Unlock())
	assert.Equal(t, 1, cb.failure)
	assert.Equal(t, ModeIdle, e.Mode(), "empty attempt does not set clear pending")
}

func TestEngine_UnlockEmptyAgainstEmpty(t *testing.T) {
	e, cb := newTestEngine(t)

	assert.False(t, e.Unlock(), "no pattern and no attempt never unlocks")
	assert.Equal(t, 0, cb.success)
	assert.Equal(t, 1, cb.failure)
}

func TestEngine_UnlockWhileRecording(t *testing.T) {
	obs := &recordingObserver{}
	e, cb := newTestEngine(t, WithObserver(obs))
	e.StartRecording()
	touchAll(t, e, 0, 1)
	selected, cleared := len(obs.modes), obs.cleared

	assert.False(t, e.Unlock())
	assert.Equal(t, ModeRecording, e.Mode(), "a failed unlock does not stop recording")
	assert.Equal(t, 0, cb.success)
	assert.Equal(t, 1, cb.failure)
	assert.Equal(t, 2, e.SavedPattern().Len())
	assert.True(t, e.Attempt().IsEmpty())
	assert.Len(t, obs.modes, selected)
	assert.Equal(t, cleared, obs.cleared)
}

func TestEngine_Complete(t *testing.T) {
	e, cb := newTestEngine(t, WithPattern("5-6"))

	touchAll(t, e, 4, 5)
	unlocked, evaluated := e.Complete()
	assert.True(t, evaluated)
	assert.True(t, unlocked)
	assert.Equal(t, 1, cb.success)

	e.StartRecording()
	touchAll(t, e, 0)
	unlocked, evaluated = e.Complete()
	assert.False(t, evaluated, "pointer up while recording is not an unlock")
	assert.False(t, unlocked)
	assert.Equal(t, ModeRecording, e.Mode())
}

func TestEngine_StartRecordingClearsEverything(t *testing.T) {
	e, _ := newTestEngine(t, WithPattern("1-2-3"))
	touchAll(t, e, 2, 1)
	require.False(t, e.Unlock())
	require.True(t, e.ClearPending())

	e.StartRecording()
	assert.Equal(t, ModeRecording, e.Mode())
	assert.False(t, e.ClearPending())
	assert.True(t, e.Attempt().IsEmpty())
	assert.True(t, e.SavedPattern().IsEmpty())

	// First touch while recording records, it does not clear anything.
	touchIndex(t, e, 8)
	assert.Equal(t, []int{8}, e.SavedPattern().Indices())
}

func TestEngine_Reset(t *testing.T) {
	e, _ := newTestEngine(t, WithPattern("1-2-3"))
	touchAll(t, e, 0)

	e.Reset()
	assert.Equal(t, ModeIdle, e.Mode())
	assert.True(t, e.Attempt().IsEmpty())
	assert.True(t, e.SavedPattern().IsEmpty())
	assert.Equal(t, "", e.Serialize())
}

func TestEngine_ClearAttempt(t *testing.T) {
	e, _ := newTestEngine(t, WithPattern("1-2-3"))
	touchAll(t, e, 0, 1)

	e.ClearAttempt()
	assert.Equal(t, ModeIdle, e.Mode())
	assert.True(t, e.Attempt().IsEmpty())
	assert.Equal(t, "1-2-3", e.Serialize(), "saved pattern untouched")

	e.StartRecording()
	e.ClearAttempt()
	assert.Equal(t, ModeRecording, e.Mode(), "clearing the attempt does not stop recording")
}

func TestEngine_SetPatternTolerant(t *testing.T) {
	e, _ := newTestEngine(t)
	touchAll(t, e, 0)

	seq := e.SetPattern("1-x-3")
	assert.Equal(t, []int{0, 2}, seq.Indices())
	assert.True(t, e.Attempt().IsEmpty(), "SetPattern resets the attempt")

	seq = e.SetPattern("garbage")
	assert.True(t, seq.IsEmpty())
	assert.Equal(t, "", e.Serialize())
}

func TestEngine_ShowHint(t *testing.T) {
	e, _ := newTestEngine(t, WithHint(true))
	assert.True(t, e.HintVisible())

	e.ShowHint(false)
	assert.False(t, e.HintVisible())
}

func TestEngine_ViewsAreCopies(t *testing.T) {
	e, _ := newTestEngine(t, WithPattern("1-2"))
	saved := e.SavedPattern()
	saved.Add(Point{Index: 8, X: 333, Y: 333})
	assert.Equal(t, "1-2", e.Serialize())
}

type recordingObserver struct {
	selected []Point
	modes    []Mode
	cleared  int
	hints    [][]int
	visible  []bool
}

func (o *recordingObserver) PointSelected(p Point, m Mode) {
	o.selected = append(o.selected, p)
	o.modes = append(o.modes, m)
}
func (o *recordingObserver) AttemptCleared()           { o.cleared++ }
func (o *recordingObserver) HintChanged(h Sequence)    { o.hints = append(o.hints, h.Indices()) }
func (o *recordingObserver) HintVisibilityChanged(v bool) { o.visible = append(o.visible, v) }

func TestEngine_ObserverFeedback(t *testing.T) {
	obs := &recordingObserver{}
	e, _ := newTestEngine(t, WithObserver(obs))

	e.StartRecording()
	touchAll(t, e, 0, 0, 4)
	e.StopRecording()

	require.Len(t, obs.selected, 2, "duplicates are not drawn")
	assert.Equal(t, []Mode{ModeRecording, ModeRecording}, obs.modes)
	assert.Equal(t, [][]int{{}, {0, 4}}, obs.hints, "start clears hint, stop rebuilds it")

	touchAll(t, e, 4)
	assert.Equal(t, ModeAttempting, obs.modes[len(obs.modes)-1])

	e.ShowHint(true)
	assert.Equal(t, []bool{true}, obs.visible)
	assert.Positive(t, obs.cleared)
}

func TestEngine_EmptyUnlockHasNoDrawSideEffects(t *testing.T) {
	obs := &recordingObserver{}
	e, _ := newTestEngine(t, WithPattern("1-2"), WithObserver(obs))
	before := *obs

	e.Unlock()
	assert.Equal(t, before.cleared, obs.cleared)
	assert.Equal(t, before.selected, obs.selected)
	assert.Equal(t, before.hints, obs.hints)
}

func TestObserverFuncs_NilSafe(t *testing.T) {
	var o Observer = ObserverFuncs{}
	assert.NotPanics(t, func() {
		o.PointSelected(Point{}, ModeIdle)
		o.AttemptCleared()
		o.HintChanged(Sequence{})
		o.HintVisibilityChanged(true)
	})
}

func TestMode_StringRoundTrip(t *testing.T) {
	for _, m := range []Mode{ModeIdle, ModeAttempting, ModeRejected, ModeRecording} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("sleeping")
	assert.Error(t, err)
	assert.Equal(t, "mode(42)", Mode(42).String())
}
