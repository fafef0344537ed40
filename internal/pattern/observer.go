package pattern

// Observer receives drawing feedback from an Engine.
//
// Calls are made synchronously while the Engine is mid-transition. They are
// fire-and-forget: the Engine never waits for rendering, and an Observer
// must not call back into the Engine.
type Observer interface {
	// PointSelected is called when a point joins the attempt or, in
	// ModeRecording, the saved pattern.
	PointSelected(p Point, mode Mode)

	// AttemptCleared is called when the current attempt is discarded.
	AttemptCleared()

	// HintChanged is called with the finalized saved pattern whenever the
	// hint must be rebuilt. An empty sequence removes the hint.
	HintChanged(hint Sequence)

	// HintVisibilityChanged is called when the hint is shown or hidden.
	HintVisibilityChanged(visible bool)
}

// NopObserver ignores all feedback.
type NopObserver struct{}

func (NopObserver) PointSelected(Point, Mode)  {}
func (NopObserver) AttemptCleared()            {}
func (NopObserver) HintChanged(Sequence)       {}
func (NopObserver) HintVisibilityChanged(bool) {}

// ObserverFuncs adapts optional functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnPointSelected         func(p Point, mode Mode)
	OnAttemptCleared        func()
	OnHintChanged           func(hint Sequence)
	OnHintVisibilityChanged func(visible bool)
}

func (f ObserverFuncs) PointSelected(p Point, mode Mode) {
	if f.OnPointSelected != nil {
		f.OnPointSelected(p, mode)
	}
}

func (f ObserverFuncs) AttemptCleared() {
	if f.OnAttemptCleared != nil {
		f.OnAttemptCleared()
	}
}

func (f ObserverFuncs) HintChanged(hint Sequence) {
	if f.OnHintChanged != nil {
		f.OnHintChanged(hint)
	}
}

func (f ObserverFuncs) HintVisibilityChanged(visible bool) {
	if f.OnHintVisibilityChanged != nil {
		f.OnHintVisibilityChanged(visible)
	}
}
