package pattern

import "fmt"

// Mode is the state of an Engine.
type Mode int

const (
	// ModeIdle is the resting state. The next touch starts an attempt.
	ModeIdle Mode = iota

	// ModeAttempting means an attempt is being traced.
	ModeAttempting

	// ModeRejected is idle after a failed unlock. The stale attempt is kept
	// for display and is discarded by the next touch.
	ModeRejected

	// ModeRecording means touches populate the saved pattern.
	ModeRecording
)

var modeNames = map[Mode]string{
	ModeIdle:       "idle",
	ModeAttempting: "attempting",
	ModeRejected:   "rejected",
	ModeRecording:  "recording",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return ModeIdle, fmt.Errorf("unknown mode %q", s)
}

// Selection is the result of touching the grid.
type Selection int

const (
	// Missed means the touch did not land on a point.
	Missed Selection = iota

	// Duplicate means the point was already in the receiving sequence.
	Duplicate

	// Selected means the point was appended.
	Selected
)

func (s Selection) String() string {
	switch s {
	case Missed:
		return "missed"
	case Duplicate:
		return "duplicate"
	case Selected:
		return "selected"
	default:
		return fmt.Sprintf("selection(%d)", int(s))
	}
}
