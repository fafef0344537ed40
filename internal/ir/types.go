package ir

import (
	"fmt"
	"math"
)

// CommandKind names an input the engine accepts.
type CommandKind string

const (
	// CommandTouch is a raw pointer position. Args: x, y.
	CommandTouch CommandKind = "touch"

	// CommandStartRecording begins recording a new saved pattern.
	CommandStartRecording CommandKind = "start_recording"

	// CommandStopRecording finalizes the saved pattern.
	CommandStopRecording CommandKind = "stop_recording"

	// CommandUnlock compares the attempt with the saved pattern.
	CommandUnlock CommandKind = "unlock"

	// CommandComplete is pointer up / touch end.
	CommandComplete CommandKind = "complete"

	// CommandReset discards the attempt and the saved pattern.
	CommandReset CommandKind = "reset"

	// CommandClearAttempt discards the attempt only.
	CommandClearAttempt CommandKind = "clear_attempt"

	// CommandSetPattern loads a saved pattern from a token. Args: token.
	CommandSetPattern CommandKind = "set_pattern"

	// CommandShowHint shows or hides the hint. Args: visible.
	CommandShowHint CommandKind = "show_hint"
)

// CommandKinds lists every kind in declaration order.
var CommandKinds = []CommandKind{
	CommandTouch,
	CommandStartRecording,
	CommandStopRecording,
	CommandUnlock,
	CommandComplete,
	CommandReset,
	CommandClearAttempt,
	CommandSetPattern,
	CommandShowHint,
}

// Valid reports whether k is a known command kind.
func (k CommandKind) Valid() bool {
	for _, known := range CommandKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Output cases recorded for each applied command.
const (
	CaseOK        = "ok"        // command applied
	CaseMissed    = "missed"    // touch landed on no point
	CaseDuplicate = "duplicate" // touched point already in the sequence
	CaseSelected  = "selected"  // touched point appended
	CaseUnlocked  = "unlocked"  // attempt matched
	CaseRejected  = "rejected"  // attempt did not match
	CaseIgnored   = "ignored"   // complete while recording
)

// Args holds command arguments. Values are string, int64 or bool.
type Args map[string]any

// Int returns an integer argument. JSON-decoded numbers are accepted when
// they are integral.
func (a Args) Int(key string) (int, error) {
	v, ok := a[key]
	if !ok {
		return 0, fmt.Errorf("missing arg %q", key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("arg %q: %v is not an integer", key, n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("arg %q: expected integer, got %T", key, v)
	}
}

// String returns a string argument.
func (a Args) String(key string) (string, error) {
	v, ok := a[key]
	if !ok {
		return "", fmt.Errorf("missing arg %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("arg %q: expected string, got %T", key, v)
	}
	return s, nil
}

// Bool returns a boolean argument.
func (a Args) Bool(key string) (bool, error) {
	v, ok := a[key]
	if !ok {
		return false, fmt.Errorf("missing arg %q", key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("arg %q: expected bool, got %T", key, v)
	}
	return b, nil
}

// Command is one input applied to a session.
type Command struct {
	ID        string      `json:"id"`
	SessionID string      `json:"session_id"`
	Kind      CommandKind `json:"kind"`
	Args      Args        `json:"args"`
	Seq       int64       `json:"seq"`
}

// NewCommand builds an argument-less command. ID, SessionID and Seq are
// assigned when the command is applied.
func NewCommand(kind CommandKind) Command {
	return Command{Kind: kind, Args: Args{}}
}

// NewTouch builds a touch command.
func NewTouch(x, y int) Command {
	return Command{Kind: CommandTouch, Args: Args{"x": int64(x), "y": int64(y)}}
}

// NewSetPattern builds a set_pattern command.
func NewSetPattern(token string) Command {
	return Command{Kind: CommandSetPattern, Args: Args{"token": token}}
}

// NewShowHint builds a show_hint command.
func NewShowHint(visible bool) Command {
	return Command{Kind: CommandShowHint, Args: Args{"visible": visible}}
}

// Outcome is the engine state observed right after a command was applied.
type Outcome struct {
	ID          string `json:"id"`
	CommandID   string `json:"command_id"`
	Case        string `json:"case"`
	Mode        string `json:"mode"`
	Index       int    `json:"index"` // touched point, -1 if none
	SavedDigest string `json:"saved_digest"`
	AttemptLen  int    `json:"attempt_len"`
	Seq         int64  `json:"seq"`
}

// Session describes the grid an engine instance was created for.
type Session struct {
	ID            string `json:"id"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Rows          int    `json:"rows"`
	Cols          int    `json:"cols"`
	EngineVersion string `json:"engine_version"`
	IRVersion     string `json:"ir_version"`
}

// JournalEntry pairs an applied command with its outcome.
type JournalEntry struct {
	Command Command `json:"command"`
	Outcome Outcome `json:"outcome"`
}
