package session

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while applying or replaying
// commands.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// SessionID identifies the affected session.
	SessionID string

	// Seq is the command seq, 0 when the command was rejected before
	// being stamped.
	Seq int64

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeUnknownCommand indicates a command kind the engine does not accept.
	ErrCodeUnknownCommand RuntimeErrorCode = "UNKNOWN_COMMAND"

	// ErrCodeInvalidArgs indicates missing or mistyped command arguments.
	ErrCodeInvalidArgs RuntimeErrorCode = "INVALID_ARGS"

	// ErrCodeJournal indicates the command was applied but could not be journaled.
	ErrCodeJournal RuntimeErrorCode = "JOURNAL"

	// ErrCodeReplayMismatch indicates replay diverged from the journal.
	ErrCodeReplayMismatch RuntimeErrorCode = "REPLAY_MISMATCH"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.SessionID != "" && e.Seq > 0 {
		return fmt.Sprintf("%s (session=%s, seq=%d)", msg, e.SessionID, e.Seq)
	}
	if e.SessionID != "" {
		return fmt.Sprintf("%s (session=%s)", msg, e.SessionID)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsUnknownCommandError reports whether err is an unknown command error.
func IsUnknownCommandError(err error) bool { return hasCode(err, ErrCodeUnknownCommand) }

// IsInvalidArgsError reports whether err is an invalid arguments error.
func IsInvalidArgsError(err error) bool { return hasCode(err, ErrCodeInvalidArgs) }

// IsJournalError reports whether err is a journal write failure.
func IsJournalError(err error) bool { return hasCode(err, ErrCodeJournal) }

// IsReplayMismatchError reports whether err is a replay divergence.
func IsReplayMismatchError(err error) bool { return hasCode(err, ErrCodeReplayMismatch) }

// NewUnknownCommandError creates a RuntimeError for an unknown command kind.
func NewUnknownCommandError(sessionID, kind string) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeUnknownCommand,
		Message:   fmt.Sprintf("unknown command %q", kind),
		SessionID: sessionID,
		Details:   map[string]string{"kind": kind},
	}
}

// NewInvalidArgsError creates a RuntimeError for bad command arguments.
func NewInvalidArgsError(sessionID, kind string, err error) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeInvalidArgs,
		Message:   fmt.Sprintf("invalid args for %s", kind),
		SessionID: sessionID,
		Details:   map[string]string{"kind": kind},
		Err:       err,
	}
}

// NewJournalError creates a RuntimeError for a failed journal write.
func NewJournalError(sessionID string, seq int64, err error) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeJournal,
		Message:   "journal write failed",
		SessionID: sessionID,
		Seq:       seq,
		Err:       err,
	}
}

// NewReplayMismatchError creates a RuntimeError for a replay divergence.
func NewReplayMismatchError(sessionID string, seq int64, field, want, got string) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeReplayMismatch,
		Message:   fmt.Sprintf("%s diverged: journal has %q, replay produced %q", field, want, got),
		SessionID: sessionID,
		Seq:       seq,
		Details: map[string]string{
			"field": field,
			"want":  want,
			"got":   got,
		},
	}
}
