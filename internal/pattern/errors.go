package pattern

import (
	"errors"
	"fmt"
)

// GridError reports misuse of the grid construction or lookup API.
// These are programmer errors; user input never produces one.
type GridError struct {
	// Code identifies the error category.
	Code GridErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string
}

// GridErrorCode categorizes grid errors.
type GridErrorCode string

const (
	// ErrCodeConfiguration indicates invalid grid dimensions or layout.
	ErrCodeConfiguration GridErrorCode = "CONFIGURATION"

	// ErrCodeOutOfRange indicates a point index outside [0, N).
	ErrCodeOutOfRange GridErrorCode = "OUT_OF_RANGE"
)

// Error implements the error interface.
func (e *GridError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConfigurationError returns true if err is (or wraps) a configuration error.
func IsConfigurationError(err error) bool {
	var ge *GridError
	if errors.As(err, &ge) {
		return ge.Code == ErrCodeConfiguration
	}
	return false
}

// IsOutOfRangeError returns true if err is (or wraps) an out-of-range error.
func IsOutOfRangeError(err error) bool {
	var ge *GridError
	if errors.As(err, &ge) {
		return ge.Code == ErrCodeOutOfRange
	}
	return false
}

// NewConfigurationError creates a GridError for an invalid viewport or layout.
func NewConfigurationError(width, height int, layout Layout, reason string) *GridError {
	return &GridError{
		Code:    ErrCodeConfiguration,
		Message: fmt.Sprintf("invalid grid %dx%d (%s): %s", width, height, layout, reason),
		Details: map[string]string{
			"width":  fmt.Sprintf("%d", width),
			"height": fmt.Sprintf("%d", height),
			"layout": layout.String(),
		},
	}
}

// NewOutOfRangeError creates a GridError for an index outside the grid.
func NewOutOfRangeError(index, size int) *GridError {
	return &GridError{
		Code:    ErrCodeOutOfRange,
		Message: fmt.Sprintf("point index %d outside [0, %d)", index, size),
		Details: map[string]string{
			"index": fmt.Sprintf("%d", index),
			"size":  fmt.Sprintf("%d", size),
		},
	}
}
