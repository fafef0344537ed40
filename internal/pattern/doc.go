// Package pattern implements the connect-the-dots pattern lock model.
//
// A Grid holds the fixed set of selectable points for a viewport. A Recorder
// holds the saved (reference) pattern and converts it to and from its token
// form ("8-5-2"). An Attempt holds the points of the trace currently being
// drawn. Engine composes the three into a small state machine that decides
// which sequence receives a touched point and whether an attempt unlocks.
//
// # Concurrency
//
// Nothing in this package is safe for concurrent mutation. An Engine mirrors
// a single pointer stream, so every call must come from one logical sequence
// (one UI event queue). internal/session provides such a queue for callers
// that receive input on several goroutines.
//
// # Errors
//
// Ordinary input never fails: touches that miss every point are ignored,
// malformed token parts are dropped, and a mismatched attempt is a false
// result. Only construction misuse returns a *GridError.
package pattern
