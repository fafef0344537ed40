// Package session drives a pattern.Engine from a command stream.
//
// A Session owns exactly one engine. Commands (touch, unlock, start
// recording, ...) arrive as ir.Command values, are stamped with a logical
// clock seq and a content-addressed ID, are applied to the engine, and the
// resulting state is captured as an ir.Outcome. When a Journal is attached,
// every command/outcome pair is written atomically before the next command
// is applied.
//
// # Single-Writer Event Loop
//
// The engine is not safe for concurrent use, so all mutation happens in one
// goroutine:
//
//  1. Enqueue() accepts commands from any goroutine (FIFO queue)
//  2. Run() dequeues them one at a time on a single goroutine
//  3. Apply() validates, stamps, executes and journals each command
//
// Callers that already own a single goroutine may call Apply directly.
//
// # Replay
//
// Replay rebuilds an engine from a journal and re-applies every command.
// Command IDs, output cases, modes and saved-pattern digests must match the
// recorded outcomes exactly; any difference is a ReplayMismatch error. This
// holds because seq values come from the logical clock, never wall time,
// and because commands rejected before execution consume no seq.
package session
