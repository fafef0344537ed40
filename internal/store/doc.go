// Package store provides SQLite-backed durable storage for pattern lock
// session journals.
//
// The journal is append-only:
//   - Sessions: the grid a session was created for
//   - Commands: inputs applied to a session, in logical clock order
//   - Outcomes: engine state observed after each command (one per command)
//
// Saved patterns are never stored. Outcomes carry a SHA-256 digest of the
// saved pattern token so replay can verify state without holding the secret.
//
// # Ordering
//
// All ordering uses the seq column (logical clock), never timestamps.
// Queries order by seq ASC, id COLLATE BINARY ASC.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Command and outcome IDs are computed by internal/ir using RFC 8785
// canonical JSON and SHA-256 with domain separation.
package store
