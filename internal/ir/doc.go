// Package ir provides the journal record types for pattern lock sessions.
//
// This package contains type definitions and their canonical encoding only.
// All other internal packages may import ir; ir imports nothing internal.
//
// Key design constraints:
//   - NO float types in command args - pixel coordinates are int64
//   - All JSON tags use snake_case
//   - Logical clocks (seq) only, never wall-clock timestamps
//   - Saved patterns are journaled as digests, never as tokens
package ir
