// Package harness runs pattern lock conformance scenarios.
//
// A scenario drives a session through a list of steps (touches, unlocks,
// recording) and checks per-step expectations, final-state assertions and,
// optionally, a golden trace.
//
// # Scenario Format
//
//	name: restore_and_unlock
//	description: "Restored pattern unlocks with the recorded order"
//	grid: { width: 400, height: 400, rows: 3, cols: 3 }
//	pattern: "8-5-2"
//	steps:
//	  - action: trace
//	    indices: [7, 4, 1]
//	  - action: touch
//	    x: 10
//	    y: 10
//	    expect: { case: missed }
//	  - action: unlock
//	    expect: { unlocked: true, mode: idle }
//	assertions:
//	  - type: callbacks
//	    successes: 1
//	    failures: 0
//
// grid defaults to 400x400 with a 3x3 layout. pattern, when set, is
// applied as a set_pattern command before the first step.
//
// # Step Actions
//
// Every ir.CommandKind is a step action. Two shorthands are added:
//   - touch with index instead of x/y touches that point's exact coordinates
//   - trace touches each of indices in order; expect applies to the last touch
//
// # Assertion Types
//
//   - saved_pattern: saved pattern equals token or indices
//   - attempt: current attempt equals indices
//   - mode: final engine mode
//   - callbacks: success and failure callback counts
//   - step_count: number of outcomes with the given action and case
//
// # Deterministic Testing
//
// Each run uses a fixed session ID, a testutil.DeterministicClock and a
// fresh in-memory journal, so identical scenarios produce identical traces.
// After the steps run the journal is replayed, and any divergence fails
// the scenario.
package harness
