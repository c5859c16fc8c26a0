// Package types defines the core data structures for the parallel cluster
// harness.
//
// This package contains the fundamental types shared across packages,
// including:
//   - Worker isolation modes
//   - Indexed work items and run results
//   - Per-worker timing breakdowns
//   - Benchmark duration statistics
package types
