package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrNilPool is returned when no pool is supplied to a run.
	ErrNilPool = errors.New("scheduler requires a pool")

	// ErrNilFunc is returned when no function is supplied to a run.
	ErrNilFunc = errors.New("scheduler requires a function")
)

// ChunkError reports the failure of one statically assigned chunk.
// Start 和 End 是该 chunk 在输入序列中的半开区间 [Start, End)。
type ChunkError struct {
	Worker int
	Start  int
	End    int
	Cause  error
}

// Error implements the error interface.
func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk [%d,%d) failed on worker %d: %v", e.Start, e.End, e.Worker, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ChunkError) Unwrap() error {
	return e.Cause
}

// RunError aggregates the per-chunk or per-item failures of one run.
// Results of unaffected chunks remain valid in the accompanying RunResult.
type RunError struct {
	Errs []error
}

// Error implements the error interface.
func (e *RunError) Error() string {
	if len(e.Errs) == 1 {
		return e.Errs[0].Error()
	}
	return fmt.Sprintf("%d failures, first: %v", len(e.Errs), e.Errs[0])
}

// Unwrap exposes every failure for errors.Is / errors.As matching.
func (e *RunError) Unwrap() []error {
	return e.Errs
}
