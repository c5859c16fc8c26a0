package cluster

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPoolSize is returned when the requested worker count is below 1.
	ErrInvalidPoolSize = errors.New("pool size must be at least 1")

	// ErrUnsupportedPlatform is returned when shared mode is requested on a
	// platform without process duplication support.
	ErrUnsupportedPlatform = errors.New("shared mode is not supported on this platform")

	// ErrPoolStopped is returned when submitting to or exporting into a pool
	// that is not running.
	ErrPoolStopped = errors.New("worker pool is not running")

	// ErrUnresolvedBinding is returned when a task references a name that was
	// never exported to an isolated worker.
	ErrUnresolvedBinding = errors.New("binding not exported to worker")

	// ErrNilTaskFunc is returned when a task carries no function.
	ErrNilTaskFunc = errors.New("task function is nil")
)

// BindingError reports which name a task failed to resolve.
type BindingError struct {
	Name string
}

// Error implements the error interface.
func (e *BindingError) Error() string {
	return fmt.Sprintf("binding %q not exported to worker", e.Name)
}

// Unwrap returns ErrUnresolvedBinding so callers can match with errors.Is.
func (e *BindingError) Unwrap() error {
	return ErrUnresolvedBinding
}

// TaskError reports a user function failure on a specific input item.
// Index 是失败元素在原始输入序列中的位置。
type TaskError struct {
	Index int
	Cause error
}

// Error implements the error interface.
func (e *TaskError) Error() string {
	return fmt.Sprintf("task failed at index %d: %v", e.Index, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *TaskError) Unwrap() error {
	return e.Cause
}
