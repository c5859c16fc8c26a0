package cluster

import (
	"context"
	"time"

	"yqhp/parcluster/pkg/types"
)

// Task is one chunk of work dispatched to a single worker.
type Task struct {
	// Fn is applied to every item of the chunk, sequentially.
	Fn Func

	// Items is the ordered chunk, each carrying its origin index.
	Items []types.Item

	// Out, when non-nil, receives the result instead of a per-task
	// Future. 动态调度器用它把所有任务的结果汇聚到同一个通道，
	// 按完成顺序消费。
	Out chan<- TaskResult
}

// TaskResult is the outcome of one task execution.
type TaskResult struct {
	// WorkerID identifies the executing worker.
	WorkerID int

	// Items echoes the task's chunk assignment.
	Items []types.Item

	// Outputs holds one output per item, in chunk order.
	// nil when the chunk failed.
	Outputs []any

	// Duration is the wall-clock time the worker spent on the chunk.
	Duration time.Duration

	// Err is the per-chunk failure, if any. It is a *TaskError naming
	// the first failing item.
	Err error
}

// Future is a handle to a pending task result.
type Future struct {
	ch chan TaskResult
}

// Wait blocks until the result is available or the context is cancelled.
func (f *Future) Wait(ctx context.Context) (TaskResult, error) {
	select {
	case <-ctx.Done():
		return TaskResult{}, ctx.Err()
	case res := <-f.ch:
		return res, nil
	}
}

// submission 把任务、提交时的上下文和结果通道一起送进池的任务队列。
type submission struct {
	ctx  context.Context
	task Task
	out  chan<- TaskResult
}
