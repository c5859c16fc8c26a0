package types

import "time"

// Item is a single unit of work. Index 是该元素在原始输入序列中的
// 位置，用于在乱序完成后恢复全局结果顺序。
type Item struct {
	Index int
	Value any
}

// WorkerTiming is the per-worker timing breakdown of one run.
type WorkerTiming struct {
	WorkerID int
	Items    int
	Busy     time.Duration
}

// RunResult contains the outcome of one scheduled run.
// Outputs 与输入顺序严格对齐，与各 worker 的完成顺序无关。
// 当调度器配置了归约函数时，Outputs 为 nil，结果在 Reduced 中。
type RunResult struct {
	Outputs []any
	Reduced any
	Elapsed time.Duration
	Workers []WorkerTiming
}

// ReduceFunc folds a completed result into an accumulator.
// Results arrive in completion order, not input order.
type ReduceFunc func(acc any, value any) any

// DurationStats summarizes the wall-clock durations of repeated runs
// of a single benchmark strategy.
type DurationStats struct {
	Count    int           `json:"count"`
	Failures int           `json:"failures"`
	Mean     time.Duration `json:"mean"`
	Median   time.Duration `json:"median"`
	Min      time.Duration `json:"min"`
	Max      time.Duration `json:"max"`
}
