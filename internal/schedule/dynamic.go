package schedule

import (
	"context"
	"errors"
	"sort"
	"time"

	"yqhp/parcluster/internal/cluster"
	"yqhp/parcluster/pkg/logger"
	"yqhp/parcluster/pkg/types"
)

// DynamicScheduler feeds workers one item at a time from a shared queue,
// FIFO by input index. Workers claim items on demand, which balances
// uneven per-item cost at the price of per-item coordination overhead.
type DynamicScheduler struct {
	reduce  types.ReduceFunc
	initial any
}

// DynamicOption configures a dynamic scheduler.
type DynamicOption func(*DynamicScheduler)

// WithReduce folds completed results into an accumulator in arrival order
// instead of collecting an ordered output sequence. The fold is
// order-sensitive: supply a commutative function unless arrival order is
// acceptable.
func WithReduce(initial any, fn types.ReduceFunc) DynamicOption {
	return func(d *DynamicScheduler) {
		d.initial = initial
		d.reduce = fn
	}
}

// NewDynamicScheduler creates a new dynamic scheduler.
func NewDynamicScheduler(opts ...DynamicOption) *DynamicScheduler {
	d := &DynamicScheduler{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the scheduling discipline's name.
func (d *DynamicScheduler) Name() string {
	return "dynamic"
}

// Run submits one single-item task per input element and collects results
// as workers finish. Each output slot is written exactly once, keyed by the
// item's origin index, so the final sequence matches input order. A failed
// item contributes a TaskError carrying its index; queued peers keep
// running and their results are retained.
func (d *DynamicScheduler) Run(ctx context.Context, pool *cluster.Pool, fn cluster.Func, items []any) (*types.RunResult, error) {
	if pool == nil {
		return nil, ErrNilPool
	}
	if fn == nil {
		return nil, ErrNilFunc
	}
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	result := &types.RunResult{}
	if d.reduce != nil {
		result.Reduced = d.initial
	} else {
		result.Outputs = make([]any, len(items))
	}

	if len(items) == 0 {
		result.Elapsed = time.Since(start)
		return result, nil
	}

	// 所有任务共用一个缓冲结果通道，worker 写入永不阻塞，
	// 因此这里顺序提交不会与收集端死锁。
	results := make(chan cluster.TaskResult, len(items))

	submitted := 0
	var submitErr error
	for i, value := range items {
		_, err := pool.Submit(ctx, cluster.Task{
			Fn:    fn,
			Items: []types.Item{{Index: i, Value: value}},
			Out:   results,
		})
		if err != nil {
			// 已入队的任务继续执行；只停止继续投喂。
			submitErr = err
			break
		}
		submitted++
	}

	timings := newTimingSet()
	var errs []error

	for received := 0; received < submitted; received++ {
		var res cluster.TaskResult
		select {
		case res = <-results:
		case <-ctx.Done():
			result.Elapsed = time.Since(start)
			return result, ctx.Err()
		}

		timings.add(res.WorkerID, len(res.Items), res.Duration)

		if res.Err != nil {
			errs = append(errs, res.Err)
			continue
		}

		if d.reduce != nil {
			// 归约按到达顺序进行。
			result.Reduced = d.reduce(result.Reduced, res.Outputs[0])
		} else {
			result.Outputs[res.Items[0].Index] = res.Outputs[0]
		}
	}

	result.Elapsed = time.Since(start)
	result.Workers = timings.list()

	if submitErr != nil {
		errs = append(errs, submitErr)
	}
	if len(errs) > 0 {
		sortTaskErrors(errs)
		logger.Debug("dynamic run: %d of %d items failed", len(errs), len(items))
		return result, &RunError{Errs: errs}
	}
	return result, nil
}

// sortTaskErrors orders failures by origin index for stable reporting.
func sortTaskErrors(errs []error) {
	sort.SliceStable(errs, func(i, j int) bool {
		var a, b *cluster.TaskError
		if !errors.As(errs[i], &a) || !errors.As(errs[j], &b) {
			return false
		}
		return a.Index < b.Index
	})
}
