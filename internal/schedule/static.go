package schedule

import (
	"context"
	"time"

	"yqhp/parcluster/internal/cluster"
	"yqhp/parcluster/pkg/logger"
	"yqhp/parcluster/pkg/types"
)

// StaticScheduler splits the input into exactly N contiguous chunks, one
// per worker, submitted once. Deterministic assignment, no per-item
// coordination.
type StaticScheduler struct{}

// NewStaticScheduler creates a new static scheduler.
func NewStaticScheduler() *StaticScheduler {
	return &StaticScheduler{}
}

// Name returns the scheduling discipline's name.
func (s *StaticScheduler) Name() string {
	return "static"
}

// Run partitions items into pool.Size() contiguous chunks, applies fn to
// every element of each chunk inside one worker, and concatenates chunk
// results in chunk order. A failed chunk contributes a ChunkError and nil
// outputs for its positions; sibling chunks keep their results.
func (s *StaticScheduler) Run(ctx context.Context, pool *cluster.Pool, fn cluster.Func, items []any) (*types.RunResult, error) {
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
	result := &types.RunResult{Outputs: make([]any, len(items))}

	// 空输入：零任务提交，零错误。
	if len(items) == 0 {
		result.Elapsed = time.Since(start)
		return result, nil
	}

	bounds := partition(len(items), pool.Size())

	type pending struct {
		fut        *cluster.Future
		start, end int
	}
	futures := make([]pending, 0, len(bounds))

	for _, b := range bounds {
		lo, hi := b[0], b[1]
		if lo == hi {
			// 输入比 worker 少时会出现空 chunk，不提交。
			continue
		}

		chunk := make([]types.Item, 0, hi-lo)
		for i := lo; i < hi; i++ {
			chunk = append(chunk, types.Item{Index: i, Value: items[i]})
		}

		fut, err := pool.Submit(ctx, cluster.Task{Fn: fn, Items: chunk})
		if err != nil {
			result.Elapsed = time.Since(start)
			return result, err
		}
		futures = append(futures, pending{fut: fut, start: lo, end: hi})
	}

	timings := newTimingSet()
	var errs []error

	for _, pend := range futures {
		res, err := pend.fut.Wait(ctx)
		if err != nil {
			result.Elapsed = time.Since(start)
			return result, err
		}

		timings.add(res.WorkerID, len(res.Items), res.Duration)

		if res.Err != nil {
			errs = append(errs, &ChunkError{
				Worker: res.WorkerID,
				Start:  pend.start,
				End:    pend.end,
				Cause:  res.Err,
			})
			continue
		}

		copy(result.Outputs[pend.start:pend.end], res.Outputs)
	}

	result.Elapsed = time.Since(start)
	result.Workers = timings.list()

	if len(errs) > 0 {
		logger.Debug("static run: %d of %d chunks failed", len(errs), len(futures))
		return result, &RunError{Errs: errs}
	}
	return result, nil
}

// partition 把长度为 n 的序列切成恰好 workers 个连续区间。
// 每个区间为 [lo, hi)，大小为 n/workers，末尾区间吸收余数。
func partition(n, workers int) [][2]int {
	bounds := make([][2]int, workers)
	size := n / workers

	lo := 0
	for i := 0; i < workers; i++ {
		hi := lo + size
		if i == workers-1 {
			hi = n
		}
		bounds[i] = [2]int{lo, hi}
		lo = hi
	}
	return bounds
}
