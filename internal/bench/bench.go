// Package bench 对命名的执行策略做重复计时比较。
// 每个策略是一个不透明的零参闭包，内部自行启动和停止所需的池。
package bench

import (
	"errors"
	"sort"
	"time"

	"yqhp/parcluster/pkg/logger"
	"yqhp/parcluster/pkg/types"
)

var (
	// ErrInvalidRepetitions is returned when the repetition count is below 1.
	ErrInvalidRepetitions = errors.New("repetitions must be at least 1")

	// ErrNoStrategies is returned when there is nothing to compare.
	ErrNoStrategies = errors.New("no strategies to compare")
)

// Strategy is one candidate under comparison. A run returning an error is
// counted as a failure but still timed.
type Strategy func() error

// Compare executes every strategy `repetitions` times, recording wall-clock
// duration per run, and reports per-strategy summary statistics.
//
// Strategies execute sequentially in sorted name order so runs do not
// contend with each other. There is no per-run timeout: a hung strategy
// blocks the whole comparison.
func Compare(strategies map[string]Strategy, repetitions int) (map[string]*types.DurationStats, error) {
	if repetitions < 1 {
		return nil, ErrInvalidRepetitions
	}
	if len(strategies) == 0 {
		return nil, ErrNoStrategies
	}

	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)

	report := make(map[string]*types.DurationStats, len(strategies))
	for _, name := range names {
		run := strategies[name]
		col := newCollector()

		logger.Debug("bench: %s x%d", name, repetitions)
		for i := 0; i < repetitions; i++ {
			start := time.Now()
			err := run()
			col.record(time.Since(start), err)

			if err != nil {
				logger.Warn("bench: %s run %d failed: %v", name, i+1, err)
			}
		}

		report[name] = col.stats()
	}

	return report, nil
}
