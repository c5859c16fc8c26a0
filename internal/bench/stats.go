package bench

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"yqhp/parcluster/pkg/types"
)

// histMax bounds the histogram's trackable range. Longer runs are clamped
// in the histogram but still tracked exactly by min/max/sum.
const histMax = 10 * time.Minute

// collector records the run durations of a single strategy.
type collector struct {
	hist     *hdrhistogram.Histogram
	count    int
	failures int
	sum      time.Duration
	min      time.Duration
	max      time.Duration
}

func newCollector() *collector {
	return &collector{
		// 三位有效数字足够区分微秒级的调度开销差异。
		hist: hdrhistogram.New(1, histMax.Nanoseconds(), 3),
	}
}

func (c *collector) record(d time.Duration, err error) {
	if d < 0 {
		d = 0
	}

	c.count++
	c.sum += d
	if c.count == 1 || d < c.min {
		c.min = d
	}
	if d > c.max {
		c.max = d
	}
	if err != nil {
		c.failures++
	}

	v := d.Nanoseconds()
	if v > histMax.Nanoseconds() {
		v = histMax.Nanoseconds()
	}
	if v < 1 {
		v = 1
	}
	c.hist.RecordValue(v)
}

// stats mean 由精确的 sum/count 得出；median 取直方图的 50 分位。
func (c *collector) stats() *types.DurationStats {
	s := &types.DurationStats{
		Count:    c.count,
		Failures: c.failures,
		Min:      c.min,
		Max:      c.max,
	}
	if c.count > 0 {
		s.Mean = c.sum / time.Duration(c.count)
		s.Median = time.Duration(c.hist.ValueAtQuantile(50))
	}
	return s
}
