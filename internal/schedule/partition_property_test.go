// Package schedule property tests for the static partitioner.
// Property: for any input length and worker count, the chunks are
// contiguous, non-overlapping, and their union covers [0, n) exactly.
package schedule

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestPartitionCoverageProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	// Property: chunks are contiguous and cover [0, n) exactly
	properties.Property("chunks cover the full range contiguously", prop.ForAll(
		func(n, workers int) bool {
			bounds := partition(n, workers)
			if len(bounds) != workers {
				return false
			}

			pos := 0
			for _, b := range bounds {
				if b[0] != pos || b[1] < b[0] {
					return false
				}
				pos = b[1]
			}
			return pos == n
		},
		gen.IntRange(0, 1000),
		gen.IntRange(1, 32),
	))

	// Property: when n >= workers, no chunk is empty
	properties.Property("no empty chunks when items outnumber workers", prop.ForAll(
		func(workers, extra int) bool {
			n := workers + extra
			for _, b := range partition(n, workers) {
				if b[1]-b[0] < 1 {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 32),
		gen.IntRange(0, 1000),
	))

	// Property: only the last chunk absorbs the remainder
	properties.Property("all chunks but the last are n/workers wide", prop.ForAll(
		func(n, workers int) bool {
			bounds := partition(n, workers)
			size := n / workers
			for i := 0; i < workers-1; i++ {
				if bounds[i][1]-bounds[i][0] != size {
					return false
				}
			}
			last := bounds[workers-1]
			return last[1]-last[0] == size+n%workers
		},
		gen.IntRange(0, 1000),
		gen.IntRange(1, 32),
	))

	properties.TestingRun(t)
}
