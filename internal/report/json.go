package report

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/ohler55/ojg/oj"

	"yqhp/parcluster/pkg/types"
)

// jsonEntry is one strategy's statistics with durations in milliseconds.
type jsonEntry struct {
	Strategy string  `json:"strategy"`
	Count    int     `json:"count"`
	Failures int     `json:"failures"`
	MeanMs   float64 `json:"mean_ms"`
	MedianMs float64 `json:"median_ms"`
	MinMs    float64 `json:"min_ms"`
	MaxMs    float64 `json:"max_ms"`
}

type jsonReport struct {
	GeneratedAt string      `json:"generated_at"`
	Strategies  []jsonEntry `json:"strategies"`
}

// Render serializes the comparison as indented JSON, strategies sorted by
// name.
func Render(report map[string]*types.DurationStats) ([]byte, error) {
	names := make([]string, 0, len(report))
	for name := range report {
		names = append(names, name)
	}
	sort.Strings(names)

	out := jsonReport{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Strategies:  make([]jsonEntry, 0, len(names)),
	}
	for _, name := range names {
		s := report[name]
		out.Strategies = append(out.Strategies, jsonEntry{
			Strategy: name,
			Count:    s.Count,
			Failures: s.Failures,
			MeanMs:   toMs(s.Mean),
			MedianMs: toMs(s.Median),
			MinMs:    toMs(s.Min),
			MaxMs:    toMs(s.Max),
		})
	}

	return oj.Marshal(out, 2)
}

// WriteFile renders the comparison to a JSON file.
func WriteFile(path string, report map[string]*types.DurationStats) error {
	data, err := Render(report)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func toMs(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}
