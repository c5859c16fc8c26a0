// Package report renders benchmark comparisons for humans and machines.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"yqhp/parcluster/pkg/types"
)

// WriteTable 以固定宽度表格输出策略对比，按策略名排序。
func WriteTable(w io.Writer, report map[string]*types.DurationStats) error {
	names := make([]string, 0, len(report))
	width := len("strategy")
	for name := range report {
		names = append(names, name)
		if len(name) > width {
			width = len(name)
		}
	}
	sort.Strings(names)

	if _, err := fmt.Fprintf(w, "%-*s  %5s  %12s  %12s  %12s  %12s  %5s\n",
		width, "strategy", "count", "mean", "median", "min", "max", "fail"); err != nil {
		return err
	}

	for _, name := range names {
		s := report[name]
		if _, err := fmt.Fprintf(w, "%-*s  %5d  %12s  %12s  %12s  %12s  %5d\n",
			width, name, s.Count,
			fmtDuration(s.Mean), fmtDuration(s.Median),
			fmtDuration(s.Min), fmtDuration(s.Max),
			s.Failures); err != nil {
			return err
		}
	}
	return nil
}

// fmtDuration trims sub-microsecond noise from the display.
func fmtDuration(d time.Duration) string {
	return d.Round(time.Microsecond).String()
}
