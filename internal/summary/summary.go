// Package summary reduces a run's results into the final counts consumed by
// the reporting layer.
package summary

import (
	"github.com/bbeckley/ecolityper/internal/scheduler"
	"github.com/bbeckley/ecolityper/internal/task"
)

// Summary is the aggregate outcome of one run.
type Summary struct {
	// Succeeded counts tasks that produced usable results, including those
	// with warnings.
	Succeeded int
	// Total counts tasks that were actually attempted; skipped tasks are
	// excluded.
	Total int
}

// AllSucceeded reports whether every attempted task produced results.
func (s Summary) AllSucceeded() bool {
	return s.Succeeded == s.Total
}

// Aggregate reduces a ResultSet into a Summary. It is a pure reduction with
// no failure modes.
func Aggregate(results scheduler.ResultSet) Summary {
	var s Summary
	for _, res := range results {
		if res.Status == task.StatusSkipped {
			continue
		}
		s.Total++
		if res.Succeeded() {
			s.Succeeded++
		}
	}
	return s
}
