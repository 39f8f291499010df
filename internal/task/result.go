// Package task wraps exactly one external tool invocation: staging, command
// construction, execution, outcome classification, result copy-out, and
// guaranteed workspace cleanup.
package task

import (
	"time"
)

// Status classifies the outcome of one task invocation.
type Status int

const (
	// StatusSkipped marks a task that was never dispatched (disabled or
	// cancelled before start).
	StatusSkipped Status = iota
	// StatusFailed marks a task whose expected artifact never appeared or
	// whose execution could not proceed.
	StatusFailed
	// StatusSuccess marks a task whose expected artifact was produced.
	StatusSuccess
	// StatusSuccessWithWarnings marks a produced artifact containing a
	// recognized unresolved sentinel.
	StatusSuccessWithWarnings
)

// String returns the human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	case StatusSuccess:
		return "success"
	case StatusSuccessWithWarnings:
		return "success-with-warnings"
	default:
		return "unknown"
	}
}

// Result is the outcome of one task invocation.
type Result struct {
	// Tool is the task's name key.
	Tool string
	// Status classifies the outcome.
	Status Status
	// Stderr holds a short excerpt of the tool's stderr, when captured.
	Stderr string
	// OutputDir is the directory the results were copied into under the
	// shared output root. Empty unless the task succeeded.
	OutputDir string
	// Start and End bracket the invocation. Used for reporting only.
	Start time.Time
	End   time.Time
	// Err records the failure cause for failed tasks.
	Err error
}

// Succeeded reports whether the task produced usable results.
func (r Result) Succeeded() bool {
	return r.Status == StatusSuccess || r.Status == StatusSuccessWithWarnings
}

// Duration returns the task's wall-clock run time.
func (r Result) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Skipped builds the Result for a task that never ran.
func Skipped(tool string) Result {
	now := time.Now()
	return Result{Tool: tool, Status: StatusSkipped, Start: now, End: now}
}
