// Package console provides the human-facing status output for a pipeline
// run. All writes are serialized with a mutex so lines from concurrently
// running analyses never interleave mid-line.
package console

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Console writes line-atomic status messages to a single writer.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// New creates a Console writing to out.
func New(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) line(prefix, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, prefix+format+"\n", args...)
}

// Info prints an informational status line.
func (c *Console) Info(format string, args ...any) {
	c.line("   ", format, args...)
}

// Success prints a completed-step line.
func (c *Console) Success(format string, args ...any) {
	c.line("✅ ", format, args...)
}

// Warn prints a non-fatal warning line.
func (c *Console) Warn(format string, args ...any) {
	c.line("⚠️  ", format, args...)
}

// Error prints a failure line.
func (c *Console) Error(format string, args ...any) {
	c.line("❌ ", format, args...)
}

// Header announces the start of one analysis module.
func (c *Console) Header(title, subtitle string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "\n▶️  %s — %s\n", title, subtitle)
}

// Banner prints the startup banner for a run.
func (c *Console) Banner(runID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, "══════════════════════════════════════════════")
	fmt.Fprintln(c.out, "  EcoliTyper — E. coli typing pipeline")
	fmt.Fprintf(c.out, "  run %s\n", runID)
	fmt.Fprintln(c.out, "══════════════════════════════════════════════")
}

// PlanEntry is one row of the analysis plan listing.
type PlanEntry struct {
	Name    string
	Enabled bool
}

// Plan lists the analyses that will run and those that were skipped.
func (c *Console) Plan(entries []PlanEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, "\nAnalysis plan:")
	for _, e := range entries {
		status := "✅ ENABLED"
		if !e.Enabled {
			status = "⏸️  SKIPPED"
		}
		fmt.Fprintf(c.out, "   %s - %s\n", status, e.Name)
	}
}

// Summary prints the final run outcome.
func (c *Console) Summary(succeeded, total, samples int, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "\nProcessed %d sample(s) in %s.\n", samples, elapsed.Round(time.Second))
	if succeeded == total {
		fmt.Fprintf(c.out, "🎉 All %d analyses completed successfully!\n", total)
		fmt.Fprintln(c.out, "🧹 All tool workspaces have been cleaned up")
		return
	}
	fmt.Fprintf(c.out, "⚠️  %d/%d analyses completed successfully.\n", succeeded, total)
}
