package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bbeckley/ecolityper/internal/config"
	"github.com/bbeckley/ecolityper/internal/console"
	"github.com/bbeckley/ecolityper/internal/ctxlog"
	"github.com/bbeckley/ecolityper/internal/fileset"
	"github.com/bbeckley/ecolityper/internal/interrupt"
	"github.com/bbeckley/ecolityper/internal/scheduler"
	"github.com/bbeckley/ecolityper/internal/summary"
	"github.com/bbeckley/ecolityper/internal/task"
	"github.com/bbeckley/ecolityper/internal/workspace"
)

// Run executes the complete analysis pipeline: resolve inputs, build the
// output tree, run every enabled analysis, and print the final summary.
func (a *App) Run(ctx context.Context) error {
	start := time.Now()
	runID := uuid.NewString()
	logger := a.logger.With("run_id", runID)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("App.Run method started.")

	con := console.New(a.outW)
	con.Banner(runID)

	set, err := fileset.Resolve(ctx, a.cfg.Input)
	if err != nil {
		con.Error("No FASTA files found! Analysis stopped.")
		return err
	}
	con.Success("Starting analysis of %d E. coli genome(s)", set.Len())
	con.Info("File formats detected: %s", strings.Join(set.Extensions(), ", "))

	enabled := a.enabledSpecs(con)
	if len(enabled) == 0 {
		con.Warn("All analyses were skipped!")
		return nil
	}

	if err := a.prepareOutputTree(runID, enabled, set); err != nil {
		return err
	}

	registry := &workspace.Registry{}
	ictl := interrupt.NewController(registry, con)
	runCtx, cancel := ictl.Watch(ctx)
	defer cancel()

	// The fatal-error unwind path shares the signal path's cleanup routine.
	defer func() {
		if r := recover(); r != nil {
			ictl.EmergencyCleanup(ctx)
			panic(r)
		}
	}()

	runner := task.NewRunner(a.cfg.ToolsRoot, a.cfg.Output, con, registry)
	sched := scheduler.New(runner, con)

	logger.Info("🚀 Starting analysis run.", "genomes", set.Len(), "threads", a.cfg.Threads)
	results, err := sched.RunAll(runCtx, enabled, set, a.cfg.Threads)
	if err != nil {
		return fmt.Errorf("scheduling failed: %w", err)
	}

	sum := summary.Aggregate(results)
	con.Summary(sum.Succeeded, sum.Total, set.Len(), time.Since(start))
	logger.Info("🏁 Analysis run finished.", "succeeded", sum.Succeeded, "total", sum.Total)

	return nil
}

// enabledSpecs filters the catalog by the skip flags and prints the plan.
func (a *App) enabledSpecs(con *console.Console) []*config.Spec {
	var enabled []*config.Spec
	var plan []console.PlanEntry
	for _, spec := range a.catalog.Specs {
		skipped := a.cfg.Skip[spec.Name]
		plan = append(plan, console.PlanEntry{Name: spec.Description, Enabled: !skipped})
		if !skipped {
			enabled = append(enabled, spec)
		}
	}
	con.Plan(plan)
	return enabled
}

// prepareOutputTree creates the output root, the per-tool result
// directories, and the run metadata file.
func (a *App) prepareOutputTree(runID string, enabled []*config.Spec, set *fileset.Set) error {
	if err := os.MkdirAll(a.cfg.Output, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, spec := range enabled {
		if err := os.MkdirAll(filepath.Join(a.cfg.Output, spec.ResultsName), 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	meta := fmt.Sprintf("run_id: %s\ndate: %s\ngenomes: %d\n",
		runID, time.Now().Format(time.RFC3339), set.Len())
	if err := os.WriteFile(filepath.Join(a.cfg.Output, "run_info.txt"), []byte(meta), 0o644); err != nil {
		return fmt.Errorf("writing run metadata: %w", err)
	}
	return nil
}
