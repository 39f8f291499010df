package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bbeckley/ecolityper/internal/config"
	"github.com/bbeckley/ecolityper/internal/console"
	"github.com/bbeckley/ecolityper/internal/ctxlog"
	"github.com/bbeckley/ecolityper/internal/fileset"
	"github.com/bbeckley/ecolityper/internal/task"
)

// timeUnit is the rounding granularity for reported task durations.
const timeUnit = 100 * time.Millisecond

// ErrNoInputFiles is returned when a run is attempted with an empty input
// set; it aborts before any task is dispatched.
var ErrNoInputFiles = errors.New("input set is empty")

// ResultSet maps task names to their results. Every enabled task appears in
// the set; tasks that never ran carry StatusSkipped.
type ResultSet map[string]task.Result

// Scheduler owns the enabled task list for one run.
type Scheduler struct {
	runner  *task.Runner
	console *console.Console
}

// New creates a Scheduler dispatching work through runner.
func New(runner *task.Runner, con *console.Console) *Scheduler {
	return &Scheduler{runner: runner, console: con}
}

// RunAll executes every enabled spec and returns the aggregated ResultSet.
// Parallel-batch tasks run on a bounded worker pool; exclusive tasks run
// afterwards, one at a time, on the calling goroutine with the full thread
// budget. A failed task is recorded and never blocks its siblings.
func (s *Scheduler) RunAll(ctx context.Context, specs []*config.Spec, set *fileset.Set, threads int) (ResultSet, error) {
	logger := ctxlog.FromContext(ctx)

	if set.Empty() {
		return nil, ErrNoInputFiles
	}

	var parallel, exclusive []*config.Spec
	for _, spec := range specs {
		if spec.Exclusive {
			exclusive = append(exclusive, spec)
		} else {
			parallel = append(parallel, spec)
		}
	}

	results := make(ResultSet, len(specs))
	for _, spec := range specs {
		results[spec.Name] = task.Skipped(spec.Name)
	}

	if len(parallel) > 0 {
		width := PoolWidth(len(parallel), threads)
		budget := TaskBudget(len(parallel), threads)
		logger.Info("🚀 Starting concurrent analyses.", "tasks", len(parallel), "workers", width, "threads_per_task", budget)
		s.console.Info("Running %d analyses in parallel", len(parallel))

		jobs := make(chan *config.Spec)
		out := make(chan task.Result)

		var wg sync.WaitGroup
		for i := 0; i < width; i++ {
			wg.Add(1)
			go s.worker(ctx, i, jobs, out, set, budget, &wg)
		}

		go func() {
			defer close(jobs)
			for _, spec := range parallel {
				// Dispatch boundary: stop handing out work once cancelled.
				if ctx.Err() != nil {
					return
				}
				jobs <- spec
			}
		}()

		go func() {
			wg.Wait()
			close(out)
		}()

		// Results arrive in completion order, not submission order.
		for res := range out {
			results[res.Tool] = res
			s.report(res)
		}
	}

	for _, spec := range exclusive {
		// Collection boundary: the exclusive batch starts only if no
		// cancellation was requested while the pool drained.
		if ctx.Err() != nil {
			logger.Warn("Cancellation requested; exclusive batch skipped.", "tool", spec.Name)
			break
		}
		res := s.runner.Run(ctx, spec, set, threads)
		results[spec.Name] = res
		s.report(res)
	}

	return results, nil
}

// worker is the processing loop for one pool worker.
func (s *Scheduler) worker(ctx context.Context, id int, jobs <-chan *config.Spec, out chan<- task.Result, set *fileset.Set, budget int, wg *sync.WaitGroup) {
	defer wg.Done()
	logger := ctxlog.FromContext(ctx).With("workerID", id)
	logger.Debug("Worker started.")

	for spec := range jobs {
		if ctx.Err() != nil {
			out <- task.Skipped(spec.Name)
			continue
		}
		out <- s.runner.Run(ctx, spec, set, budget)
	}
	logger.Debug("Worker finished.")
}

func (s *Scheduler) report(res task.Result) {
	switch res.Status {
	case task.StatusSuccess:
		s.console.Success("%s completed in %s", res.Tool, res.Duration().Round(timeUnit))
	case task.StatusSuccessWithWarnings:
		s.console.Warn("%s completed with warnings in %s", res.Tool, res.Duration().Round(timeUnit))
	case task.StatusFailed:
		s.console.Error("%s failed", res.Tool)
	case task.StatusSkipped:
		s.console.Info("%s skipped", res.Tool)
	}
}
