// Package interrupt installs termination-signal handlers that cancel the
// run context and drive emergency cleanup of every staged workspace before
// the process exits.
package interrupt

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bbeckley/ecolityper/internal/console"
	"github.com/bbeckley/ecolityper/internal/ctxlog"
	"github.com/bbeckley/ecolityper/internal/workspace"
)

// Controller bridges platform signal reception and the cleanup routine. The
// cleanup itself is an ordinary method so the fatal-error unwind path can
// call it too.
type Controller struct {
	registry *workspace.Registry
	console  *console.Console

	// exit terminates the process; swapped out in tests.
	exit func(code int)
}

// NewController creates a Controller cleaning through reg.
func NewController(reg *workspace.Registry, con *console.Console) *Controller {
	return &Controller{registry: reg, console: con, exit: os.Exit}
}

// Watch installs handlers for SIGINT and SIGTERM and returns a derived
// context that is cancelled on the first signal. After cancelling, the
// controller cleans all registered workspaces and exits non-zero. In-flight
// subprocesses are not killed; only orchestration-owned workspace state is
// cleaned.
func (c *Controller) Watch(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(ctx)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-ch:
			c.console.Error("Analysis interrupted by user (signal %v)", sig)
			ctxlog.FromContext(ctx).Warn("Termination signal received.", "signal", sig.String())
			cancel()
			c.EmergencyCleanup(ctx)
			c.exit(1)
		case <-runCtx.Done():
			signal.Stop(ch)
		}
	}()

	return runCtx, cancel
}

// EmergencyCleanup cleans every workspace known to the registry, whether or
// not its task finished. Individual failures are logged and never abort the
// loop.
func (c *Controller) EmergencyCleanup(ctx context.Context) {
	c.console.Info("Starting automatic cleanup...")
	c.registry.CleanAll(ctx)
	c.console.Success("Emergency cleanup completed!")
}
