package workspace

import (
	"context"
	"sync"

	"github.com/bbeckley/ecolityper/internal/ctxlog"
	"github.com/bbeckley/ecolityper/internal/fileset"
)

// Registry tracks every workspace that has been staged during a run so the
// interrupt path can clean all of them regardless of task completion state.
// The interrupt controller reads it from another goroutine, so access is
// mutex-protected.
type Registry struct {
	mu      sync.Mutex
	entries []entry
}

type entry struct {
	ws  *Workspace
	set *fileset.Set
}

// Add records a workspace and the input set staged into it. Re-adding the
// same workspace directory is a no-op.
func (r *Registry) Add(ws *Workspace, set *fileset.Set) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ws.Dir() == ws.Dir() {
			return
		}
	}
	r.entries = append(r.entries, entry{ws: ws, set: set})
}

// Len returns the number of registered workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// CleanAll cleans every registered workspace. Individual failures are logged
// inside Clean and never abort the loop.
func (r *Registry) CleanAll(ctx context.Context) {
	r.mu.Lock()
	entries := append([]entry{}, r.entries...)
	r.mu.Unlock()

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Cleaning all registered workspaces.", "count", len(entries))
	for _, e := range entries {
		e.ws.Clean(ctx, e.set)
	}
}
