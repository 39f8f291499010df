// Package workspace stages inputs into and cleans up a tool's private
// working directory. A Workspace handle is acquired per task invocation; its
// Clean method is deferred by the task runner so release happens on every
// exit path.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bbeckley/ecolityper/internal/ctxlog"
	"github.com/bbeckley/ecolityper/internal/fileset"
	"github.com/bbeckley/ecolityper/internal/fsutil"
)

// knownOutputDirs is the fixed list of result directory names the wrapped
// tools are known to generate. Clean removes any of them found in the
// workspace, whichever tool produced them.
var knownOutputDirs = []string{
	"mlst_results",
	"results",
	"SerotypeFinder_results",
	"chtyper_results",
	"phylogrouping_results",
	"ecoli_abricate_results",
	"ecoli_amrfinder_results",
}

// tempPatterns matches scratch files the wrapped tools leave behind.
var tempPatterns = []string{"*.txt", "*.log", "*.tmp", "temp_*", "*.html", "*.tsv"}

// Workspace is one tool's private working directory for the duration of a
// single task invocation.
type Workspace struct {
	dir string
	// purgeDirs are tool-specific output directories removed on Clean, in
	// addition to the shared known-output list.
	purgeDirs []string
}

// Acquire returns a handle for the tool directory at dir. purgeDirs lists
// extra subdirectories to remove on Clean.
func Acquire(dir string, purgeDirs ...string) *Workspace {
	return &Workspace{dir: dir, purgeDirs: purgeDirs}
}

// Dir returns the workspace directory path.
func (w *Workspace) Dir() string {
	return w.dir
}

// Stage copies every input file into the workspace with a full content copy;
// some tools mutate or consume their input in place, so links are never
// used. A failed copy aborts staging, leaving any partial copies for Clean.
func (w *Workspace) Stage(ctx context.Context, set *fileset.Set) error {
	logger := ctxlog.FromContext(ctx)

	for _, f := range set.Files {
		target := filepath.Join(w.dir, f.Name())
		if err := fsutil.CopyFile(f.Path, target); err != nil {
			return fmt.Errorf("staging %s into %s: %w", f.Name(), w.dir, err)
		}
	}
	logger.Debug("Inputs staged into workspace.", "dir", w.dir, "count", set.Len())
	return nil
}

// Clean removes copied inputs, known output directories, and temp files from
// the workspace, leaving the tool's installation as it was before the run.
// It is best-effort and total: a failed removal is logged as a warning and
// never stops the remaining removals. Absent paths are skipped, so calling
// Clean repeatedly is a no-op after the first pass.
func (w *Workspace) Clean(ctx context.Context, set *fileset.Set) {
	logger := ctxlog.FromContext(ctx).With("dir", w.dir)

	for _, name := range set.Names() {
		path := filepath.Join(w.dir, name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("Could not remove staged input.", "path", path, "error", err)
		}
	}

	dirs := append(append([]string{}, knownOutputDirs...), w.purgeDirs...)
	for _, name := range dirs {
		path := filepath.Join(w.dir, name)
		if err := os.RemoveAll(path); err != nil {
			logger.Warn("Could not remove output directory.", "path", path, "error", err)
		}
	}

	for _, pattern := range tempPatterns {
		matches, err := filepath.Glob(filepath.Join(w.dir, pattern))
		if err != nil {
			continue
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
				logger.Warn("Could not remove temp file.", "path", m, "error", err)
			}
		}
	}

	logger.Debug("Workspace cleaned.")
}
