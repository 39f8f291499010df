package task

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bbeckley/ecolityper/internal/config"
	"github.com/bbeckley/ecolityper/internal/console"
	"github.com/bbeckley/ecolityper/internal/ctxlog"
	"github.com/bbeckley/ecolityper/internal/fileset"
	"github.com/bbeckley/ecolityper/internal/fsutil"
	"github.com/bbeckley/ecolityper/internal/workspace"
)

// stderrExcerptLen bounds the stderr excerpt surfaced on the console.
const stderrExcerptLen = 200

// ErrScriptMissing marks a tool whose entry script was not found.
var ErrScriptMissing = errors.New("tool script not found")

// Runner executes tool invocations described by config.Spec values. One
// Runner serves all tasks of a run; each invocation acquires its own
// workspace.
type Runner struct {
	toolsRoot  string
	outputRoot string
	console    *console.Console
	registry   *workspace.Registry
}

// NewRunner creates a Runner rooted at the installed-tools directory,
// writing results under outputRoot and registering workspaces with reg for
// emergency cleanup.
func NewRunner(toolsRoot, outputRoot string, con *console.Console, reg *workspace.Registry) *Runner {
	return &Runner{
		toolsRoot:  toolsRoot,
		outputRoot: outputRoot,
		console:    con,
		registry:   reg,
	}
}

// Run invokes one tool and classifies the outcome. All failure modes inside
// the invocation are converted into the returned Result; nothing propagates
// to the caller, so one task can never abort its siblings. Workspace cleanup
// runs on every exit path, including panics.
func (r *Runner) Run(ctx context.Context, spec *config.Spec, set *fileset.Set, threads int) (res Result) {
	logger := ctxlog.FromContext(ctx).With("tool", spec.Name)
	res = Result{Tool: spec.Name, Status: StatusFailed, Start: time.Now()}

	defer func() {
		if p := recover(); p != nil {
			res.Status = StatusFailed
			res.Err = fmt.Errorf("tool %s panicked: %v", spec.Name, p)
			logger.Error("Task panicked.", "panic", p)
			r.console.Error("%s failed: %v", spec.Name, p)
		}
		res.End = time.Now()
	}()

	r.console.Header(spec.Name, spec.Description)
	logger.Info("▶️ Starting analysis.")

	dir := filepath.Join(r.toolsRoot, spec.Workdir)
	script := filepath.Join(dir, spec.Script)
	if _, err := os.Stat(script); err != nil {
		res.Err = fmt.Errorf("%w: %s", ErrScriptMissing, script)
		r.console.Error("%s script not found at: %s", spec.Name, script)
		return res
	}

	staged := set
	if !spec.NeedsInput {
		staged = &fileset.Set{}
	}

	ws := workspace.Acquire(dir, spec.CleanupDirs...)
	r.registry.Add(ws, staged)
	defer ws.Clean(ctx, staged)

	if spec.NeedsInput {
		if err := ws.Stage(ctx, set); err != nil {
			res.Err = err
			r.console.Error("%s staging failed: %v", spec.Name, err)
			return res
		}
		r.console.Info("Copied %d file(s) to %s workspace", set.Len(), spec.Name)
	}

	args, err := r.buildArgs(spec, set, threads)
	if err != nil {
		res.Err = err
		r.console.Error("%s command construction failed: %v", spec.Name, err)
		return res
	}

	argv := make([]string, 0, len(args)+2)
	if spec.Interpreter != "" {
		argv = append(argv, spec.Interpreter)
	}
	argv = append(argv, script)
	argv = append(argv, args...)

	logger.Debug("Executing tool command.", "argv", argv, "dir", dir, "threads", threads)

	var stdout, stderr bytes.Buffer
	// No deadline here: wrapped tools are trusted to terminate.
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	res.Stderr = excerpt(stderr.String())

	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		// The process never launched; this is fatal for the task.
		res.Err = fmt.Errorf("launching %s: %w", spec.Name, runErr)
		r.console.Error("%s failed to launch: %v", spec.Name, runErr)
		return res
	}
	if runErr != nil {
		// A non-zero exit is a data point, not a verdict; some tools exit
		// non-zero on benign warnings. The artifact decides.
		logger.Debug("Tool exited non-zero.", "error", runErr)
	}

	artifact := filepath.Join(dir, spec.Artifact)
	info, statErr := os.Stat(artifact)
	if statErr != nil {
		res.Err = fmt.Errorf("tool %s produced no %s", spec.Name, spec.Artifact)
		r.console.Warn("%s produced no output artifact", spec.Name)
		if res.Stderr != "" {
			r.console.Info("%s stderr: %s...", spec.Name, res.Stderr)
		}
		return res
	}

	target, err := r.copyOut(artifact, info.IsDir(), spec)
	if err != nil {
		res.Err = err
		r.console.Error("%s result copy failed: %v", spec.Name, err)
		return res
	}
	res.OutputDir = target
	res.Status = StatusSuccess

	if warned := r.checkWarnings(ctx, spec, target); warned {
		res.Status = StatusSuccessWithWarnings
		r.console.Warn("%s completed but some samples are unresolved", spec.Name)
		if res.Stderr != "" {
			r.console.Info("%s stderr: %s...", spec.Name, res.Stderr)
		}
	}

	logger.Info("✅ Analysis finished.", "status", res.Status.String())
	r.console.Success("%s results copied to: %s", spec.Name, target)
	return res
}

// buildArgs computes the run variables and evaluates the manifest's args
// expression. Pattern-accepting tools always see the glob pattern as their
// input; the rest behave differently for one file vs many and receive the
// single filename directly when exactly one input is staged.
func (r *Runner) buildArgs(spec *config.Spec, set *fileset.Set, threads int) ([]string, error) {
	pattern := set.Pattern()
	input := pattern
	if !spec.AcceptsPattern && set.Len() == 1 {
		input = set.Names()[0]
	}
	if set.Empty() {
		input, pattern = "", ""
	}
	return evalArgs(spec, runVariables(input, pattern, r.outputRoot, threads))
}

// copyOut replaces outputRoot/<results-name> with the tool's artifact.
func (r *Runner) copyOut(artifact string, isDir bool, spec *config.Spec) (string, error) {
	target := filepath.Join(r.outputRoot, spec.ResultsName)
	if err := os.RemoveAll(target); err != nil {
		return "", fmt.Errorf("clearing %s: %w", target, err)
	}

	if isDir {
		if err := fsutil.CopyDir(artifact, target); err != nil {
			return "", fmt.Errorf("copying results to %s: %w", target, err)
		}
		return target, nil
	}

	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", target, err)
	}
	if err := fsutil.CopyFile(artifact, filepath.Join(target, filepath.Base(artifact))); err != nil {
		return "", fmt.Errorf("copying results to %s: %w", target, err)
	}
	return target, nil
}

// checkWarnings scans the declared warn file in the copied results for
// unresolved sentinels.
func (r *Runner) checkWarnings(ctx context.Context, spec *config.Spec, target string) bool {
	if spec.WarnFile == "" {
		return false
	}
	content, err := os.ReadFile(filepath.Join(target, spec.WarnFile))
	if err != nil {
		ctxlog.FromContext(ctx).Debug("Warn file not present.", "tool", spec.Name, "file", spec.WarnFile)
		return false
	}
	for _, marker := range spec.WarnMarkers {
		if strings.Contains(string(content), marker) {
			return true
		}
	}
	return false
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= stderrExcerptLen {
		return s
	}
	// Back off to a rune boundary so a multi-byte character is never split.
	cut := stderrExcerptLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
