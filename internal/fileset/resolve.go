package fileset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bbeckley/ecolityper/internal/ctxlog"
)

// ErrNoInput is returned when a specifier matches no usable input files.
var ErrNoInput = errors.New("no input files found")

// Resolve expands an input specifier into a Set. The specifier may be a
// wildcard pattern, a single file, or a directory to scan for recognized
// extensions. Resolution only reads the filesystem; calling it twice against
// an unchanged tree yields an identical Set.
func Resolve(ctx context.Context, specifier string) (*Set, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolving input specifier.", "specifier", specifier)

	if strings.ContainsAny(specifier, "*?") {
		return resolvePattern(ctx, specifier)
	}

	info, err := os.Stat(specifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoInput, specifier)
	}

	if info.Mode().IsRegular() {
		if !recognized(specifier) || hidden(specifier) {
			return nil, fmt.Errorf("%w: %s is not a recognized FASTA file", ErrNoInput, specifier)
		}
		logger.Debug("Resolved single input file.", "path", specifier)
		return newSet([]string{specifier}), nil
	}

	if info.IsDir() {
		return resolveDir(ctx, specifier)
	}

	return nil, fmt.Errorf("%w: %s", ErrNoInput, specifier)
}

func resolvePattern(ctx context.Context, pattern string) (*Set, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad input pattern %q: %w", pattern, err)
	}

	var kept []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if recognized(m) && !hidden(m) {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: pattern %s matched nothing", ErrNoInput, pattern)
	}

	ctxlog.FromContext(ctx).Debug("Resolved input pattern.", "pattern", pattern, "matched", len(kept))
	return newSet(kept), nil
}

func resolveDir(ctx context.Context, dir string) (*Set, error) {
	var kept []string
	for _, ext := range recognizedExtensions {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			if !hidden(m) {
				kept = append(kept, m)
			}
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: directory %s contains no FASTA files", ErrNoInput, dir)
	}

	ctxlog.FromContext(ctx).Debug("Resolved input directory.", "dir", dir, "matched", len(kept))
	return newSet(kept), nil
}
