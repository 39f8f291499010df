package task

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/bbeckley/ecolityper/internal/config"
	"github.com/bbeckley/ecolityper/internal/console"
	"github.com/bbeckley/ecolityper/internal/fileset"
	hclloader "github.com/bbeckley/ecolityper/internal/hcl"
	"github.com/bbeckley/ecolityper/internal/workspace"
)

// loadSpec parses a single-tool manifest into a Spec, so tests exercise the
// same args expressions production manifests use.
func loadSpec(t *testing.T, manifest string) *config.Spec {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool.hcl")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))
	catalog, err := hclloader.NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, catalog.Specs, 1)
	return catalog.Specs[0]
}

type fixture struct {
	toolsRoot  string
	outputRoot string
	out        *bytes.Buffer
	registry   *workspace.Registry
	runner     *Runner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		toolsRoot:  t.TempDir(),
		outputRoot: t.TempDir(),
		out:        &bytes.Buffer{},
		registry:   &workspace.Registry{},
	}
	f.runner = NewRunner(f.toolsRoot, f.outputRoot, console.New(f.out), f.registry)
	return f
}

// installScript writes an executable shell stub as a tool's entry script.
func (f *fixture) installScript(t *testing.T, workdir, body string) {
	t.Helper()
	dir := filepath.Join(f.toolsRoot, workdir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	script := filepath.Join(dir, "run.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\n"+body), 0o755))
}

func inputSet(t *testing.T, names ...string) *fileset.Set {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(">seq\nACGT\n"), 0o644))
	}
	set, err := fileset.Resolve(context.Background(), dir)
	require.NoError(t, err)
	return set
}

const stubManifest = `
tool "stub" {
  description = "stub analysis"
  script      = "run.sh"
  workdir     = "stub"
  args        = [input, "-t", threads]
  artifact    = "results"
}
`

func TestRun_SuccessSingleInput(t *testing.T) {
	t.Parallel()

	// Arrange
	f := newFixture(t)
	f.installScript(t, "stub", `mkdir -p results
echo "$@" > results/argv.out
`)
	spec := loadSpec(t, stubManifest)
	set := inputSet(t, "genome.fna")

	// Act
	res := f.runner.Run(context.Background(), spec, set, 2)

	// Assert
	require.Equal(t, StatusSuccess, res.Status)
	require.True(t, res.Succeeded())
	require.Equal(t, filepath.Join(f.outputRoot, "stub_results"), res.OutputDir)

	argv, err := os.ReadFile(filepath.Join(res.OutputDir, "argv.out"))
	require.NoError(t, err)
	require.Equal(t, "genome.fna -t 2\n", string(argv))

	// The workspace holds only the tool installation afterwards.
	workdir := filepath.Join(f.toolsRoot, "stub")
	_, err = os.Stat(filepath.Join(workdir, "genome.fna"))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(workdir, "results"))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(workdir, "run.sh"))
	require.NoError(t, err)
}

func TestRun_MultipleInputsReceivePattern(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.installScript(t, "stub", `mkdir -p results
printf '%s\n' "$1" > results/argv.out
`)
	spec := loadSpec(t, stubManifest)
	set := inputSet(t, "g1.fna", "g2.fna")

	res := f.runner.Run(context.Background(), spec, set, 4)

	require.Equal(t, StatusSuccess, res.Status)
	argv, err := os.ReadFile(filepath.Join(res.OutputDir, "argv.out"))
	require.NoError(t, err)
	require.Equal(t, "*.fna\n", string(argv))
}

func TestRun_MissingArtifactFails(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.installScript(t, "stub", `echo boom >&2
exit 0
`)
	spec := loadSpec(t, stubManifest)
	set := inputSet(t, "genome.fna")

	res := f.runner.Run(context.Background(), spec, set, 1)

	require.Equal(t, StatusFailed, res.Status)
	require.False(t, res.Succeeded())
	require.Equal(t, "boom", res.Stderr)
	require.Contains(t, f.out.String(), "produced no output artifact")
	require.Contains(t, f.out.String(), "stderr: boom")

	// Staged inputs are removed on the failure path too.
	_, err := os.Stat(filepath.Join(f.toolsRoot, "stub", "genome.fna"))
	require.True(t, os.IsNotExist(err))
}

func TestRun_NonZeroExitWithArtifactSucceeds(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.installScript(t, "stub", `mkdir -p results
echo ok > results/out.tsv
exit 3
`)
	spec := loadSpec(t, stubManifest)
	set := inputSet(t, "genome.fna")

	res := f.runner.Run(context.Background(), spec, set, 1)

	require.Equal(t, StatusSuccess, res.Status)
	require.NoError(t, res.Err)
}

func TestRun_PatternToolReceivesGlobForSingleInput(t *testing.T) {
	t.Parallel()

	// Arrange: a pattern-accepting tool sees the glob even with one genome.
	f := newFixture(t)
	f.installScript(t, "stub", `mkdir -p results
printf '%s\n' "$1" > results/argv.out
`)
	spec := loadSpec(t, `
tool "stub" {
  script          = "run.sh"
  workdir         = "stub"
  args            = [input]
  artifact        = "results"
  accepts_pattern = true
}
`)
	set := inputSet(t, "genome.fna")

	// Act
	res := f.runner.Run(context.Background(), spec, set, 1)

	// Assert
	require.Equal(t, StatusSuccess, res.Status)
	argv, err := os.ReadFile(filepath.Join(res.OutputDir, "argv.out"))
	require.NoError(t, err)
	require.Equal(t, "*.fna\n", string(argv))
}

func TestRun_WarnMarkersDowngradeToWarnings(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.installScript(t, "stub", `mkdir -p results
printf 'sample1\tST-131\nsample2\tUNKNOWN\n' > results/summary.tsv
echo 'allele coverage below threshold' >&2
`)
	spec := loadSpec(t, `
tool "stub" {
  script       = "run.sh"
  workdir      = "stub"
  args         = [input]
  artifact     = "results"
  warn_file    = "summary.tsv"
  warn_markers = ["UNKNOWN", "ND"]
}
`)
	set := inputSet(t, "genome.fna")

	res := f.runner.Run(context.Background(), spec, set, 1)

	require.Equal(t, StatusSuccessWithWarnings, res.Status)
	require.True(t, res.Succeeded())
	require.Contains(t, f.out.String(), "unresolved")
	require.Contains(t, f.out.String(), "stub stderr: allele coverage below threshold")
}

func TestRun_UnexpectedPanicIsContainedAndCleaned(t *testing.T) {
	t.Parallel()

	// Arrange: a spec with no args expression makes command construction
	// panic after the inputs are already staged.
	f := newFixture(t)
	f.installScript(t, "stub", `mkdir -p results
`)
	spec := &config.Spec{
		Name:       "stub",
		Script:     "run.sh",
		Workdir:    "stub",
		Artifact:   "results",
		NeedsInput: true,
	}
	set := inputSet(t, "genome.fna")

	// Act
	res := f.runner.Run(context.Background(), spec, set, 1)

	// Assert: the panic is converted into a failed result, never propagated.
	require.Equal(t, StatusFailed, res.Status)
	require.ErrorContains(t, res.Err, "panicked")
	require.False(t, res.End.IsZero())
	require.Contains(t, f.out.String(), "stub failed")

	// The deferred cleanup still ran.
	_, err := os.Stat(filepath.Join(f.toolsRoot, "stub", "genome.fna"))
	require.True(t, os.IsNotExist(err))
}

func TestRun_MissingScript(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	spec := loadSpec(t, stubManifest)
	set := inputSet(t, "genome.fna")

	res := f.runner.Run(context.Background(), spec, set, 1)

	require.Equal(t, StatusFailed, res.Status)
	require.ErrorIs(t, res.Err, ErrScriptMissing)
	require.Contains(t, f.out.String(), "script not found")
}

func TestRun_NoInputToolStagesNothing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.installScript(t, "stub", `mkdir -p results
ls > results/listing.out
`)
	spec := loadSpec(t, `
tool "stub" {
  script      = "run.sh"
  workdir     = "stub"
  args        = []
  artifact    = "results"
  needs_input = false
}
`)
	set := inputSet(t, "genome.fna")

	res := f.runner.Run(context.Background(), spec, set, 1)

	require.Equal(t, StatusSuccess, res.Status)
	listing, err := os.ReadFile(filepath.Join(res.OutputDir, "listing.out"))
	require.NoError(t, err)
	require.NotContains(t, string(listing), "genome.fna")
}

func TestRun_FileArtifactCopiedIntoResultsDir(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.installScript(t, "stub", `echo '<html>' > report.html
`)
	spec := loadSpec(t, `
tool "stub" {
  script   = "run.sh"
  workdir  = "stub"
  args     = [input]
  artifact = "report.html"
}
`)
	set := inputSet(t, "genome.fna")

	res := f.runner.Run(context.Background(), spec, set, 1)

	require.Equal(t, StatusSuccess, res.Status)
	data, err := os.ReadFile(filepath.Join(res.OutputDir, "report.html"))
	require.NoError(t, err)
	require.Equal(t, "<html>\n", string(data))

	// The workspace copy of the report is scratch and gets purged.
	_, err = os.Stat(filepath.Join(f.toolsRoot, "stub", "report.html"))
	require.True(t, os.IsNotExist(err))
}

func TestRun_StaleResultsAreReplaced(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.installScript(t, "stub", `mkdir -p results
echo fresh > results/out.tsv
`)
	spec := loadSpec(t, stubManifest)
	set := inputSet(t, "genome.fna")

	stale := filepath.Join(f.outputRoot, "stub_results")
	require.NoError(t, os.MkdirAll(stale, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stale, "old.tsv"), []byte("stale"), 0o644))

	res := f.runner.Run(context.Background(), spec, set, 1)

	require.Equal(t, StatusSuccess, res.Status)
	_, err := os.Stat(filepath.Join(stale, "old.tsv"))
	require.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(filepath.Join(stale, "out.tsv"))
	require.NoError(t, err)
	require.Equal(t, "fresh\n", string(data))
}

func TestRun_RegistersWorkspaceForEmergencyCleanup(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.installScript(t, "stub", `mkdir -p results
`)
	spec := loadSpec(t, stubManifest)
	set := inputSet(t, "genome.fna")

	f.runner.Run(context.Background(), spec, set, 1)

	require.Equal(t, 1, f.registry.Len())
}

func TestExcerpt_TrimsOnRuneBoundary(t *testing.T) {
	t.Parallel()

	// The cut point lands mid-rune; the excerpt backs off to the boundary.
	long := strings.Repeat("a", stderrExcerptLen-1) + "éé"
	got := excerpt(long)
	require.True(t, utf8.ValidString(got))
	require.Equal(t, strings.Repeat("a", stderrExcerptLen-1), got)

	require.Equal(t, "trimmed", excerpt(" trimmed \n"))
}

func TestSkipped_Result(t *testing.T) {
	t.Parallel()

	res := Skipped("mlst")
	require.Equal(t, "mlst", res.Tool)
	require.Equal(t, StatusSkipped, res.Status)
	require.False(t, res.Succeeded())
}
