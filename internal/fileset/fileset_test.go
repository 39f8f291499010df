package fileset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(">seq\nACGT\n"), 0o644))
	return path
}

func TestPattern_UniformExtension(t *testing.T) {
	t.Parallel()

	set := newSet([]string{"/data/a.fna", "/data/b.fna"})
	require.Equal(t, "*.fna", set.Pattern())
}

func TestPattern_MixedExtensions(t *testing.T) {
	t.Parallel()

	set := newSet([]string{"/data/a.fna", "/data/b.fasta"})
	require.Equal(t, "*", set.Pattern())
}

func TestPattern_SingleFile(t *testing.T) {
	t.Parallel()

	set := newSet([]string{"/data/a.fna"})
	require.Equal(t, "*.fna", set.Pattern())
}

func TestPattern_UpperCaseExtensionIsLowered(t *testing.T) {
	t.Parallel()

	set := newSet([]string{"/data/a.FNA", "/data/b.fna"})
	require.Equal(t, "*.fna", set.Pattern())
}

func TestResolve_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "genome.fna")

	set, err := Resolve(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, []string{"genome.fna"}, set.Names())
	require.Equal(t, ".fna", set.Files[0].Ext)
}

func TestResolve_SingleFileWrongExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "notes.gbk")

	_, err := Resolve(context.Background(), path)
	require.ErrorIs(t, err, ErrNoInput)
}

func TestResolve_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "b.fasta")
	writeFile(t, dir, "a.fna")
	writeFile(t, dir, ".hidden.fna")
	writeFile(t, dir, "readme.txt")

	set, err := Resolve(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, []string{"a.fna", "b.fasta"}, set.Names())
}

func TestResolve_Wildcard(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "g2.fna")
	writeFile(t, dir, "g1.fna")
	writeFile(t, dir, "other.fasta")
	writeFile(t, dir, ".dot.fna")

	set, err := Resolve(context.Background(), filepath.Join(dir, "*.fna"))
	require.NoError(t, err)
	require.Equal(t, []string{"g1.fna", "g2.fna"}, set.Names())
	require.Equal(t, "*.fna", set.Pattern())
}

func TestResolve_WildcardNoMatches(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := Resolve(context.Background(), filepath.Join(dir, "*.fna"))
	require.ErrorIs(t, err, ErrNoInput)
}

func TestResolve_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := Resolve(context.Background(), "/no/such/path.fna")
	require.ErrorIs(t, err, ErrNoInput)
}

func TestResolve_Idempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.fna")
	writeFile(t, dir, "b.fna")

	first, err := Resolve(context.Background(), dir)
	require.NoError(t, err)
	second, err := Resolve(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestResolve_DirectoryDeduplicates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.fna")

	set, err := Resolve(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
}
