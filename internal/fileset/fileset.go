// Package fileset resolves an input specifier (path, directory, or wildcard
// pattern) into a concrete, deduplicated, sorted set of genome assembly files.
package fileset

import (
	"path/filepath"
	"sort"
	"strings"
)

// recognizedExtensions lists the FASTA file extensions the pipeline accepts.
var recognizedExtensions = []string{".fna", ".fasta", ".fa", ".fsa"}

// File is a single resolved input file.
type File struct {
	// Path is the file's path exactly as resolved from the specifier.
	Path string
	// Ext is the lower-cased file extension, including the leading dot.
	Ext string
}

// Name returns the file's base name.
func (f File) Name() string {
	return filepath.Base(f.Path)
}

// Set is an ordered, duplicate-free collection of input files.
type Set struct {
	Files []File
}

// Empty reports whether the set contains no files.
func (s *Set) Empty() bool {
	return s == nil || len(s.Files) == 0
}

// Len returns the number of files in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Files)
}

// Names returns the base names of all files, in set order.
func (s *Set) Names() []string {
	names := make([]string, 0, s.Len())
	for _, f := range s.Files {
		names = append(names, f.Name())
	}
	return names
}

// Extensions returns the distinct lower-cased extensions present in the set,
// sorted.
func (s *Set) Extensions() []string {
	seen := make(map[string]struct{})
	for _, f := range s.Files {
		seen[f.Ext] = struct{}{}
	}
	exts := make([]string, 0, len(seen))
	for ext := range seen {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Pattern derives a glob expression summarising the set for tools that accept
// a pattern rather than an explicit file list. If every file shares one
// extension the pattern is "*<ext>"; mixed extensions collapse to the
// catch-all "*".
func (s *Set) Pattern() string {
	exts := s.Extensions()
	if len(exts) == 1 {
		return "*" + exts[0]
	}
	return "*"
}

func recognized(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range recognizedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

func newSet(paths []string) *Set {
	unique := make(map[string]struct{}, len(paths))
	deduped := paths[:0]
	for _, p := range paths {
		if _, ok := unique[p]; ok {
			continue
		}
		unique[p] = struct{}{}
		deduped = append(deduped, p)
	}
	sort.Strings(deduped)

	files := make([]File, 0, len(deduped))
	for _, p := range deduped {
		files = append(files, File{Path: p, Ext: strings.ToLower(filepath.Ext(p))})
	}
	return &Set{Files: files}
}
