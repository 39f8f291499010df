package config

import (
	"github.com/hashicorp/hcl/v2"
)

// Spec is the format-agnostic description of one wrapped analysis tool: how
// to invoke it, where it deposits results, and what must be purged from its
// workspace afterwards.
type Spec struct {
	// Name is the tool's unique key, e.g. "mlst".
	Name        string
	Description string

	// Interpreter is the program used to launch Script, e.g. "python3".
	// Empty means Script is invoked directly.
	Interpreter string
	// Script is the tool's entry script filename inside Workdir.
	Script string
	// Workdir is the tool's own directory, relative to the tools root. It
	// doubles as the task's private workspace.
	Workdir string

	// Args is the command argument template, held as an unevaluated
	// expression. It is evaluated per run against the run variables
	// (input, pattern, output, threads).
	Args hcl.Expression

	// Artifact is the relative path (directory or file) whose presence
	// after execution marks the run as successful. Exit status is advisory
	// only; the artifact is authoritative.
	Artifact string
	// ResultsName is the subdirectory created under the shared output root
	// to hold this tool's copied results.
	ResultsName string

	// WarnFile, when set, names a file inside the copied results whose
	// content is scanned for WarnMarkers. A hit downgrades Success to
	// SuccessWithWarnings, never to Failed.
	WarnFile    string
	WarnMarkers []string

	// CleanupDirs lists workspace subdirectories this tool generates that
	// must be purged on cleanup, in addition to the shared known-output
	// list.
	CleanupDirs []string

	// Exclusive marks a resource-heavy tool that must run alone, strictly
	// after the parallel batch has drained.
	Exclusive bool
	// AcceptsPattern marks a tool invoked with a glob pattern rather than
	// an explicit filename: the input run variable then always resolves to
	// the derived pattern, even when only one file is staged.
	AcceptsPattern bool
	// NeedsInput is false for tools that take no staged inputs at all,
	// such as the lineage reference generator.
	NeedsInput bool
}

// Catalog is the loaded collection of tool specs, in manifest order.
type Catalog struct {
	Specs []*Spec
}

// Get returns the spec with the given name, or nil.
func (c *Catalog) Get(name string) *Spec {
	for _, s := range c.Specs {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Names returns the tool names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Specs))
	for _, s := range c.Specs {
		names = append(names, s.Name)
	}
	return names
}
