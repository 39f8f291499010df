// Package schema declares the HCL structures for tool manifest files.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// Tool represents a `tool` block from a manifest file. It describes one
// wrapped analysis tool: its invocation, expected artifacts, and cleanup
// obligations.
type Tool struct {
	Name        string `hcl:"name,label"`
	Description string `hcl:"description,optional"`

	Interpreter string `hcl:"interpreter,optional"`
	Script      string `hcl:"script"`
	Workdir     string `hcl:"workdir"`

	// Args is kept as an expression so run variables (input, pattern,
	// output, threads) can be interpolated at execution time.
	Args hcl.Expression `hcl:"args"`

	Artifact    string `hcl:"artifact"`
	ResultsName string `hcl:"results_name,optional"`

	WarnFile    string   `hcl:"warn_file,optional"`
	WarnMarkers []string `hcl:"warn_markers,optional"`

	CleanupDirs []string `hcl:"cleanup_dirs,optional"`

	Exclusive      bool  `hcl:"exclusive,optional"`
	AcceptsPattern bool  `hcl:"accepts_pattern,optional"`
	NeedsInput     *bool `hcl:"needs_input,optional"`
}

// CatalogFile represents the top-level structure of a manifest file,
// containing any number of tool blocks.
type CatalogFile struct {
	Tools []*Tool  `hcl:"tool,block"`
	Body  hcl.Body `hcl:",remain"`
}
