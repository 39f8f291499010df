package hcl

import (
	"fmt"

	"github.com/bbeckley/ecolityper/internal/config"
	"github.com/bbeckley/ecolityper/internal/schema"
)

// translateTool converts the HCL-specific tool schema into the agnostic model,
// applying manifest defaults and validating required fields.
func translateTool(t *schema.Tool) (*config.Spec, error) {
	if t.Name == "" {
		return nil, fmt.Errorf("tool block is missing its name label")
	}
	if t.Script == "" {
		return nil, fmt.Errorf("tool %q: script is required", t.Name)
	}
	if t.Workdir == "" {
		return nil, fmt.Errorf("tool %q: workdir is required", t.Name)
	}
	if t.Artifact == "" {
		return nil, fmt.Errorf("tool %q: artifact is required", t.Name)
	}
	if t.WarnFile == "" && len(t.WarnMarkers) > 0 {
		return nil, fmt.Errorf("tool %q: warn_markers require warn_file", t.Name)
	}

	spec := &config.Spec{
		Name:           t.Name,
		Description:    t.Description,
		Interpreter:    t.Interpreter,
		Script:         t.Script,
		Workdir:        t.Workdir,
		Args:           t.Args,
		Artifact:       t.Artifact,
		ResultsName:    t.ResultsName,
		WarnFile:       t.WarnFile,
		WarnMarkers:    t.WarnMarkers,
		CleanupDirs:    t.CleanupDirs,
		Exclusive:      t.Exclusive,
		AcceptsPattern: t.AcceptsPattern,
		NeedsInput:     true,
	}
	if spec.ResultsName == "" {
		spec.ResultsName = t.Name + "_results"
	}
	if t.NeedsInput != nil {
		spec.NeedsInput = *t.NeedsInput
	}
	return spec, nil
}
