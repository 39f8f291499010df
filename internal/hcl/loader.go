// Package hcl implements the config.Loader interface for HCL tool manifests.
package hcl

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/bbeckley/ecolityper/internal/config"
	"github.com/bbeckley/ecolityper/internal/ctxlog"
	"github.com/bbeckley/ecolityper/internal/fsutil"
	"github.com/bbeckley/ecolityper/internal/schema"
)

// Loader parses HCL manifest files and translates them into the
// format-agnostic config model.
type Loader struct{}

// NewLoader creates a new HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load implements config.Loader. Each path may be a single .hcl file or a
// directory searched recursively for .hcl files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Catalog, error) {
	logger := ctxlog.FromContext(ctx)
	parser := hclparse.NewParser()
	catalog := &config.Catalog{}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("manifest path %s: %w", path, err)
		}

		files := []string{path}
		if info.IsDir() {
			files, err = fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, fmt.Errorf("failed to find manifests in %s: %w", path, err)
			}
		}
		for _, file := range files {
			hclFile, diags := parser.ParseHCLFile(file)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to parse manifest %s: %w", file, diags)
			}
			if err := l.appendFile(catalog, file, hclFile.Body); err != nil {
				return nil, err
			}
		}
	}

	logger.Debug("Manifest catalog loaded.", "tools", len(catalog.Specs))
	return catalog, nil
}

// LoadFS implements config.Loader for an embedded manifest filesystem.
func (l *Loader) LoadFS(ctx context.Context, fsys fs.FS) (*config.Catalog, error) {
	logger := ctxlog.FromContext(ctx)
	parser := hclparse.NewParser()
	catalog := &config.Catalog{}

	names, err := fs.Glob(fsys, "*.hcl")
	if err != nil {
		return nil, fmt.Errorf("globbing embedded manifests: %w", err)
	}
	for _, name := range names {
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading embedded manifest %s: %w", name, err)
		}
		hclFile, diags := parser.ParseHCL(src, name)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", name, diags)
		}
		if err := l.appendFile(catalog, name, hclFile.Body); err != nil {
			return nil, err
		}
	}

	logger.Debug("Embedded manifest catalog loaded.", "tools", len(catalog.Specs))
	return catalog, nil
}

// appendFile decodes one manifest body and appends its tools to the catalog.
func (l *Loader) appendFile(catalog *config.Catalog, filename string, body hcl.Body) error {
	var parsed schema.CatalogFile
	if diags := gohcl.DecodeBody(body, nil, &parsed); diags.HasErrors() {
		return fmt.Errorf("failed to decode manifest %s: %w", filename, diags)
	}

	for _, tool := range parsed.Tools {
		spec, err := translateTool(tool)
		if err != nil {
			return fmt.Errorf("manifest %s: %w", filename, err)
		}
		if existing := catalog.Get(spec.Name); existing != nil {
			return fmt.Errorf("manifest %s: duplicate tool %q", filename, spec.Name)
		}
		catalog.Specs = append(catalog.Specs, spec)
	}
	return nil
}
