package config

import (
	"context"
	"io/fs"
)

// Loader is the interface for a format-specific tool-manifest loader.
type Loader interface {
	// Load reads manifests from the given paths (files or directories),
	// translates them into the format-agnostic model, and returns the
	// combined catalog.
	Load(ctx context.Context, paths ...string) (*Catalog, error)

	// LoadFS reads every manifest found in the given filesystem. It serves
	// the compiled-in default catalog.
	LoadFS(ctx context.Context, fsys fs.FS) (*Catalog, error)
}
