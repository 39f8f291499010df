// Package catalog carries the compiled-in default tool manifests. The seven
// manifests under tools/ describe the standard EcoliTyper analysis modules
// and can be overridden wholesale with the -catalog-path flag.
package catalog

import (
	"embed"
	"io/fs"
)

//go:embed tools/*.hcl
var manifests embed.FS

// FS returns the embedded default manifest filesystem, rooted at the
// directory containing the .hcl files.
func FS() fs.FS {
	sub, err := fs.Sub(manifests, "tools")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return sub
}
