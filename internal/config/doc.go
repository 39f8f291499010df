// Package config defines the format-agnostic model describing the wrapped
// analysis tools, along with the Loader interface for reading tool manifests
// from a concrete format. The `config.Spec` is the single source of truth
// for the `scheduler` and `task` packages; the HCL implementation of the
// Loader lives in a separate package.
package config
