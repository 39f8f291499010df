package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Input  string // input specifier: file, directory, or glob pattern
	Output string // shared result tree root

	ToolsRoot   string // directory holding the installed tool workspaces
	CatalogPath string // optional manifest override; empty means built-ins

	Threads   int
	LogFormat string
	LogLevel  string

	// Skip flags, keyed by tool name.
	Skip map[string]bool
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Input == "" {
		return nil, errors.New("Input is a required configuration field and cannot be empty")
	}
	if cfg.Output == "" {
		return nil, errors.New("Output is a required configuration field and cannot be empty")
	}
	if cfg.Threads < 1 {
		return nil, errors.New("Threads must be at least 1")
	}
	if cfg.Skip == nil {
		cfg.Skip = make(map[string]bool)
	}
	return &cfg, nil
}
