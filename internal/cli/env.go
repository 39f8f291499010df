package cli

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the environment variables consulted for defaults.
const envPrefix = "ECOLITYPER_"

// envDefaults are the flag default values, overridable from the
// environment. Flags always win over the environment.
type envDefaults struct {
	Threads   int    `koanf:"threads"`
	ToolsRoot string `koanf:"tools_root"`
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
}

// loadEnvDefaults reads ECOLITYPER_* variables over the hardcoded defaults.
// Example: ECOLITYPER_TOOLS_ROOT -> tools_root.
func loadEnvDefaults() (*envDefaults, error) {
	defaults := &envDefaults{
		Threads:   2,
		ToolsRoot: "modules",
		LogLevel:  "info",
		LogFormat: "text",
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment defaults: %w", err)
	}
	if err := k.Unmarshal("", defaults); err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment defaults: %w", err)
	}
	return defaults, nil
}
