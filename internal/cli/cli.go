// Package cli parses the command line into an app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bbeckley/ecolityper/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// skipFlags lists the per-tool skip options exposed on the command line.
var skipFlags = []string{"mlst", "serotyping", "chtyper", "phylogrouping", "abricate", "amrfinder", "lineage"}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	defaults, err := loadEnvDefaults()
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	flagSet := flag.NewFlagSet("ecolityper", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
EcoliTyper - Complete E. coli typing pipeline orchestrator.

Usage:
  ecolityper -i INPUT -o OUTPUT [options]

Arguments:
  INPUT
    A FASTA file, a directory of FASTA files, or a glob pattern like "*.fna".
    Supported extensions: .fna, .fasta, .fa, .fsa

Options:
`)
		flagSet.PrintDefaults()
	}

	inputFlag := flagSet.String("input", "", "Input FASTA file(s); accepts glob patterns.")
	iFlag := flagSet.String("i", "", "Input FASTA file(s) (shorthand).")
	outputFlag := flagSet.String("output", "", "Output directory for all results.")
	oFlag := flagSet.String("o", "", "Output directory for all results (shorthand).")
	threadsFlag := flagSet.Int("threads", defaults.Threads, "Number of threads shared across analyses.")
	tFlag := flagSet.Int("t", defaults.Threads, "Number of threads (shorthand).")
	toolsRootFlag := flagSet.String("tools-root", defaults.ToolsRoot, "Directory containing the installed analysis tools.")
	catalogFlag := flagSet.String("catalog-path", "", "Path to HCL tool manifests overriding the built-in catalog.")
	logFormatFlag := flagSet.String("log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	skips := make(map[string]*bool, len(skipFlags))
	for _, name := range skipFlags {
		skips[name] = flagSet.Bool("skip-"+name, false, "Skip the "+name+" analysis.")
	}

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	input := *inputFlag
	if input == "" {
		input = *iFlag
	}
	outputDir := *outputFlag
	if outputDir == "" {
		outputDir = *oFlag
	}
	threads := *threadsFlag
	if threads == defaults.Threads && *tFlag != defaults.Threads {
		threads = *tFlag
	}

	if input == "" || outputDir == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	skip := make(map[string]bool, len(skips))
	for name, flagVal := range skips {
		if *flagVal {
			skip[name] = true
		}
	}

	cfg, err := app.NewConfig(app.Config{
		Input:       input,
		Output:      outputDir,
		ToolsRoot:   *toolsRootFlag,
		CatalogPath: *catalogFlag,
		Threads:     threads,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		Skip:        skip,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return cfg, false, nil
}
