package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bbeckley/ecolityper/internal/app"
	"github.com/bbeckley/ecolityper/internal/cli"
	"github.com/bbeckley/ecolityper/internal/hcl"
)

// main is the entrypoint for the ecolityper pipeline.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, parseErr := cli.Parse(args, outW)
	if parseErr != nil {
		return parseErr
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical startup errors (a broken catalog, for
	// instance); recover here to give the user a clean exit message.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("critical error in analysis pipeline: %v", r)
		}
	}()

	loader := hcl.NewLoader()
	pipeline := app.NewApp(outW, appConfig, loader)

	return pipeline.Run(context.Background())
}
