// Package app wires the pipeline components together and owns the run
// lifecycle: catalog loading, input resolution, scheduling, and the final
// summary.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/bbeckley/ecolityper/internal/catalog"
	"github.com/bbeckley/ecolityper/internal/config"
	"github.com/bbeckley/ecolityper/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	catalog *config.Catalog
	cfg     *Config
}

// NewApp constructs the application: a fully initialized instance with its
// own isolated logger and loaded tool catalog. A failure to load the catalog
// is a fatal startup error and panics; the entrypoint recovers it into a
// clean exit message.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var (
		cat *config.Catalog
		err error
	)
	if cfg.CatalogPath != "" {
		cat, err = loader.Load(ctx, cfg.CatalogPath)
	} else {
		cat, err = loader.LoadFS(ctx, catalog.FS())
	}
	if err != nil {
		panic(fmt.Errorf("failed to load tool catalog: %w", err))
	}
	logger.Debug("Tool catalog loaded.", "tools", cat.Names())

	for name := range cfg.Skip {
		if cat.Get(name) == nil {
			panic(fmt.Errorf("unknown tool in skip flags: %q", name))
		}
	}

	return &App{
		outW:    outW,
		logger:  logger,
		catalog: cat,
		cfg:     cfg,
	}
}

// Catalog returns the application's loaded tool catalog. Primarily for
// testing.
func (a *App) Catalog() *config.Catalog {
	return a.catalog
}
