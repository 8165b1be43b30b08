package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/toolboxsearch/block"
	"github.com/jonwraymond/toolboxsearch/internal/config"
	"github.com/jonwraymond/toolboxsearch/registry"
	"github.com/jonwraymond/toolboxsearch/search"
)

// maxParallelLoads bounds concurrent file reads.
const maxParallelLoads = 8

// sources holds the parsed contents of the configured files, in the order
// the files were given.
type sources struct {
	defs      [][]block.Definition
	toolboxes [][]*block.Info
}

// loadSources reads every definition and toolbox file concurrently.
func loadSources(ctx context.Context, cfg *config.Config) (*sources, error) {
	src := &sources{
		defs:      make([][]block.Definition, len(cfg.Definitions)),
		toolboxes: make([][]*block.Info, len(cfg.Toolboxes)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)

	for i, path := range cfg.Definitions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			defs, err := block.LoadDefinitions(path)
			if err != nil {
				return err
			}
			src.defs[i] = defs
			return nil
		})
	}
	for i, path := range cfg.Toolboxes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			items, err := block.LoadToolbox(path)
			if err != nil {
				return err
			}
			src.toolboxes[i] = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return src, nil
}

// buildRegistry loads the configured files and returns a registry with
// every toolbox indexed. Definitions are registered before any block is
// indexed so every block sees all of them.
func buildRegistry(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*registry.Registry, error) {
	src, err := loadSources(ctx, cfg)
	if err != nil {
		return nil, err
	}

	lib := block.NewLibrary()
	if cfg.Standard {
		lib = block.Standard()
	}

	reg, err := registry.New(registry.Config{
		ServerInfo: registry.ServerInfo{
			Name:    cfg.Server.Name,
			Version: cfg.Server.Version,
		},
		Definitions:  lib,
		SearchConfig: &search.Config{TypeBoost: cfg.Search.TypeBoost},
		CacheSize:    cfg.CacheSize,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create registry: %w", err)
	}

	for i, defs := range src.defs {
		if err := reg.Define(defs...); err != nil {
			_ = reg.Close()
			return nil, fmt.Errorf("%s: %w", cfg.Definitions[i], err)
		}
	}
	total := 0
	for i, items := range src.toolboxes {
		n, err := reg.IndexBlocks(items...)
		if err != nil {
			_ = reg.Close()
			return nil, fmt.Errorf("%s: %w", cfg.Toolboxes[i], err)
		}
		total += n
	}

	logger.Info("registry ready",
		slog.Int("blocks", total),
		slog.Int("definitions", lib.Len()))
	return reg, nil
}
