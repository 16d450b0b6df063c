package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/application/handlers"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/ports"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/config"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/graph"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/logging"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/relationaldb/sqlite"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config       *config.Config
	Logger       *zap.SugaredLogger
	BuildHandler *handlers.BuildHandler
	NamesHandler *handlers.NamesHandler
	QueryHandler *handlers.QueryHandler
}

// internalDeps holds all dependencies including low-level components.
// Used internally by helper functions.
type internalDeps struct {
	Deps
	store  *sqlite.Repository
	source *graph.DirSource
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	return withInternalDeps(ctx, func(d *internalDeps) error {
		return fn(&d.Deps)
	})
}

// withInternalDeps provides access to all dependencies including low-level components.
// Used by commands that need direct repository or source access.
func withInternalDeps(ctx context.Context, fn func(*internalDeps) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // stderr sync fails on some terminals

	if cfg.SQLite.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.SQLite.Path), 0755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}
	store, err := sqlite.NewRepository(cfg.SQLite)
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer store.Close()

	// Ensure schema exists
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	source := graph.NewDirSource(cfg.Paths.Documents, cfg.Paths.DocumentExt)
	pipeline := handlers.NewPipeline(cfg, logger)

	deps := &internalDeps{
		Deps: Deps{
			Config:       cfg,
			Logger:       logger,
			BuildHandler: handlers.NewBuildHandler(pipeline, source, store, logger),
			NamesHandler: handlers.NewNamesHandler(pipeline, source, logger),
			QueryHandler: handlers.NewQueryHandler(store),
		},
		store:  store,
		source: source,
	}

	return fn(deps)
}

// withStore provides direct career store access for commands like export.
func withStore(ctx context.Context, fn func(ports.CareerStore) error) error {
	return withInternalDeps(ctx, func(d *internalDeps) error {
		return fn(d.store)
	})
}

// loadConfig loads the project config from the working directory and applies
// the --dataset selection.
func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if globalDataset == "" {
		return cfg, nil
	}

	datasets, err := config.LoadDatasets(cwd)
	if err != nil {
		return nil, fmt.Errorf("loading datasets: %w", err)
	}
	entry, err := datasets.Get(globalDataset)
	if err != nil {
		return nil, err
	}
	return cfg.ForDataset(cwd, globalDataset, *entry), nil
}

// openStore opens the SQLite career store.
func openStore(cfg config.SQLiteConfig) (ports.CareerStore, error) {
	repo, err := sqlite.NewRepository(cfg)
	if err != nil {
		return nil, err
	}
	return repo, nil
}
