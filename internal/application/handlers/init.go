package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/ports"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/config"
)

// StoreOpener opens the career store described by cfg.
type StoreOpener func(cfg config.SQLiteConfig) (ports.CareerStore, error)

// InitHandler handles project initialization.
type InitHandler struct {
	openStore StoreOpener
}

// NewInitHandler creates a new init handler. openStore may be nil to skip
// creating the database.
func NewInitHandler(openStore StoreOpener) *InitHandler {
	return &InitHandler{
		openStore: openStore,
	}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath   string
	DatabasePath string
	Documents    string
}

// Handle writes the default configuration under basePath and creates the
// database schema.
func (h *InitHandler) Handle(ctx context.Context, basePath string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("cleva already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	result := &InitResult{
		ConfigPath: config.ConfigFilePath(basePath),
		Documents:  cfg.Paths.Documents,
	}
	if h.openStore == nil {
		return result, nil
	}

	if err := EnsureStore(ctx, h.openStore, cfg.SQLite); err != nil {
		return nil, err
	}
	result.DatabasePath = cfg.SQLite.Path
	return result, nil
}

// EnsureStore opens the store at cfg, creates its schema and closes it.
func EnsureStore(ctx context.Context, openStore StoreOpener, cfg config.SQLiteConfig) error {
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
