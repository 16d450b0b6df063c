package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/ports"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/services"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/namecache"
)

// NamesHandler builds and saves the name cache.
type NamesHandler struct {
	pipeline *Pipeline
	source   ports.DocumentSource
	logger   *zap.SugaredLogger
}

// NewNamesHandler creates a new names handler.
func NewNamesHandler(pipeline *Pipeline, source ports.DocumentSource, logger *zap.SugaredLogger) *NamesHandler {
	return &NamesHandler{
		pipeline: pipeline,
		source:   source,
		logger:   logger,
	}
}

// NamesOptions controls name cache building.
type NamesOptions struct {
	DryRun bool // Resolve names without writing the cache
}

// NamesResult contains the result of a name cache build.
type NamesResult struct {
	CacheDir string
	Members  services.CoverageStats
	Groups   services.CoverageStats
	Errors   []services.DocumentError
	Written  bool
}

// Handle resolves member and group names across the corpus. The build
// resolves from the documents and the name table only, never from an
// existing cache.
func (h *NamesHandler) Handle(ctx context.Context, opts NamesOptions) (*NamesResult, error) {
	table, err := h.pipeline.LoadNameTable()
	if err != nil {
		return nil, err
	}

	builder := services.NewNameCacheBuilder(
		h.source,
		h.pipeline.Parser(),
		h.pipeline.Resolver(nil, table),
		h.logger,
		h.pipeline.Config().Batch.Workers,
	)

	built, err := builder.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("building name cache: %w", err)
	}

	result := &NamesResult{
		CacheDir: h.pipeline.Config().Paths.CacheDir,
		Members:  built.Members,
		Groups:   built.Groups,
		Errors:   built.Errors,
	}
	if opts.DryRun {
		return result, nil
	}

	if err := namecache.Save(result.CacheDir, built.Cache.Members, built.Cache.Groups); err != nil {
		return nil, fmt.Errorf("saving name cache: %w", err)
	}
	result.Written = true
	return result, nil
}
