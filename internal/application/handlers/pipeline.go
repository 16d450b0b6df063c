// Package handlers contains application use case handlers.
package handlers

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/services"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/config"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/graph"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/namecache"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/parsers"
)

// Pipeline assembles the corpus components described by a Config.
type Pipeline struct {
	cfg    *config.Config
	logger *zap.SugaredLogger
}

// NewPipeline creates a pipeline for cfg.
func NewPipeline(cfg *config.Config, logger *zap.SugaredLogger) *Pipeline {
	return &Pipeline{cfg: cfg, logger: logger}
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() *config.Config {
	return p.cfg
}

// Parser returns a statement parser for the configured properties.
func (p *Pipeline) Parser() *graph.Parser {
	g := p.cfg.Graph
	return graph.NewParser(graph.Properties{
		Membership: g.Membership,
		Start:      g.Start,
		End:        g.End,
		Jersey:     g.Jersey,
		Birth:      g.Birth,
	})
}

// Categorizer returns a categorizer for the configured markers.
func (p *Pipeline) Categorizer() *services.Categorizer {
	return services.NewCategorizer(services.CategoryMarkers{
		Youth:    p.cfg.Categories.Youth,
		National: p.cfg.Categories.National,
	})
}

// NameOptions returns the configured name languages.
func (p *Pipeline) NameOptions() services.NameOptions {
	return services.NameOptions{
		PrimaryLanguage: p.cfg.Names.PrimaryLanguage,
		Targets:         p.cfg.Names.Targets,
	}
}

// BatchOptions returns the configured batch limits.
func (p *Pipeline) BatchOptions() services.BatchOptions {
	return services.BatchOptions{
		Workers:         p.cfg.Batch.Workers,
		DocumentTimeout: p.cfg.Batch.DocumentTimeout,
	}
}

// LoadNameTable reads the secondary name table. A missing file yields a nil
// table and a warning.
func (p *Pipeline) LoadNameTable() (*services.NameTable, error) {
	path := p.cfg.Paths.NameTable
	if path == "" {
		return nil, nil
	}

	parser, err := parsers.ForFile(path)
	if err != nil {
		return nil, fmt.Errorf("name table %s: %w", path, err)
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		p.logger.Warnw("name table not found, secondary names disabled", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening name table: %w", err)
	}
	defer f.Close()

	rows, err := parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing name table: %w", err)
	}

	table := services.NewNameTable(rows, p.cfg.Names.Targets)
	p.logger.Infow("name table loaded", "path", path, "rows", len(rows), "entities", table.Len())
	return table, nil
}

// LoadNameCache reads the pre-built name cache. An unavailable cache yields
// nil and a warning so resolution falls back to the documents.
func (p *Pipeline) LoadNameCache() *services.NameCache {
	dir := p.cfg.Paths.CacheDir
	if dir == "" {
		return nil
	}

	members, groups, err := namecache.Load(dir)
	if err != nil {
		p.logger.Warnw("name cache unavailable, resolving names dynamically", "dir", dir, "error", err)
		return nil
	}

	cache := services.NewNameCache(members, groups)
	p.logger.Infow("name cache loaded", "dir", dir, "members", len(members), "groups", len(groups))
	return cache
}

// Resolver builds a name resolver over the cache and table. Either may be nil.
func (p *Pipeline) Resolver(cache *services.NameCache, table *services.NameTable) *services.NameResolver {
	return services.NewNameResolver(p.NameOptions(), cache, table)
}

// TimelineBuilder builds a timeline builder around resolver.
func (p *Pipeline) TimelineBuilder(resolver *services.NameResolver) *services.TimelineBuilder {
	return services.NewTimelineBuilder(p.Parser(), resolver, p.Categorizer(), p.cfg.Timeline.ReferenceYear)
}
