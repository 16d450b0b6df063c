package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/ports"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/graph"
)

// CoverageStats counts resolved names by source.
type CoverageStats struct {
	Total     int `json:"total"`
	Primary   int `json:"primary"`
	Secondary int `json:"secondary"`
	None      int `json:"none"`
}

// Add counts one record.
func (c *CoverageStats) Add(rec entities.NameRecord) {
	c.Total++
	switch rec.Source {
	case entities.NameSourcePrimary:
		c.Primary++
	case entities.NameSourceSecondary:
		c.Secondary++
	default:
		c.None++
	}
}

// Localized returns the number of records with a localized name.
func (c CoverageStats) Localized() int {
	return c.Primary + c.Secondary
}

// NameCacheResult is a freshly built name cache with coverage statistics.
type NameCacheResult struct {
	Cache   *NameCache
	Members CoverageStats
	Groups  CoverageStats
	Errors  []DocumentError
}

// NameCacheBuilder resolves the name of every member and group mentioned in
// a corpus so later runs can skip dynamic resolution.
type NameCacheBuilder struct {
	source   ports.DocumentSource
	parser   *graph.Parser
	resolver *NameResolver
	logger   *zap.SugaredLogger
	workers  int
}

// NewNameCacheBuilder creates a builder. resolver should not be backed by a
// cache, otherwise stale entries are copied forward.
func NewNameCacheBuilder(source ports.DocumentSource, parser *graph.Parser, resolver *NameResolver, logger *zap.SugaredLogger, workers int) *NameCacheBuilder {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &NameCacheBuilder{
		source:   source,
		parser:   parser,
		resolver: resolver,
		logger:   logger,
		workers:  workers,
	}
}

type groupName struct {
	record    entities.NameRecord
	described bool
}

type docNames struct {
	member entities.NameRecord
	groups []groupName
	err    error
	path   string
}

// Build scans the corpus. Each group is named from the first document, in
// listing order, whose graph describes it.
func (b *NameCacheBuilder) Build(ctx context.Context) (*NameCacheResult, error) {
	paths, err := b.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	slots := make([]docNames, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, path := range paths {
		g.Go(func() error {
			slots[i] = b.scan(gctx, path)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &NameCacheResult{
		Cache: NewNameCache(
			make(map[entities.EntityID]entities.NameRecord),
			make(map[entities.EntityID]entities.NameRecord),
		),
	}
	described := make(map[entities.EntityID]bool)
	for _, s := range slots {
		if s.err != nil {
			result.Errors = append(result.Errors, DocumentError{Path: s.path, Message: s.err.Error()})
			continue
		}
		if _, ok := result.Cache.Members[s.member.ID]; !ok {
			result.Cache.Members[s.member.ID] = s.member
			result.Members.Add(s.member)
		}
		for _, grp := range s.groups {
			id := grp.record.ID
			if _, ok := result.Cache.Groups[id]; ok && (described[id] || !grp.described) {
				continue
			}
			result.Cache.Groups[id] = grp.record
			described[id] = grp.described
		}
	}
	for _, grp := range result.Cache.Groups {
		result.Groups.Add(grp)
	}

	b.logger.Infow("name cache built",
		"members", result.Members.Total,
		"members_localized", result.Members.Localized(),
		"groups", result.Groups.Total,
		"groups_localized", result.Groups.Localized(),
		"errors", len(result.Errors),
	)
	return result, nil
}

func (b *NameCacheBuilder) scan(ctx context.Context, path string) docNames {
	out := docNames{path: path}
	doc, err := b.source.Load(ctx, path)
	if err != nil {
		out.err = err
		return out
	}

	out.member = b.resolver.Resolve(doc.ID, doc)

	var ids []entities.EntityID
	raws, _ := b.parser.Affiliations(doc)
	for _, raw := range raws {
		ids = append(ids, raw.GroupID)
	}
	for _, j := range b.parser.Jerseys(doc) {
		ids = append(ids, j.Teams...)
	}

	seen := make(map[entities.EntityID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		_, described := doc.Entity(id)
		out.groups = append(out.groups, groupName{
			record:    b.resolver.Resolve(id, doc),
			described: described,
		})
	}
	return out
}
