package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/ports"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/services"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// BuildHandler runs a full corpus build: careers, group index and
// candidate teammate pairs.
type BuildHandler struct {
	pipeline *Pipeline
	source   ports.DocumentSource
	store    ports.CareerStore
	logger   *zap.SugaredLogger
}

// NewBuildHandler creates a new build handler. store may be nil when every
// build is a dry run.
func NewBuildHandler(pipeline *Pipeline, source ports.DocumentSource, store ports.CareerStore, logger *zap.SugaredLogger) *BuildHandler {
	return &BuildHandler{
		pipeline: pipeline,
		source:   source,
		store:    store,
		logger:   logger,
	}
}

// BuildOptions controls build behavior.
type BuildOptions struct {
	DryRun bool   // Build without saving to the store
	Output string // Bundle file to write, if set
}

// BuildResult contains the result of a build.
type BuildResult struct {
	Run          entities.BuildRun
	Careers      []entities.CareerRecord
	Unaffiliated []entities.CareerRecord
	GroupIndex   map[entities.EntityID][]entities.Membership
	GroupNames   map[entities.EntityID]entities.NameRecord
	Pairs        []entities.CandidatePair
	Errors       []services.DocumentError
	Warnings     []services.DocumentWarning
	Output       string

	CachedNames   int // Records in the loaded name cache
	SecondaryRows int // Entities in the loaded name table
}

// Handle builds the corpus.
func (h *BuildHandler) Handle(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if !opts.DryRun && h.store == nil {
		return nil, errors.New("no career store configured")
	}

	started := timeNow()
	cfg := h.pipeline.Config()

	table, err := h.pipeline.LoadNameTable()
	if err != nil {
		return nil, err
	}
	cache := h.pipeline.LoadNameCache()
	builder := h.pipeline.TimelineBuilder(h.pipeline.Resolver(cache, table))

	corpus := services.NewCorpusService(h.source, builder, h.logger, h.pipeline.BatchOptions())
	batch, err := corpus.Process(ctx)
	if err != nil {
		return nil, fmt.Errorf("processing corpus: %w", err)
	}

	careers := batch.Careers()
	graph := services.NewTeammateGraph(careers, cfg.Timeline.ReferenceYear)
	pairs := graph.Pairs()

	result := &BuildResult{
		Run: entities.BuildRun{
			ID:            uuid.New().String(),
			StartedAt:     started,
			FinishedAt:    timeNow(),
			ReferenceYear: cfg.Timeline.ReferenceYear,
			Summary:       batch.Summary,
			Pairs:         len(pairs),
		},
		Careers:       careers,
		Unaffiliated:  batch.Unaffiliated,
		GroupIndex:    graph.Index(),
		GroupNames:    make(map[entities.EntityID]entities.NameRecord),
		Pairs:         pairs,
		Errors:        batch.Errors,
		Warnings:      batch.Warnings,
		CachedNames:   cache.Len(),
		SecondaryRows: table.Len(),
	}
	for _, gid := range graph.Groups() {
		if name, ok := graph.GroupName(gid); ok {
			result.GroupNames[gid] = name
		}
	}

	h.logger.Infow("build finished",
		"run", result.Run.ID,
		"careers", len(careers),
		"groups", len(result.GroupIndex),
		"pairs", len(pairs),
		"dry_run", opts.DryRun,
	)

	if !opts.DryRun {
		if err := h.store.SaveBuild(ctx, &result.Run, careers, pairs, batch.RunErrors(result.Run.ID)); err != nil {
			return nil, fmt.Errorf("saving build: %w", err)
		}
	}

	if opts.Output != "" {
		if err := WriteBundle(opts.Output, NewBundle(result)); err != nil {
			return nil, fmt.Errorf("writing bundle: %w", err)
		}
		result.Output = opts.Output
	}

	return result, nil
}
