package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/ports"
)

// Default batch limits.
const (
	DefaultWorkers         = 8
	DefaultDocumentTimeout = 30 * time.Second
)

// DocumentError records a document that could not be processed.
type DocumentError struct {
	Path    string
	Message string
}

func (e DocumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// DocumentWarning is a non-fatal issue found while parsing a document.
type DocumentWarning struct {
	Path    string
	Message string
}

// BatchOptions controls corpus processing.
type BatchOptions struct {
	Workers         int
	DocumentTimeout time.Duration
}

// BatchResult is the aggregated output of a corpus run. Unaffiliated holds
// the records of documents that parsed but had no memberships; they are
// counted as skipped and take no part in the group index.
type BatchResult struct {
	Records      map[entities.EntityID]entities.CareerRecord
	Order        []entities.EntityID
	Unaffiliated []entities.CareerRecord
	Errors       []DocumentError
	Warnings     []DocumentWarning
	Summary      entities.BatchSummary
}

// Careers returns the records in corpus order.
func (r *BatchResult) Careers() []entities.CareerRecord {
	out := make([]entities.CareerRecord, 0, len(r.Order))
	for _, id := range r.Order {
		out = append(out, r.Records[id])
	}
	return out
}

// RunErrors converts the document errors for persistence under runID.
func (r *BatchResult) RunErrors(runID string) []entities.RunError {
	out := make([]entities.RunError, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, entities.RunError{RunID: runID, Path: e.Path, Message: e.Message})
	}
	return out
}

// CorpusService builds career records for every document of a corpus.
type CorpusService struct {
	source  ports.DocumentSource
	builder *TimelineBuilder
	logger  *zap.SugaredLogger
	opts    BatchOptions
}

// NewCorpusService creates a corpus service.
func NewCorpusService(source ports.DocumentSource, builder *TimelineBuilder, logger *zap.SugaredLogger, opts BatchOptions) *CorpusService {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.DocumentTimeout <= 0 {
		opts.DocumentTimeout = DefaultDocumentTimeout
	}
	return &CorpusService{
		source:  source,
		builder: builder,
		logger:  logger,
		opts:    opts,
	}
}

// docOutcome is the result slot of one document. described marks the
// groups whose node appears in the document's own graph.
type docOutcome struct {
	path      string
	record    *entities.CareerRecord
	described map[entities.EntityID]bool
	warnings  []string
	err       error
}

// Process builds careers for all documents the source lists.
func (s *CorpusService) Process(ctx context.Context) (*BatchResult, error) {
	paths, err := s.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return s.ProcessPaths(ctx, paths)
}

// ProcessPaths builds careers for the given documents. A document that fails
// is recorded and skipped; only cancellation of ctx aborts the batch.
func (s *CorpusService) ProcessPaths(ctx context.Context, paths []string) (*BatchResult, error) {
	s.logger.Infow("processing corpus", "documents", len(paths), "workers", s.opts.Workers)

	outcomes := make([]docOutcome, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = s.processDocument(gctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := s.reduce(outcomes)
	s.logger.Infow("corpus processed",
		"total", result.Summary.Total,
		"processed", result.Summary.Processed,
		"skipped", result.Summary.Skipped,
		"errored", result.Summary.Errored,
	)
	return result, nil
}

func (s *CorpusService) processDocument(ctx context.Context, path string) docOutcome {
	out := docOutcome{path: path}

	dctx, cancel := context.WithTimeout(ctx, s.opts.DocumentTimeout)
	defer cancel()

	doc, err := s.source.Load(dctx, path)
	if err != nil {
		out.err = err
		return out
	}

	rec, warnings, err := s.builder.Build(dctx, doc)
	if err != nil {
		out.err = fmt.Errorf("building career: %w", err)
		return out
	}
	out.record = &rec
	out.warnings = warnings
	out.described = make(map[entities.EntityID]bool)
	for _, a := range rec.Affiliations {
		if _, ok := doc.Entity(a.GroupID); ok {
			out.described[a.GroupID] = true
		}
	}
	return out
}

// reduce folds the per-document outcomes, in input order, into a result.
func (s *CorpusService) reduce(outcomes []docOutcome) *BatchResult {
	result := &BatchResult{
		Records: make(map[entities.EntityID]entities.CareerRecord),
	}
	result.Summary.Total = len(outcomes)
	groups := make(map[entities.EntityID]groupChoice)

	for _, o := range outcomes {
		for _, w := range o.warnings {
			result.Warnings = append(result.Warnings, DocumentWarning{Path: o.path, Message: w})
		}

		if o.err != nil {
			msg := o.err.Error()
			if errors.Is(o.err, context.DeadlineExceeded) {
				msg = "timed out: " + msg
			}
			s.logger.Warnw("skipping document", "path", o.path, "error", msg)
			result.Errors = append(result.Errors, DocumentError{Path: o.path, Message: msg})
			result.Summary.Errored++
			continue
		}

		rec := *o.record
		if len(rec.Affiliations) == 0 {
			s.logger.Debugw("document has no affiliations", "path", o.path)
			result.Unaffiliated = append(result.Unaffiliated, rec)
			result.Summary.Skipped++
			continue
		}
		if prev, dup := result.Records[rec.EntityID]; dup {
			s.logger.Warnw("duplicate entity document", "id", rec.EntityID, "path", o.path, "kept", prev.SourcePath)
			result.Errors = append(result.Errors, DocumentError{Path: o.path, Message: fmt.Sprintf("duplicate entity %s", rec.EntityID)})
			result.Summary.Errored++
			continue
		}

		for _, a := range rec.Affiliations {
			c := groupChoice{record: a.Group, rank: groupRank(a.Group, o.described[a.GroupID])}
			if prev, ok := groups[a.GroupID]; !ok || c.rank > prev.rank {
				groups[a.GroupID] = c
			}
		}

		result.Records[rec.EntityID] = rec
		result.Order = append(result.Order, rec.EntityID)
		result.Summary.Processed++
	}

	s.unifyGroups(result, groups)
	return result
}

// groupChoice is the best name seen so far for a group.
type groupChoice struct {
	record entities.NameRecord
	rank   int
}

// groupRank orders candidate group names: a localized name beats an
// unlocalized one, and among those a name read from a document that
// describes the group wins. Ties keep the earliest document.
func groupRank(n entities.NameRecord, described bool) int {
	rank := 0
	if n.HasLocalized() {
		rank += 2
	}
	if described {
		rank++
	}
	return rank
}

// unifyGroups gives every affiliation of a group the same name and category.
func (s *CorpusService) unifyGroups(result *BatchResult, groups map[entities.EntityID]groupChoice) {
	categories := make(map[entities.EntityID]entities.Category, len(groups))
	for id, c := range groups {
		categories[id] = s.builder.CategorizeGroup(c.record)
	}

	for _, id := range result.Order {
		rec := result.Records[id]
		affs := make([]entities.AffiliationInterval, len(rec.Affiliations))
		for i, a := range rec.Affiliations {
			a.Group = groups[a.GroupID].record
			a.Category = categories[a.GroupID]
			affs[i] = a
		}
		rec.Affiliations = affs
		result.Records[id] = rec
	}
}
