package handlers

import (
	"context"
	"fmt"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/ports"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/services"
)

// QueryHandler answers questions about the stored build.
type QueryHandler struct {
	store ports.CareerStore
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(store ports.CareerStore) *QueryHandler {
	return &QueryHandler{
		store: store,
	}
}

// CareerResult is a member's career with derived views.
type CareerResult struct {
	Career        entities.CareerRecord
	ReferenceYear int
	PrimaryClub   *entities.AffiliationInterval
	NationalDebut *entities.AffiliationInterval
	Tenures       []int // Parallel to Career.Affiliations; -1 when unknown
}

// Career returns the stored career of a member with its primary club and
// national-team debut.
func (h *QueryHandler) Career(ctx context.Context, id entities.EntityID) (*CareerResult, error) {
	rec, err := h.store.FindCareer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding career: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("career not found: %s", id)
	}

	refYear, err := h.referenceYear(ctx)
	if err != nil {
		return nil, err
	}

	result := &CareerResult{
		Career:        *rec,
		ReferenceYear: refYear,
		Tenures:       make([]int, len(rec.Affiliations)),
	}
	for i, a := range rec.Affiliations {
		years, ok := services.Tenure(a, refYear)
		if !ok {
			years = -1
		}
		result.Tenures[i] = years
	}
	if club, ok := services.PrimaryAffiliation(rec.Affiliations, refYear, services.InCategory(entities.CategoryClub)); ok {
		result.PrimaryClub = &club
	}
	if debut, ok := services.NationalDebut(*rec); ok {
		result.NationalDebut = &debut
	}
	return result, nil
}

// Careers lists stored careers with pagination and the total count.
func (h *QueryHandler) Careers(ctx context.Context, limit, offset int) ([]entities.CareerRecord, int, error) {
	careers, err := h.store.ListCareers(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing careers: %w", err)
	}
	total, err := h.store.CountCareers(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("counting careers: %w", err)
	}
	return careers, total, nil
}

// Members returns the stored affiliations of a group.
func (h *QueryHandler) Members(ctx context.Context, groupID entities.EntityID) ([]entities.AffiliationInterval, error) {
	members, err := h.store.ListGroupMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing group members: %w", err)
	}
	return members, nil
}

// Teammates returns the candidate pairs matching filter.
func (h *QueryHandler) Teammates(ctx context.Context, filter ports.PairFilter) ([]entities.CandidatePair, error) {
	if filter.Category != "" && !filter.Category.IsValid() {
		return nil, fmt.Errorf("invalid category %q, valid categories: %v", filter.Category, entities.AllCategories)
	}
	pairs, err := h.store.FindPairs(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("finding pairs: %w", err)
	}
	return pairs, nil
}

// LatestRun returns the most recent build and its document errors.
func (h *QueryHandler) LatestRun(ctx context.Context) (*entities.BuildRun, []entities.RunError, error) {
	run, err := h.store.LatestRun(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("finding latest run: %w", err)
	}
	if run == nil {
		return nil, nil, nil
	}
	errs, err := h.store.ListRunErrors(ctx, run.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing run errors: %w", err)
	}
	return run, errs, nil
}

// referenceYear is the reference year of the latest build, or the default
// when nothing has been built yet.
func (h *QueryHandler) referenceYear(ctx context.Context) (int, error) {
	run, err := h.store.LatestRun(ctx)
	if err != nil {
		return 0, fmt.Errorf("finding latest run: %w", err)
	}
	if run == nil {
		return services.DefaultReferenceYear, nil
	}
	return run.ReferenceYear, nil
}
