package ports

import (
	"context"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
)

// PairFilter narrows a candidate pair query. Zero values match everything.
type PairFilter struct {
	MemberID      entities.EntityID
	GroupID       entities.EntityID
	Category      entities.Category
	LocalizedOnly bool
	Limit         int
}

// CareerStore persists the output of a corpus build.
type CareerStore interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// SaveBuild replaces the stored careers and pairs with the output of run.
	SaveBuild(ctx context.Context, run *entities.BuildRun, records []entities.CareerRecord, pairs []entities.CandidatePair, errs []entities.RunError) error

	// LatestRun returns the most recent build, or nil if none exists.
	LatestRun(ctx context.Context) (*entities.BuildRun, error)

	// ListRunErrors returns the document failures recorded for a build.
	ListRunErrors(ctx context.Context, runID string) ([]entities.RunError, error)

	// FindCareer returns the career of a member, or nil if not found.
	FindCareer(ctx context.Context, id entities.EntityID) (*entities.CareerRecord, error)

	// ListCareers lists careers ordered by entity id with pagination.
	ListCareers(ctx context.Context, limit, offset int) ([]entities.CareerRecord, error)

	// CountCareers returns the number of stored careers.
	CountCareers(ctx context.Context) (int, error)

	// ListGroupMembers returns every stored affiliation with the given group.
	ListGroupMembers(ctx context.Context, groupID entities.EntityID) ([]entities.AffiliationInterval, error)

	// FindPairs returns candidate pairs matching the filter.
	FindPairs(ctx context.Context, filter PairFilter) ([]entities.CandidatePair, error)
}
