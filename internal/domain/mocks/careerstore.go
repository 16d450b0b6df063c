package mocks

import (
	"context"
	"sort"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/ports"
)

// CareerStore is a mock implementation of ports.CareerStore.
type CareerStore struct {
	Runs      []entities.BuildRun
	Careers   map[entities.EntityID]entities.CareerRecord
	Pairs     []entities.CandidatePair
	RunErrors []entities.RunError
	Err       error
	Closed    bool
}

// NewCareerStore creates a new mock CareerStore.
func NewCareerStore() *CareerStore {
	return &CareerStore{
		Careers: make(map[entities.EntityID]entities.CareerRecord),
	}
}

// EnsureSchema creates the database schema if it doesn't exist.
func (m *CareerStore) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Close closes the database connection.
func (m *CareerStore) Close() error {
	m.Closed = true
	return nil
}

// SaveBuild replaces the stored build output.
func (m *CareerStore) SaveBuild(_ context.Context, run *entities.BuildRun, records []entities.CareerRecord, pairs []entities.CandidatePair, errs []entities.RunError) error {
	if m.Err != nil {
		return m.Err
	}
	m.Runs = append(m.Runs, *run)
	m.Careers = make(map[entities.EntityID]entities.CareerRecord, len(records))
	for _, r := range records {
		m.Careers[r.EntityID] = r
	}
	m.Pairs = append([]entities.CandidatePair(nil), pairs...)
	m.RunErrors = append(m.RunErrors, errs...)
	return nil
}

// LatestRun returns the last saved run.
func (m *CareerStore) LatestRun(_ context.Context) (*entities.BuildRun, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Runs) == 0 {
		return nil, nil
	}
	run := m.Runs[len(m.Runs)-1]
	return &run, nil
}

// ListRunErrors returns the errors of a run.
func (m *CareerStore) ListRunErrors(_ context.Context, runID string) ([]entities.RunError, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []entities.RunError
	for _, e := range m.RunErrors {
		if e.RunID == runID {
			out = append(out, e)
		}
	}
	return out, nil
}

// FindCareer returns a stored career.
func (m *CareerStore) FindCareer(_ context.Context, id entities.EntityID) (*entities.CareerRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	rec, ok := m.Careers[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// ListCareers lists careers ordered by id.
func (m *CareerStore) ListCareers(_ context.Context, limit, offset int) ([]entities.CareerRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]entities.CareerRecord, 0, len(m.Careers))
	for _, r := range m.Careers {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	if offset >= len(out) {
		return []entities.CareerRecord{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// CountCareers returns the number of careers.
func (m *CareerStore) CountCareers(_ context.Context) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.Careers), nil
}

// ListGroupMembers returns affiliations with the group.
func (m *CareerStore) ListGroupMembers(_ context.Context, groupID entities.EntityID) ([]entities.AffiliationInterval, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []entities.AffiliationInterval
	for _, r := range m.Careers {
		for _, a := range r.Affiliations {
			if a.GroupID == groupID {
				out = append(out, a)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })
	return out, nil
}

// FindPairs filters the stored pairs.
func (m *CareerStore) FindPairs(_ context.Context, f ports.PairFilter) ([]entities.CandidatePair, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []entities.CandidatePair
	for _, p := range m.Pairs {
		if f.MemberID != "" && p.MemberA != f.MemberID && p.MemberB != f.MemberID {
			continue
		}
		if f.GroupID != "" && p.GroupID != f.GroupID {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.LocalizedOnly && !p.FullyLocalized() {
			continue
		}
		out = append(out, p)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}
