package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/ports"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/config"
)

// setupTestRepo creates an in-memory SQLite repository for testing.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	err = repo.EnsureSchema(context.Background())
	require.NoError(t, err)

	return repo
}

func localized(id entities.EntityID, en, yue string) entities.NameRecord {
	rec := entities.NameRecord{ID: id, PrimaryName: en, Source: entities.NameSourceNone}
	if yue != "" {
		rec.LocalizedNames = map[string]string{"yue": yue}
		rec.BestLocalizedName = yue
		rec.BestLocalizedTag = "yue"
		rec.Source = entities.NameSourcePrimary
	}
	return rec
}

func affiliation(member, group entities.EntityID, cat entities.Category, start, end *int) entities.AffiliationInterval {
	a := entities.AffiliationInterval{
		MemberID:  member,
		GroupID:   group,
		StartYear: start,
		EndYear:   end,
		Category:  cat,
		End:       entities.EndEnded,
		Group:     localized(group, "Group "+string(group), ""),
	}
	if end == nil {
		a.IsOpenEnded = true
		a.End = entities.EndOngoing
	}
	return a
}

func testBuild() ([]entities.CareerRecord, []entities.CandidatePair) {
	yr := entities.IntPtr
	records := []entities.CareerRecord{
		{
			EntityID:  "Q1",
			Name:      localized("Q1", "Alice", "愛麗絲"),
			BirthYear: yr(1990),
			Affiliations: []entities.AffiliationInterval{
				affiliation("Q1", "Q100", entities.CategoryClub, yr(2010), yr(2015)),
				affiliation("Q1", "Q200", entities.CategoryNationalTeam, yr(2012), nil),
			},
			Span: &entities.Span{Start: 2010, End: 2025},
		},
		{
			EntityID: "Q2",
			Name:     localized("Q2", "Bob", ""),
			Affiliations: []entities.AffiliationInterval{
				affiliation("Q2", "Q100", entities.CategoryClub, yr(2008), yr(2011)),
			},
			Span: &entities.Span{Start: 2008, End: 2011},
		},
		{
			EntityID: "Q3",
			Name:     localized("Q3", "Carol", "嘉露"),
			Affiliations: []entities.AffiliationInterval{
				affiliation("Q3", "Q100", entities.CategoryClub, nil, nil),
			},
		},
	}
	pairs := []entities.CandidatePair{
		{
			MemberA:   "Q1",
			MemberB:   "Q2",
			GroupID:   "Q100",
			Category:  entities.CategoryClub,
			IntervalA: entities.Interval{Start: yr(2010), End: yr(2015)},
			IntervalB: entities.Interval{Start: yr(2008), End: yr(2011)},
			NameA:     records[0].Name,
			NameB:     records[1].Name,
			GroupName: localized("Q100", "Group Q100", "一百會"),
		},
		{
			MemberA:   "Q1",
			MemberB:   "Q3",
			GroupID:   "Q200",
			Category:  entities.CategoryNationalTeam,
			NameA:     records[0].Name,
			NameB:     records[2].Name,
			GroupName: localized("Q200", "Group Q200", "二百隊"),
		},
	}
	return records, pairs
}

func TestNewRepository(t *testing.T) {
	t.Run("success with memory database", func(t *testing.T) {
		repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
		require.NoError(t, err)
		defer repo.Close()
		assert.NotNil(t, repo)
		assert.Equal(t, ":memory:", repo.Path())
	})

	t.Run("error with empty path", func(t *testing.T) {
		_, err := NewRepository(config.SQLiteConfig{Path: ""})
		require.Error(t, err)
	})
}

func TestRepository_EnsureSchema(t *testing.T) {
	repo := setupTestRepo(t)

	// Verify tables exist
	tables := []string{"runs", "careers", "affiliations", "pairs", "run_errors"}
	for _, table := range tables {
		var count int
		err := repo.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s should exist", table)
	}
}

func TestRepository_EnsureSchema_Idempotent(t *testing.T) {
	repo := setupTestRepo(t)

	// Should not error when called again
	err := repo.EnsureSchema(context.Background())
	require.NoError(t, err)
}

func TestRepository_SaveBuild(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	records, pairs := testBuild()

	started := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	run := &entities.BuildRun{
		StartedAt:     started,
		FinishedAt:    started.Add(time.Minute),
		ReferenceYear: 2025,
		Summary:       entities.BatchSummary{Total: 4, Processed: 3, Errored: 1},
	}
	errs := []entities.RunError{{Path: "docs/Q9.jsonld", Message: "invalid json"}}

	err := repo.SaveBuild(ctx, run, records, pairs, errs)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID, "run ID should be generated")
	assert.Equal(t, 2, run.Pairs)

	t.Run("latest run", func(t *testing.T) {
		latest, err := repo.LatestRun(ctx)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, run.ID, latest.ID)
		assert.Equal(t, 2025, latest.ReferenceYear)
		assert.Equal(t, run.Summary, latest.Summary)
		assert.Equal(t, 2, latest.Pairs)
		assert.True(t, started.Equal(latest.StartedAt))
	})

	t.Run("run errors", func(t *testing.T) {
		got, err := repo.ListRunErrors(ctx, run.ID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, run.ID, got[0].RunID)
		assert.Equal(t, "docs/Q9.jsonld", got[0].Path)
		assert.Equal(t, "invalid json", got[0].Message)
	})

	t.Run("find career", func(t *testing.T) {
		rec, err := repo.FindCareer(ctx, "Q1")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, records[0], *rec)
	})

	t.Run("find missing career", func(t *testing.T) {
		rec, err := repo.FindCareer(ctx, "Q404")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("count and list careers", func(t *testing.T) {
		count, err := repo.CountCareers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		page, err := repo.ListCareers(ctx, 2, 1)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, entities.EntityID("Q2"), page[0].EntityID)
		assert.Equal(t, entities.EntityID("Q3"), page[1].EntityID)

		all, err := repo.ListCareers(ctx, 0, 0)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("group members ordered by start", func(t *testing.T) {
		members, err := repo.ListGroupMembers(ctx, "Q100")
		require.NoError(t, err)
		require.Len(t, members, 3)
		assert.Equal(t, entities.EntityID("Q2"), members[0].MemberID)
		assert.Equal(t, entities.EntityID("Q1"), members[1].MemberID)
		assert.Equal(t, entities.EntityID("Q3"), members[2].MemberID, "unknown start sorts last")
		assert.True(t, members[2].IsOpenEnded)
	})
}

func TestRepository_FindPairs(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	records, pairs := testBuild()
	require.NoError(t, repo.SaveBuild(ctx, &entities.BuildRun{ReferenceYear: 2025}, records, pairs, nil))

	tests := []struct {
		name     string
		filter   ports.PairFilter
		expected []string
	}{
		{
			name:     "no filter",
			filter:   ports.PairFilter{},
			expected: []string{"Q100:Q1:Q2", "Q200:Q1:Q3"},
		},
		{
			name:     "member on either side",
			filter:   ports.PairFilter{MemberID: "Q3"},
			expected: []string{"Q200:Q1:Q3"},
		},
		{
			name:     "by group",
			filter:   ports.PairFilter{GroupID: "Q100"},
			expected: []string{"Q100:Q1:Q2"},
		},
		{
			name:     "by category",
			filter:   ports.PairFilter{Category: entities.CategoryNationalTeam},
			expected: []string{"Q200:Q1:Q3"},
		},
		{
			name:     "localized only",
			filter:   ports.PairFilter{LocalizedOnly: true},
			expected: []string{"Q200:Q1:Q3"},
		},
		{
			name:     "limit",
			filter:   ports.PairFilter{Limit: 1},
			expected: []string{"Q100:Q1:Q2"},
		},
		{
			name:     "no match",
			filter:   ports.PairFilter{MemberID: "Q404"},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindPairs(ctx, tt.filter)
			require.NoError(t, err)
			var keys []string
			for _, p := range got {
				keys = append(keys, p.Key())
			}
			assert.Equal(t, tt.expected, keys)
		})
	}

	t.Run("pair data round trips", func(t *testing.T) {
		got, err := repo.FindPairs(ctx, ports.PairFilter{GroupID: "Q100"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, pairs[0], got[0])
	})
}

func TestRepository_SaveBuild_ReplacesPreviousBuild(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	records, pairs := testBuild()

	first := &entities.BuildRun{StartedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), ReferenceYear: 2025}
	require.NoError(t, repo.SaveBuild(ctx, first, records, pairs, nil))

	second := &entities.BuildRun{StartedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), ReferenceYear: 2026}
	require.NoError(t, repo.SaveBuild(ctx, second, records[:1], nil, nil))

	count, err := repo.CountCareers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := repo.FindPairs(ctx, ports.PairFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)

	members, err := repo.ListGroupMembers(ctx, "Q100")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, entities.EntityID("Q1"), members[0].MemberID)

	latest, err := repo.LatestRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, 2026, latest.ReferenceYear)
}

func TestRepository_SaveBuild_DuplicatePairsIgnored(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	records, pairs := testBuild()

	dup := append(pairs, pairs[0])
	require.NoError(t, repo.SaveBuild(ctx, &entities.BuildRun{ReferenceYear: 2025}, records, dup, nil))

	got, err := repo.FindPairs(ctx, ports.PairFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRepository_LatestRun_Empty(t *testing.T) {
	repo := setupTestRepo(t)

	run, err := repo.LatestRun(context.Background())
	require.NoError(t, err)
	assert.Nil(t, run)
}

func TestRepository_SaveBuild_CanceledContext(t *testing.T) {
	repo := setupTestRepo(t)
	records, pairs := testBuild()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.SaveBuild(ctx, &entities.BuildRun{ReferenceYear: 2025}, records, pairs, nil)
	require.Error(t, err)

	count, err := repo.CountCareers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
