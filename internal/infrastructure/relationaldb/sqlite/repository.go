// Package sqlite provides a SQLite implementation of the CareerStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/ports"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/config"
)

// generateUUID returns a new UUID string.
func generateUUID() string {
	return uuid.New().String()
}

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.CareerStore using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

var _ ports.CareerStore = (*Repository)(nil)

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Every connection to ":memory:" is a separate database
	if cfg.Path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Corpus builds
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		reference_year INTEGER NOT NULL,
		total INTEGER NOT NULL DEFAULT 0,
		processed INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		errored INTEGER NOT NULL DEFAULT 0,
		pairs INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Career records of the latest build (full record stored as JSON)
	CREATE TABLE IF NOT EXISTS careers (
		entity_id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL REFERENCES runs(id),
		display_name TEXT NOT NULL,
		name_source TEXT NOT NULL,
		span_start INTEGER,
		span_end INTEGER,
		birth_year INTEGER,
		data TEXT NOT NULL
	);

	-- Affiliations, one row per membership statement
	CREATE TABLE IF NOT EXISTS affiliations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		member_id TEXT NOT NULL REFERENCES careers(entity_id) ON DELETE CASCADE,
		group_id TEXT NOT NULL,
		ordinal INTEGER NOT NULL,
		category TEXT NOT NULL,
		start_year INTEGER,
		end_year INTEGER,
		is_open_ended INTEGER NOT NULL,
		data TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_affiliations_group ON affiliations(group_id);
	CREATE INDEX IF NOT EXISTS idx_affiliations_member ON affiliations(member_id);

	-- Candidate teammate pairs
	CREATE TABLE IF NOT EXISTS pairs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		group_id TEXT NOT NULL,
		member_a TEXT NOT NULL,
		member_b TEXT NOT NULL,
		category TEXT NOT NULL,
		localized INTEGER NOT NULL,
		data TEXT NOT NULL,
		UNIQUE(group_id, member_a, member_b)
	);
	CREATE INDEX IF NOT EXISTS idx_pairs_member_a ON pairs(member_a);
	CREATE INDEX IF NOT EXISTS idx_pairs_member_b ON pairs(member_b);
	CREATE INDEX IF NOT EXISTS idx_pairs_category ON pairs(category);

	-- Documents that failed during a build
	CREATE TABLE IF NOT EXISTS run_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		path TEXT NOT NULL,
		message TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_run_errors_run ON run_errors(run_id);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// SaveBuild records run and replaces the stored careers and pairs with the
// given ones in a single transaction. Earlier runs and their errors are kept.
func (r *Repository) SaveBuild(ctx context.Context, run *entities.BuildRun, records []entities.CareerRecord, pairs []entities.CandidatePair, errs []entities.RunError) (err error) {
	if run.ID == "" {
		run.ID = generateUUID()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = timeNow()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = timeNow()
	}
	run.Pairs = len(pairs)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = insertRun(ctx, tx, run); err != nil {
		return err
	}
	for _, table := range []string{"pairs", "affiliations", "careers"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	if err = insertCareers(ctx, tx, run.ID, records); err != nil {
		return err
	}
	if err = insertPairs(ctx, tx, run.ID, pairs); err != nil {
		return err
	}
	if err = insertRunErrors(ctx, tx, run.ID, errs); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing build: %w", err)
	}
	return nil
}

func insertRun(ctx context.Context, tx *sql.Tx, run *entities.BuildRun) error {
	query := `
		INSERT INTO runs (id, started_at, finished_at, reference_year, total, processed, skipped, errored, pairs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := tx.ExecContext(ctx, query,
		run.ID,
		run.StartedAt,
		run.FinishedAt,
		run.ReferenceYear,
		run.Summary.Total,
		run.Summary.Processed,
		run.Summary.Skipped,
		run.Summary.Errored,
		run.Pairs,
	)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

func insertCareers(ctx context.Context, tx *sql.Tx, runID string, records []entities.CareerRecord) error {
	careerStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO careers (entity_id, run_id, display_name, name_source, span_start, span_end, birth_year, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(entity_id) DO UPDATE SET
			run_id = excluded.run_id,
			display_name = excluded.display_name,
			name_source = excluded.name_source,
			span_start = excluded.span_start,
			span_end = excluded.span_end,
			birth_year = excluded.birth_year,
			data = excluded.data
	`)
	if err != nil {
		return fmt.Errorf("preparing career insert: %w", err)
	}
	defer careerStmt.Close()

	affStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO affiliations (member_id, group_id, ordinal, category, start_year, end_year, is_open_ended, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing affiliation insert: %w", err)
	}
	defer affStmt.Close()

	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling career %s: %w", rec.EntityID, err)
		}

		var spanStart, spanEnd sql.NullInt64
		if rec.Span != nil {
			spanStart = sql.NullInt64{Int64: int64(rec.Span.Start), Valid: true}
			spanEnd = sql.NullInt64{Int64: int64(rec.Span.End), Valid: true}
		}

		if _, err := careerStmt.ExecContext(ctx,
			rec.EntityID,
			runID,
			rec.Name.DisplayName(),
			rec.Name.Source,
			spanStart,
			spanEnd,
			nullInt(rec.BirthYear),
			string(data),
		); err != nil {
			return fmt.Errorf("saving career %s: %w", rec.EntityID, err)
		}

		for i, a := range rec.Affiliations {
			affData, err := json.Marshal(a)
			if err != nil {
				return fmt.Errorf("marshaling affiliation: %w", err)
			}
			if _, err := affStmt.ExecContext(ctx,
				rec.EntityID,
				a.GroupID,
				i,
				a.Category,
				nullInt(a.StartYear),
				nullInt(a.EndYear),
				a.IsOpenEnded,
				string(affData),
			); err != nil {
				return fmt.Errorf("saving affiliation of %s: %w", rec.EntityID, err)
			}
		}
	}
	return nil
}

func insertPairs(ctx context.Context, tx *sql.Tx, runID string, pairs []entities.CandidatePair) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pairs (run_id, group_id, member_a, member_b, category, localized, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(group_id, member_a, member_b) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("preparing pair insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range pairs {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshaling pair: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			runID,
			p.GroupID,
			p.MemberA,
			p.MemberB,
			p.Category,
			p.FullyLocalized(),
			string(data),
		); err != nil {
			return fmt.Errorf("saving pair %s: %w", p.Key(), err)
		}
	}
	return nil
}

func insertRunErrors(ctx context.Context, tx *sql.Tx, runID string, errs []entities.RunError) error {
	for _, e := range errs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_errors (run_id, path, message) VALUES (?, ?, ?)`,
			runID, e.Path, e.Message,
		); err != nil {
			return fmt.Errorf("saving run error: %w", err)
		}
	}
	return nil
}

// LatestRun returns the most recent build, or nil if none exists.
func (r *Repository) LatestRun(ctx context.Context) (*entities.BuildRun, error) {
	query := `
		SELECT id, started_at, finished_at, reference_year, total, processed, skipped, errored, pairs
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT 1
	`
	var run entities.BuildRun
	err := r.db.QueryRowContext(ctx, query).Scan(
		&run.ID,
		&run.StartedAt,
		&run.FinishedAt,
		&run.ReferenceYear,
		&run.Summary.Total,
		&run.Summary.Processed,
		&run.Summary.Skipped,
		&run.Summary.Errored,
		&run.Pairs,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	return &run, nil
}

// ListRunErrors returns the document failures recorded for a build.
func (r *Repository) ListRunErrors(ctx context.Context, runID string) ([]entities.RunError, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT run_id, path, message FROM run_errors WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run errors: %w", err)
	}
	defer rows.Close()

	var out []entities.RunError
	for rows.Next() {
		var e entities.RunError
		if err := rows.Scan(&e.RunID, &e.Path, &e.Message); err != nil {
			return nil, fmt.Errorf("scanning run error: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// FindCareer returns the career of a member, or nil if not found.
func (r *Repository) FindCareer(ctx context.Context, id entities.EntityID) (*entities.CareerRecord, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM careers WHERE entity_id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning career: %w", err)
	}

	var rec entities.CareerRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("unmarshaling career: %w", err)
	}
	return &rec, nil
}

// ListCareers lists careers ordered by entity id with pagination.
func (r *Repository) ListCareers(ctx context.Context, limit, offset int) ([]entities.CareerRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `SELECT data FROM careers ORDER BY entity_id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying careers: %w", err)
	}
	defer rows.Close()

	careers := make([]entities.CareerRecord, 0, 16)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning career: %w", err)
		}
		var rec entities.CareerRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("unmarshaling career: %w", err)
		}
		careers = append(careers, rec)
	}
	return careers, rows.Err()
}

// CountCareers returns the number of stored careers.
func (r *Repository) CountCareers(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM careers`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting careers: %w", err)
	}
	return count, nil
}

// ListGroupMembers returns every stored affiliation with the given group,
// ordered by start year with unknown starts last.
func (r *Repository) ListGroupMembers(ctx context.Context, groupID entities.EntityID) ([]entities.AffiliationInterval, error) {
	query := `
		SELECT data FROM affiliations
		WHERE group_id = ?
		ORDER BY start_year IS NULL, start_year, member_id, ordinal
	`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("querying group members: %w", err)
	}
	defer rows.Close()

	var out []entities.AffiliationInterval
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning affiliation: %w", err)
		}
		var a entities.AffiliationInterval
		if err := json.Unmarshal([]byte(data), &a); err != nil {
			return nil, fmt.Errorf("unmarshaling affiliation: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// FindPairs returns candidate pairs matching the filter in insertion order.
func (r *Repository) FindPairs(ctx context.Context, f ports.PairFilter) ([]entities.CandidatePair, error) {
	query := `SELECT data FROM pairs WHERE 1 = 1`
	var args []any
	if f.MemberID != "" {
		query += ` AND (member_a = ? OR member_b = ?)`
		args = append(args, f.MemberID, f.MemberID)
	}
	if f.GroupID != "" {
		query += ` AND group_id = ?`
		args = append(args, f.GroupID)
	}
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.LocalizedOnly {
		query += ` AND localized = 1`
	}
	query += ` ORDER BY id`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying pairs: %w", err)
	}
	defer rows.Close()

	var pairs []entities.CandidatePair
	if f.Limit > 0 {
		pairs = make([]entities.CandidatePair, 0, f.Limit)
	}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning pair: %w", err)
		}
		var p entities.CandidatePair
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("unmarshaling pair: %w", err)
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
