// Package storage persists populations and lineage runs in SQLite.
//
// A population is stored in load order so that re-loading it through
// genealogy.Load reproduces the same first-seen-wins outcome. A run is a
// snapshot of one Build: its query and its members in insertion order.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/ancestry/db"
	"github.com/teranos/ancestry/errors"
	"github.com/teranos/ancestry/genealogy"
	"github.com/teranos/ancestry/logger"
	"github.com/teranos/ancestry/sym"
)

// Query constants
const (
	IndividualDeleteAllQuery = `DELETE FROM individuals`

	IndividualInsertQuery = `
		INSERT INTO individuals (id, father, mother, sex, birth_year, birth_place, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	IndividualSelectQuery = `
		SELECT id, father, mother, sex, birth_year, birth_place
		FROM individuals
		ORDER BY seq`

	RunInsertQuery = `
		INSERT INTO lineage_runs (id, roots, max_depth, min_birth_year, member_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	RunSelectQuery = `
		SELECT id, roots, max_depth, min_birth_year, member_count, created_at
		FROM lineage_runs`

	MemberInsertQuery = `
		INSERT INTO lineage_members (run_id, position, individual_id, father, mother, sex, birth_year, birth_place)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	MemberSelectQuery = `
		SELECT individual_id, father, mother, sex, birth_year, birth_place
		FROM lineage_members
		WHERE run_id = ?
		ORDER BY position`

	StatsQuery = `
		SELECT
			COUNT(*),
			COUNT(birth_year),
			COUNT(birth_place),
			MIN(birth_year),
			MAX(birth_year),
			(SELECT COUNT(*) FROM lineage_runs)
		FROM individuals`
)

// ErrRunNotFound is returned when a run identifier is unknown.
var ErrRunNotFound = errors.Wrap(errors.ErrNotFound, "lineage run does not exist")

// SQLStore stores populations and runs in a migrated SQLite database.
type SQLStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewSQLStore creates a store over an open database. The schema must already
// be migrated (see db.OpenWithMigrations).
func NewSQLStore(conn *sql.DB, l *zap.SugaredLogger) *SQLStore {
	return &SQLStore{
		db:     conn,
		logger: logger.OrComponent(l, "storage"),
	}
}

// Run describes a saved lineage build.
type Run struct {
	ID           string                  `json:"id"`
	Roots        []genealogy.ID          `json:"roots"`
	MaxDepth     genealogy.Optional[int] `json:"max_depth"`
	MinBirthYear genealogy.Optional[int] `json:"min_birth_year"`
	MemberCount  int                     `json:"member_count"`
	CreatedAt    time.Time               `json:"created_at"`
}

// Stats summarises the stored population.
type Stats struct {
	Individuals    int                     `json:"individuals"`
	WithBirthYear  int                     `json:"with_birth_year"`
	WithBirthPlace int                     `json:"with_birth_place"`
	EarliestBirth  genealogy.Optional[int] `json:"earliest_birth"`
	LatestBirth    genealogy.Optional[int] `json:"latest_birth"`
	Runs           int                     `json:"runs"`
}

func nullInt(o genealogy.Optional[int]) sql.NullInt64 {
	v, ok := o.Get()
	return sql.NullInt64{Int64: int64(v), Valid: ok}
}

func nullString(o genealogy.Optional[string]) sql.NullString {
	v, ok := o.Get()
	return sql.NullString{String: v, Valid: ok}
}

func optionalInt(n sql.NullInt64) genealogy.Optional[int] {
	if !n.Valid {
		return genealogy.None[int]()
	}
	return genealogy.Some(int(n.Int64))
}

func optionalString(n sql.NullString) genealogy.Optional[string] {
	if !n.Valid {
		return genealogy.None[string]()
	}
	return genealogy.Some(n.String)
}

// wrap adds context and maps driver "closed" errors to db.ErrDatabaseClosed.
func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	if db.IsDatabaseClosed(err) && !errors.Is(err, db.ErrDatabaseClosed) {
		err = errors.Mark(err, db.ErrDatabaseClosed)
	}
	return errors.Wrap(err, msg)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(sc rowScanner) (genealogy.Row, error) {
	var (
		row   genealogy.Row
		sex   string
		year  sql.NullInt64
		place sql.NullString
	)
	if err := sc.Scan(&row.ID, &row.Father, &row.Mother, &sex, &year, &place); err != nil {
		return row, err
	}
	row.Sex = genealogy.Sex(sex)
	row.BirthYear = optionalInt(year)
	row.BirthPlace = optionalString(place)
	return row, nil
}

func scanRows(rows *sql.Rows) ([]genealogy.Row, error) {
	defer rows.Close()
	var out []genealogy.Row
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// SavePopulation replaces the stored population with the contents of s, in
// load order. Duplicates were already resolved by genealogy.Load.
func (s *SQLStore) SavePopulation(ctx context.Context, pop *genealogy.Store) (int, error) {
	if pop == nil {
		return 0, genealogy.ErrNilStore
	}
	start := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, wrap(err, "begin population import")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, IndividualDeleteAllQuery); err != nil {
		return 0, wrap(err, "clear individuals")
	}

	stmt, err := tx.PrepareContext(ctx, IndividualInsertQuery)
	if err != nil {
		return 0, wrap(err, "prepare individual insert")
	}
	defer stmt.Close()

	rows := pop.Rows()
	for seq, row := range rows {
		_, err := stmt.ExecContext(ctx,
			int64(row.ID),
			int64(row.Father),
			int64(row.Mother),
			string(row.Sex),
			nullInt(row.BirthYear),
			nullString(row.BirthPlace),
			seq,
		)
		if err != nil {
			return 0, wrap(err, "insert individual")
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, wrap(err, "commit population import")
	}

	s.logger.Infow("Population saved",
		logger.FieldCount, len(rows),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
		logger.FieldSymbol, sym.DB,
	)
	return len(rows), nil
}

// LoadRows returns the stored population in its original load order.
func (s *SQLStore) LoadRows(ctx context.Context) ([]genealogy.Row, error) {
	rows, err := s.db.QueryContext(ctx, IndividualSelectQuery)
	if err != nil {
		return nil, wrap(err, "query individuals")
	}
	out, err := scanRows(rows)
	if err != nil {
		return nil, wrap(err, "scan individuals")
	}
	return out, nil
}

// SaveRun stores q and the members of g, and returns the new run identifier.
func (s *SQLStore) SaveRun(ctx context.Context, q genealogy.Query, g *genealogy.Genealogy) (string, error) {
	if g == nil {
		return "", errors.Wrap(genealogy.ErrOptionViolation, "genealogy is nil")
	}
	cut := q.Cutoffs()

	rootsJSON, err := json.Marshal(q.Roots)
	if err != nil {
		return "", errors.Wrap(err, "marshal roots")
	}

	runID := uuid.NewString()
	members := g.Rows()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", wrap(err, "begin run")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, RunInsertQuery,
		runID,
		string(rootsJSON),
		nullInt(cut.MaxDepth),
		nullInt(cut.MinBirthYear),
		len(members),
		time.Now().UTC(),
	)
	if err != nil {
		return "", wrap(err, "insert run")
	}

	for pos, row := range members {
		_, err := tx.ExecContext(ctx, MemberInsertQuery,
			runID,
			pos,
			int64(row.ID),
			int64(row.Father),
			int64(row.Mother),
			string(row.Sex),
			nullInt(row.BirthYear),
			nullString(row.BirthPlace),
		)
		if err != nil {
			return "", wrap(err, "insert run member")
		}
	}

	if err := tx.Commit(); err != nil {
		return "", wrap(err, "commit run")
	}

	s.logger.Infow("Lineage run saved",
		logger.FieldRunID, runID,
		logger.FieldRoots, len(q.Roots),
		logger.FieldCount, len(members),
	)
	return runID, nil
}

func scanRun(sc rowScanner) (Run, error) {
	var (
		run       Run
		rootsJSON string
		maxDepth  sql.NullInt64
		minYear   sql.NullInt64
	)
	if err := sc.Scan(&run.ID, &rootsJSON, &maxDepth, &minYear, &run.MemberCount, &run.CreatedAt); err != nil {
		return run, err
	}
	if err := json.Unmarshal([]byte(rootsJSON), &run.Roots); err != nil {
		return run, errors.Wrapf(err, "decode roots of run %s", run.ID)
	}
	run.MaxDepth = optionalInt(maxDepth)
	run.MinBirthYear = optionalInt(minYear)
	return run, nil
}

// GetRun returns one saved run.
func (s *SQLStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, RunSelectQuery+` WHERE id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrRunNotFound, "run %s", runID)
	}
	if err != nil {
		return nil, wrap(err, "query run")
	}
	return &run, nil
}

// RunMembers returns the members of a saved run in their original order.
func (s *SQLStore) RunMembers(ctx context.Context, runID string) ([]genealogy.Row, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, MemberSelectQuery, runID)
	if err != nil {
		return nil, wrap(err, "query run members")
	}
	out, err := scanRows(rows)
	if err != nil {
		return nil, wrap(err, "scan run members")
	}
	return out, nil
}

// ListRuns returns the most recent runs first. A limit <= 0 returns all runs.
func (s *SQLStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, RunSelectQuery+` ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, wrap(err, "query runs")
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, wrap(err, "scan run")
		}
		out = append(out, run)
	}
	return out, wrap(rows.Err(), "iterate runs")
}

// Stats summarises the stored population and counts saved runs.
func (s *SQLStore) Stats(ctx context.Context) (*Stats, error) {
	var (
		st       Stats
		earliest sql.NullInt64
		latest   sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, StatsQuery).Scan(
		&st.Individuals,
		&st.WithBirthYear,
		&st.WithBirthPlace,
		&earliest,
		&latest,
		&st.Runs,
	)
	if err != nil {
		return nil, wrap(err, "query stats")
	}
	st.EarliestBirth = optionalInt(earliest)
	st.LatestBirth = optionalInt(latest)
	return &st, nil
}
