// Package database provides the storage layer for tracerange.
//
// It implements the Store interface using SQLite with WAL mode. The
// experiments table is the catalogue of traces a range controller can
// be opened on; saved_ranges holds user bookmarks in serialized
// TimeRange form. Undo/redo history is never persisted.
package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Mr-Dark-debug/tracerange/pkg/timerange"
)

//go:embed schema.sql
var schemaFS embed.FS

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for experiment and bookmark persistence.
type Store interface {
	// InsertExperiment creates or updates an experiment.
	InsertExperiment(exp *Experiment) error
	// GetExperiment returns one experiment or ErrNotFound.
	GetExperiment(id string) (*Experiment, error)
	// QueryExperiments returns experiments matching filter, newest first.
	QueryExperiments(filter ExperimentFilter) ([]*Experiment, error)
	// DeleteExperiment removes an experiment and its saved ranges.
	DeleteExperiment(id string) error

	// SaveRange stores a bookmark and returns its ID.
	SaveRange(experimentID, label string, r timerange.TimeRange) (int64, error)
	// ListRanges returns the bookmarks of an experiment, oldest first.
	ListRanges(experimentID string) ([]*SavedRange, error)
	// DeleteRange removes one bookmark.
	DeleteRange(rangeID int64) error

	// Close gracefully shuts down the database connection.
	Close() error
}

// ============================================================
// Domain Models
// ============================================================

// Experiment is a trace (or set of traces) spanning [StartTime, EndTime]
// in absolute nanoseconds.
type Experiment struct {
	ExperimentID string `json:"experiment_id"`
	Name         string `json:"name"`
	StartTime    int64  `json:"start_time"`
	EndTime      int64  `json:"end_time"`
	CreatedAt    int64  `json:"created_at"`
}

// Offset is the base of offset-relative coordinates for this experiment.
func (e *Experiment) Offset() int64 { return e.StartTime }

// AbsoluteRange is the addressable length of the experiment.
func (e *Experiment) AbsoluteRange() int64 { return e.EndTime - e.StartTime }

// SavedRange is a named bookmark on an experiment.
type SavedRange struct {
	RangeID      int64               `json:"range_id"`
	ExperimentID string              `json:"experiment_id"`
	Label        string              `json:"label"`
	Range        timerange.TimeRange `json:"range"`
	CreatedAt    int64               `json:"created_at"`
}

// ExperimentFilter defines query parameters for experiment listing.
type ExperimentFilter struct {
	Name   *string `json:"name,omitempty"`
	Since  *int64  `json:"since,omitempty"` // Unix nanoseconds
	Until  *int64  `json:"until,omitempty"` // Unix nanoseconds
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

// ============================================================
// DBService Implementation
// ============================================================

// DBService implements Store using SQLite.
type DBService struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string

	stmtInsertExperiment *sql.Stmt
	stmtInsertRange      *sql.Stmt
}

// NewDBService opens (or creates) the database at path, initializes the
// schema and prepares statements. Use ":memory:" in tests.
func NewDBService(path string) (*DBService, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database at %s: %w", path, err)
	}

	// One connection: SQLite has a single writer and ":memory:" databases
	// are per-connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	svc := &DBService{db: db, path: path}

	if err := svc.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	if err := svc.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing statements: %w", err)
	}
	return svc, nil
}

func (s *DBService) initSchema() error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("reading embedded schema: %w", err)
	}
	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

func (s *DBService) prepareStatements() error {
	var err error

	s.stmtInsertExperiment, err = s.db.Prepare(`
		INSERT INTO experiments (experiment_id, name, start_time, end_time, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(experiment_id) DO UPDATE SET
			name = excluded.name,
			start_time = excluded.start_time,
			end_time = excluded.end_time
	`)
	if err != nil {
		return fmt.Errorf("preparing InsertExperiment: %w", err)
	}

	s.stmtInsertRange, err = s.db.Prepare(`
		INSERT INTO saved_ranges (experiment_id, label, range_start, range_end, range_offset, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing InsertRange: %w", err)
	}
	return nil
}

// InsertExperiment persists an experiment. An existing experiment with
// the same ID gets its name and bounds updated. CreatedAt is filled in
// when zero.
func (s *DBService) InsertExperiment(exp *Experiment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if exp.CreatedAt == 0 {
		exp.CreatedAt = time.Now().UnixNano()
	}
	_, err := s.stmtInsertExperiment.Exec(
		exp.ExperimentID, exp.Name, exp.StartTime, exp.EndTime, exp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting experiment %s: %w", exp.ExperimentID, err)
	}
	return nil
}

// GetExperiment returns the experiment with the given ID.
func (s *DBService) GetExperiment(id string) (*Experiment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e := &Experiment{}
	err := s.db.QueryRow(`
		SELECT experiment_id, name, start_time, end_time, created_at
		FROM experiments WHERE experiment_id = ?
	`, id).Scan(&e.ExperimentID, &e.Name, &e.StartTime, &e.EndTime, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("experiment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying experiment %s: %w", id, err)
	}
	return e, nil
}

// QueryExperiments returns experiments matching the filter, ordered by
// start_time descending.
func (s *DBService) QueryExperiments(filter ExperimentFilter) ([]*Experiment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT experiment_id, name, start_time, end_time, created_at FROM experiments WHERE 1=1`
	args := make([]interface{}, 0)

	if filter.Name != nil {
		query += ` AND name = ?`
		args = append(args, *filter.Name)
	}
	if filter.Since != nil {
		query += ` AND start_time >= ?`
		args = append(args, *filter.Since)
	}
	if filter.Until != nil {
		query += ` AND start_time <= ?`
		args = append(args, *filter.Until)
	}

	query += ` ORDER BY start_time DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	} else {
		query += ` LIMIT 100`
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying experiments: %w", err)
	}
	defer rows.Close()

	var exps []*Experiment
	for rows.Next() {
		e := &Experiment{}
		if err := rows.Scan(&e.ExperimentID, &e.Name, &e.StartTime, &e.EndTime, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning experiment row: %w", err)
		}
		exps = append(exps, e)
	}
	return exps, rows.Err()
}

// DeleteExperiment removes an experiment; its bookmarks cascade.
func (s *DBService) DeleteExperiment(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM experiments WHERE experiment_id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting experiment %s: %w", id, err)
	}
	return expectAffected(res, fmt.Sprintf("experiment %s", id))
}

// SaveRange stores r as a bookmark on an experiment.
func (s *DBService) SaveRange(experimentID, label string, r timerange.TimeRange) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ser := r.Serialize()
	var offset *string
	if ser.Offset != "" {
		offset = &ser.Offset
	}

	res, err := s.stmtInsertRange.Exec(
		experimentID, label, ser.Start, ser.End, offset, time.Now().UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("saving range %q on %s: %w", label, experimentID, err)
	}
	return res.LastInsertId()
}

// ListRanges returns the bookmarks of an experiment, oldest first.
func (s *DBService) ListRanges(experimentID string) ([]*SavedRange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT range_id, experiment_id, label, range_start, range_end, range_offset, created_at
		FROM saved_ranges
		WHERE experiment_id = ?
		ORDER BY created_at ASC, range_id ASC
	`, experimentID)
	if err != nil {
		return nil, fmt.Errorf("querying ranges for %s: %w", experimentID, err)
	}
	defer rows.Close()

	return scanSavedRanges(rows)
}

// DeleteRange removes one bookmark.
func (s *DBService) DeleteRange(rangeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM saved_ranges WHERE range_id = ?`, rangeID)
	if err != nil {
		return fmt.Errorf("deleting range %d: %w", rangeID, err)
	}
	return expectAffected(res, fmt.Sprintf("range %d", rangeID))
}

// Close closes prepared statements and the connection pool.
func (s *DBService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stmt := range []*sql.Stmt{s.stmtInsertExperiment, s.stmtInsertRange} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return s.db.Close()
}

// ============================================================
// Scan Helpers
// ============================================================

func scanSavedRanges(rows *sql.Rows) ([]*SavedRange, error) {
	var ranges []*SavedRange
	for rows.Next() {
		sr := &SavedRange{}
		var ser timerange.Serialized
		var offset sql.NullString
		if err := rows.Scan(
			&sr.RangeID, &sr.ExperimentID, &sr.Label,
			&ser.Start, &ser.End, &offset, &sr.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning saved range row: %w", err)
		}
		ser.Offset = offset.String

		r, err := timerange.Parse(ser)
		if err != nil {
			return nil, fmt.Errorf("decoding saved range %d: %w", sr.RangeID, err)
		}
		sr.Range = r
		ranges = append(ranges, sr)
	}
	return ranges, rows.Err()
}

func expectAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete of %s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
