package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/edgeforge/edgeforge/internal/core/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// =============================================================================
// SQLiteStore
// =============================================================================

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore creates a new SQLite store and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite3", dsn+"?_foreign_keys=on")
	if err != nil {
		return nil, NewStoreError("NewSQLiteStore", "", "failed to open database", ErrConnectionFailed)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "failed to ping database", ErrConnectionFailed)
	}

	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", err.Error(), ErrMigrationFailed)
	}

	return &SQLiteStore{db: db}, nil
}

// runMigrations runs database migrations using embedded SQL files.
func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// Run Operations
// =============================================================================

// runRow represents a run row in the database.
type runRow struct {
	ID                string  `db:"id"`
	StartedAt         string  `db:"started_at"`
	FinishedAt        *string `db:"finished_at"`
	DurationMS        int64   `db:"duration_ms"`
	TotalDomains      int     `db:"total_domains"`
	Succeeded         int     `db:"succeeded"`
	Failed            int     `db:"failed"`
	RollbackTriggered bool    `db:"rollback_triggered"`
}

func (s *SQLiteStore) CreateRun(ctx context.Context, run *domain.Run) error {
	row := runRow{
		ID:           run.ID,
		StartedAt:    run.StartedAt.UTC().Format(time.RFC3339Nano),
		TotalDomains: run.TotalDomains,
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO runs (id, started_at, duration_ms, total_domains, succeeded, failed, rollback_triggered)
		VALUES (:id, :started_at, 0, :total_domains, 0, 0, 0)`, row)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return NewStoreError("CreateRun", run.ID, "duplicate run id", ErrDuplicateID)
		}
		return NewStoreError("CreateRun", run.ID, err.Error(), err)
	}
	return nil
}

func (s *SQLiteStore) FinishRun(ctx context.Context, run *domain.Run) error {
	var finishedAt *string
	if run.FinishedAt != nil {
		v := run.FinishedAt.UTC().Format(time.RFC3339Nano)
		finishedAt = &v
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, duration_ms = ?, succeeded = ?, failed = ?, rollback_triggered = ?
		WHERE id = ?`,
		finishedAt, run.Duration.Milliseconds(), run.Succeeded, run.Failed,
		run.RollbackTriggered, run.ID)
	if err != nil {
		return NewStoreError("FinishRun", run.ID, err.Error(), err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return NewStoreError("FinishRun", run.ID, err.Error(), err)
	}
	if count == 0 {
		return NewStoreError("FinishRun", run.ID, "run not found", ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	var row runRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM runs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewStoreError("GetRun", id, "run not found", ErrNotFound)
	}
	if err != nil {
		return nil, NewStoreError("GetRun", id, err.Error(), err)
	}
	return rowToRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []runRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, NewStoreError("ListRuns", "", err.Error(), err)
	}

	runs := make([]domain.Run, 0, len(rows))
	for _, row := range rows {
		run, err := rowToRun(row)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, nil
}

func rowToRun(row runRow) (*domain.Run, error) {
	startedAt, err := time.Parse(time.RFC3339Nano, row.StartedAt)
	if err != nil {
		return nil, NewStoreError("rowToRun", row.ID, "invalid started_at", err)
	}

	run := &domain.Run{
		ID:                row.ID,
		StartedAt:         startedAt,
		Duration:          time.Duration(row.DurationMS) * time.Millisecond,
		TotalDomains:      row.TotalDomains,
		Succeeded:         row.Succeeded,
		Failed:            row.Failed,
		RollbackTriggered: row.RollbackTriggered,
	}

	if row.FinishedAt != nil {
		finishedAt, err := time.Parse(time.RFC3339Nano, *row.FinishedAt)
		if err != nil {
			return nil, NewStoreError("rowToRun", row.ID, "invalid finished_at", err)
		}
		run.FinishedAt = &finishedAt
	}
	return run, nil
}

// =============================================================================
// Run Target Operations
// =============================================================================

// runTargetRow represents a per-domain outcome row in the database.
type runTargetRow struct {
	RunID  string `db:"run_id"`
	Domain string `db:"domain"`
	Status string `db:"status"`
	Output string `db:"output"`
	Error  string `db:"error"`
}

func (s *SQLiteStore) AddRunTargets(ctx context.Context, runID string, targets []domain.RunTarget) error {
	if len(targets) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return NewStoreError("AddRunTargets", runID, err.Error(), err)
	}
	defer tx.Rollback()

	for _, target := range targets {
		row := runTargetRow{
			RunID:  runID,
			Domain: target.Domain,
			Status: string(target.Status),
			Output: target.Output,
			Error:  target.Error,
		}
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO run_targets (run_id, domain, status, output, error)
			VALUES (:run_id, :domain, :status, :output, :error)`, row)
		if err != nil {
			return NewStoreError("AddRunTargets", runID, err.Error(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return NewStoreError("AddRunTargets", runID, err.Error(), err)
	}
	return nil
}

func (s *SQLiteStore) ListRunTargets(ctx context.Context, runID string) ([]domain.RunTarget, error) {
	var rows []runTargetRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM run_targets WHERE run_id = ? ORDER BY domain`, runID)
	if err != nil {
		return nil, NewStoreError("ListRunTargets", runID, err.Error(), err)
	}

	targets := make([]domain.RunTarget, 0, len(rows))
	for _, row := range rows {
		targets = append(targets, domain.RunTarget{
			RunID:  row.RunID,
			Domain: row.Domain,
			Status: domain.RunStatus(row.Status),
			Output: row.Output,
			Error:  row.Error,
		})
	}
	return targets, nil
}
