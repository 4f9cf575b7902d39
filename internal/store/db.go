package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"procurement-dashboard/internal/model"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrRunNotFound is returned when a run ID is unknown
var ErrRunNotFound = errors.New("run not found")

// DB is the refresh run ledger. It keeps run bookkeeping only; snapshot
// figures are never stored here.
type DB struct {
	db *sql.DB
}

// InitDB opens the ledger and creates its tables if needed
func InitDB(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// one connection keeps ":memory:" databases shared and writes serialized
	db.SetMaxOpenConns(1)

	// Create tables if not exists
	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		workbook TEXT,
		status TEXT,
		backup_dir TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		finished_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS run_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`

	if _, err := db.Exec(runTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create runs table: %w", err)
	}
	if _, err := db.Exec(errorTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create run_errors table: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the underlying database
func (d *DB) Close() error {
	return d.db.Close()
}

// SaveRun stores a new pending run
func (d *DB) SaveRun(ctx context.Context, runID, workbook string) error {
	now := time.Now().UTC()
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO runs (id, workbook, status, backup_dir, created_at, updated_at) VALUES (?, ?, ?, '', ?, ?)`,
		runID, workbook, model.RunStatusPending, now, now)
	return err
}

// UpdateRunStatus updates run status
func (d *DB) UpdateRunStatus(ctx context.Context, runID, status string) error {
	now := time.Now().UTC()
	_, err := d.db.ExecContext(ctx, `UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// SetBackupDir records where the run copied prior outputs
func (d *DB) SetBackupDir(ctx context.Context, runID, dir string) error {
	now := time.Now().UTC()
	_, err := d.db.ExecContext(ctx, `UPDATE runs SET backup_dir = ?, updated_at = ? WHERE id = ?`, dir, now, runID)
	return err
}

// FinishRun sets the final status and records runErr, if any
func (d *DB) FinishRun(ctx context.Context, runID, status string, runErr error) error {
	now := time.Now().UTC()
	if _, err := d.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, updated_at = ?, finished_at = ? WHERE id = ?`,
		status, now, now, runID); err != nil {
		return err
	}
	return d.SaveRunError(ctx, runID, runErr)
}

// SaveRunError records an error for a run
func (d *DB) SaveRunError(ctx context.Context, runID string, runErr error) error {
	if runErr == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := d.db.ExecContext(ctx, `INSERT INTO run_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
		runID, runErr.Error(), now)
	return err
}

// ListRuns returns the most recent runs first
func (d *DB) ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, workbook, status, backup_dir, created_at, updated_at, finished_at
		 FROM runs ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches one run with its latest error message
func (d *DB) GetRun(ctx context.Context, runID string) (model.RunRecord, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT id, workbook, status, backup_dir, created_at, updated_at, finished_at FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RunRecord{}, ErrRunNotFound
	}
	if err != nil {
		return model.RunRecord{}, err
	}

	var msg sql.NullString
	err = d.db.QueryRowContext(ctx,
		`SELECT error_message FROM run_errors WHERE run_id = ? ORDER BY id DESC LIMIT 1`, runID).Scan(&msg)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return model.RunRecord{}, err
	}
	run.Error = msg.String
	return run, nil
}

// GetRunErrors returns every error recorded for a run, oldest first
func (d *DB) GetRunErrors(ctx context.Context, runID string) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT error_message FROM run_errors WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []string
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (model.RunRecord, error) {
	var run model.RunRecord
	var finished sql.NullTime
	if err := s.Scan(&run.ID, &run.Workbook, &run.Status, &run.BackupDir,
		&run.CreatedAt, &run.UpdatedAt, &finished); err != nil {
		return model.RunRecord{}, err
	}
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return run, nil
}
