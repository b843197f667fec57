package database

import (
	"database/sql"
	"fmt"
)

var _ RunRepository = (*SQLRunRepository)(nil)

// SQLRunRepository records analysis runs in SQLite.
type SQLRunRepository struct {
	db *DB
}

func NewRunRepository(db *DB) *SQLRunRepository {
	return &SQLRunRepository{db: db}
}

func (r *SQLRunRepository) CreateRun(run Run) error {
	_, err := r.db.Exec(`
		INSERT INTO runs (id, target, status) VALUES (?, ?, ?)
	`, run.ID, run.Target, run.Status)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

func (r *SQLRunRepository) UpdateRunStatus(runID string, status string, errorMessage string) error {
	_, err := r.db.Exec(`
		UPDATE runs
		SET status = ?, error = ?,
		    completed_at = CASE WHEN ? IN ('complete', 'error') THEN CURRENT_TIMESTAMP ELSE completed_at END
		WHERE id = ?
	`, status, errorMessage, status, runID)
	if err != nil {
		return fmt.Errorf("failed to update run status: %w", err)
	}
	return nil
}

func (r *SQLRunRepository) CompleteRun(runID string, pageID string, pageName string, reportFile string, totalScripts int, uniqueScripts int) error {
	_, err := r.db.Exec(`
		UPDATE runs
		SET status = ?, page_id = ?, page_name = ?, report_file = ?,
		    total_scripts = ?, unique_scripts = ?, completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, RunStatusComplete, pageID, pageName, reportFile, totalScripts, uniqueScripts, runID)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

func (r *SQLRunRepository) GetRun(runID string) (*Run, error) {
	row := r.db.QueryRow(`
		SELECT id, target, page_id, page_name, status, error, report_file,
		       total_scripts, unique_scripts, created_at, completed_at
		FROM runs WHERE id = ?
	`, runID)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

func (r *SQLRunRepository) ListRuns(limit int) ([]Run, error) {
	rows, err := r.db.Query(`
		SELECT id, target, page_id, page_name, status, error, report_file,
		       total_scripts, unique_scripts, created_at, completed_at
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}

	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	err := row.Scan(
		&run.ID, &run.Target, &run.PageID, &run.PageName, &run.Status,
		&run.Error, &run.ReportFile, &run.TotalScripts, &run.UniqueScripts,
		&run.CreatedAt, &run.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
