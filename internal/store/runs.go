package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"codescope/internal/aggregate"
)

// Run statuses move strictly forward: running -> completed | failed.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run is one analysis run. Report is populated only for completed runs,
// ErrorText only for failed ones.
type Run struct {
	ID          uuid.UUID
	ProjectName string
	ProjectPath string
	Status      string
	ChunkCount  int
	TaskCount   int
	Report      *aggregate.Report
	ErrorText   string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// CreateRun registers a new run in the running state.
func (s *Store) CreateRun(ctx context.Context, id uuid.UUID, projectName, projectPath string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO analysis_runs (id, project_name, project_path, status, created_at)
		VALUES ($1, $2, $3, $4, now())`,
		id, projectName, projectPath, StatusRunning,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// CompleteRun records the final report for a run. The report is stored as
// JSONB so consumers can query into it.
func (s *Store) CompleteRun(ctx context.Context, id uuid.UUID, chunkCount, taskCount int, report *aggregate.Report) error {
	encoded, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		UPDATE analysis_runs
		SET status = $1, chunk_count = $2, task_count = $3, report = $4, completed_at = now()
		WHERE id = $5`,
		StatusCompleted, chunkCount, taskCount, encoded, id,
	)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	return nil
}

// FailRun marks a run as failed with the reason.
func (s *Store) FailRun(ctx context.Context, id uuid.UUID, reason string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE analysis_runs
		SET status = $1, error_text = $2, completed_at = now()
		WHERE id = $3`,
		StatusFailed, reason, id,
	)
	if err != nil {
		return fmt.Errorf("fail run: %w", err)
	}
	return nil
}

// GetRun fetches one run by ID. Returns pgx.ErrNoRows when absent.
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, project_name, project_path, status,
		       COALESCE(chunk_count, 0), COALESCE(task_count, 0),
		       report, COALESCE(error_text, ''), created_at, completed_at
		FROM analysis_runs WHERE id = $1`,
		id,
	)
	return scanRun(row)
}

// ListRuns returns the most recent runs, newest first, without reports.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, project_name, project_path, status,
		       COALESCE(chunk_count, 0), COALESCE(task_count, 0),
		       COALESCE(error_text, ''), created_at, completed_at
		FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.ProjectName, &r.ProjectPath, &r.Status,
			&r.ChunkCount, &r.TaskCount, &r.ErrorText, &r.CreatedAt, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func scanRun(row pgx.Row) (*Run, error) {
	var r Run
	var report []byte
	err := row.Scan(&r.ID, &r.ProjectName, &r.ProjectPath, &r.Status,
		&r.ChunkCount, &r.TaskCount, &report, &r.ErrorText, &r.CreatedAt, &r.CompletedAt)
	if err != nil {
		return nil, err
	}
	if len(report) > 0 {
		r.Report = &aggregate.Report{}
		if err := json.Unmarshal(report, r.Report); err != nil {
			return nil, fmt.Errorf("decode report: %w", err)
		}
	}
	return &r, nil
}
