package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/OFFIS-RIT/quizbench/backend/internal/util"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// maxErrorRunes caps stored failure reasons; wrapped parse errors can
// quote entire generator outputs.
const maxErrorRunes = 2000

const jobColumns = `public_id, kind, status, payload, report_public_id, result, error, done, total, created_at, updated_at`

// CreateJob inserts a new pending job of the given kind and returns it.
// The payload is stored verbatim for later inspection; it may be nil.
func (s *EvalDBStorage) CreateJob(ctx context.Context, kind string, payload []byte) (*store.Job, error) {
	publicID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate job id: %w", err)
	}

	var payloadArg any
	if len(payload) > 0 {
		payloadArg = payload
	}

	row := s.conn.QueryRow(ctx, `
		INSERT INTO eval_jobs (public_id, kind, status, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING `+jobColumns+`
	`, publicID, kind, store.JobStatusPending, payloadArg)
	job, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

// GetJob loads a job by its public id. Returns store.ErrNotFound when
// no job with that id exists.
func (s *EvalDBStorage) GetJob(ctx context.Context, publicID string) (*store.Job, error) {
	row := s.conn.QueryRow(ctx, `
		SELECT `+jobColumns+`
		FROM eval_jobs
		WHERE public_id = $1
	`, publicID)
	job, err := scanJob(row)
	if errors.Is(err, store.ErrNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// MarkJobRunning transitions a job to the running status.
func (s *EvalDBStorage) MarkJobRunning(ctx context.Context, publicID string) error {
	return s.updateJob(ctx, `
		UPDATE eval_jobs
		SET status = $2, updated_at = now()
		WHERE public_id = $1
	`, publicID, store.JobStatusRunning)
}

// MarkJobCompleted transitions a job to the completed status. Evaluate
// jobs reference their stored report through reportID; parse jobs carry
// their output in result. Either may be empty.
func (s *EvalDBStorage) MarkJobCompleted(ctx context.Context, publicID string, reportID string, result []byte) error {
	var resultArg any
	if len(result) > 0 {
		resultArg = result
	}
	return s.updateJob(ctx, `
		UPDATE eval_jobs
		SET status = $2, report_public_id = $3, result = $4, error = '', updated_at = now()
		WHERE public_id = $1
	`, publicID, store.JobStatusCompleted, reportID, resultArg)
}

// MarkJobFailed transitions a job to the failed status and records the
// failure reason.
func (s *EvalDBStorage) MarkJobFailed(ctx context.Context, publicID string, reason string) error {
	reason = util.ClampRunes(util.SanitizePostgresText(reason), maxErrorRunes)
	return s.updateJob(ctx, `
		UPDATE eval_jobs
		SET status = $2, error = $3, updated_at = now()
		WHERE public_id = $1
	`, publicID, store.JobStatusFailed, reason)
}

// UpdateJobProgress records how many of the job's work items are done.
func (s *EvalDBStorage) UpdateJobProgress(ctx context.Context, publicID string, done, total int) error {
	return s.updateJob(ctx, `
		UPDATE eval_jobs
		SET done = $2, total = $3, updated_at = now()
		WHERE public_id = $1
	`, publicID, done, total)
}

func (s *EvalDBStorage) updateJob(ctx context.Context, sql string, args ...any) error {
	tag, err := s.conn.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanJob(row pgxv5.Row) (*store.Job, error) {
	var job store.Job
	var payload, result []byte
	err := row.Scan(
		&job.PublicID,
		&job.Kind,
		&job.Status,
		&payload,
		&job.ReportID,
		&result,
		&job.Error,
		&job.Done,
		&job.Total,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	job.Payload = payload
	job.Result = result
	return &job, nil
}
