package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/eval"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
)

// SaveReport persists a finished report. The full report document is
// stored as JSONB next to the listing columns, so reports round-trip
// without a second query.
func (s *EvalDBStorage) SaveReport(ctx context.Context, report *eval.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = s.conn.Exec(ctx, `
		INSERT INTO eval_reports (public_id, dataset, model, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (public_id) DO UPDATE
		SET dataset = EXCLUDED.dataset,
		    model = EXCLUDED.model,
		    payload = EXCLUDED.payload
	`, report.PublicID, report.Dataset, report.Model, payload, report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// GetReport loads a report by its public id. Returns store.ErrNotFound
// when no report with that id exists.
func (s *EvalDBStorage) GetReport(ctx context.Context, publicID string) (*eval.Report, error) {
	var payload []byte
	err := s.conn.QueryRow(ctx, `
		SELECT payload
		FROM eval_reports
		WHERE public_id = $1
	`, publicID).Scan(&payload)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report eval.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// ListReports returns summaries of all stored reports, newest first.
func (s *EvalDBStorage) ListReports(ctx context.Context) ([]store.ReportSummary, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT public_id, dataset, model, created_at
		FROM eval_reports
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	summaries := make([]store.ReportSummary, 0)
	for rows.Next() {
		var summary store.ReportSummary
		if err := rows.Scan(&summary.PublicID, &summary.Dataset, &summary.Model, &summary.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report summary: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return summaries, nil
}

// DeleteReport removes a report by its public id. Returns
// store.ErrNotFound when no report with that id exists.
func (s *EvalDBStorage) DeleteReport(ctx context.Context, publicID string) error {
	tag, err := s.conn.Exec(ctx, `
		DELETE FROM eval_reports
		WHERE public_id = $1
	`, publicID)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
