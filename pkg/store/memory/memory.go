// Package memory provides an in-process store.EvalStorage used by the
// CLI and by tests, where no database is available. Reports round-trip
// through JSON, matching the persistence behavior of the database
// implementation.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/eval"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/store"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

type EvalMemStorage struct {
	mu         sync.RWMutex
	reports    map[string][]byte
	jobs       map[string]store.Job
	embeddings map[string][]float32
}

// NewEvalMemStorage creates an empty in-memory store.
func NewEvalMemStorage() *EvalMemStorage {
	return &EvalMemStorage{
		reports:    make(map[string][]byte),
		jobs:       make(map[string]store.Job),
		embeddings: make(map[string][]float32),
	}
}

func (s *EvalMemStorage) SaveReport(ctx context.Context, report *eval.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.PublicID] = payload
	return nil
}

func (s *EvalMemStorage) GetReport(ctx context.Context, publicID string) (*eval.Report, error) {
	s.mu.RLock()
	payload, ok := s.reports[publicID]
	s.mu.RUnlock()
	if !ok {
		return nil, store.ErrNotFound
	}

	var report eval.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

func (s *EvalMemStorage) ListReports(ctx context.Context) ([]store.ReportSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]store.ReportSummary, 0, len(s.reports))
	for _, payload := range s.reports {
		var report eval.Report
		if err := json.Unmarshal(payload, &report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
		summaries = append(summaries, store.ReportSummary{
			PublicID:  report.PublicID,
			Dataset:   report.Dataset,
			Model:     report.Model,
			CreatedAt: report.CreatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].PublicID < summaries[j].PublicID
		}
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

func (s *EvalMemStorage) DeleteReport(ctx context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[publicID]; !ok {
		return store.ErrNotFound
	}
	delete(s.reports, publicID)
	return nil
}

func (s *EvalMemStorage) CreateJob(ctx context.Context, kind string, payload []byte) (*store.Job, error) {
	publicID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate job id: %w", err)
	}

	now := time.Now().UTC()
	job := store.Job{
		PublicID:  publicID,
		Kind:      kind,
		Status:    store.JobStatusPending,
		Payload:   append([]byte(nil), payload...),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.jobs[publicID] = job
	s.mu.Unlock()

	out := job
	return &out, nil
}

func (s *EvalMemStorage) GetJob(ctx context.Context, publicID string) (*store.Job, error) {
	s.mu.RLock()
	job, ok := s.jobs[publicID]
	s.mu.RUnlock()
	if !ok {
		return nil, store.ErrNotFound
	}
	return &job, nil
}

func (s *EvalMemStorage) MarkJobRunning(ctx context.Context, publicID string) error {
	return s.updateJob(publicID, func(job *store.Job) {
		job.Status = store.JobStatusRunning
	})
}

func (s *EvalMemStorage) MarkJobCompleted(ctx context.Context, publicID string, reportID string, result []byte) error {
	return s.updateJob(publicID, func(job *store.Job) {
		job.Status = store.JobStatusCompleted
		job.ReportID = reportID
		job.Result = append([]byte(nil), result...)
		job.Error = ""
	})
}

func (s *EvalMemStorage) MarkJobFailed(ctx context.Context, publicID string, reason string) error {
	return s.updateJob(publicID, func(job *store.Job) {
		job.Status = store.JobStatusFailed
		job.Error = reason
	})
}

func (s *EvalMemStorage) UpdateJobProgress(ctx context.Context, publicID string, done, total int) error {
	return s.updateJob(publicID, func(job *store.Job) {
		job.Done = done
		job.Total = total
	})
}

func (s *EvalMemStorage) updateJob(publicID string, apply func(job *store.Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[publicID]
	if !ok {
		return store.ErrNotFound
	}
	apply(&job)
	job.UpdatedAt = time.Now().UTC()
	s.jobs[publicID] = job
	return nil
}

func (s *EvalMemStorage) GetCachedEmbeddings(ctx context.Context, keys []string) (map[string][]float32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]float32, len(keys))
	for _, key := range keys {
		if vec, ok := s.embeddings[key]; ok {
			out[key] = append([]float32(nil), vec...)
		}
	}
	return out, nil
}

func (s *EvalMemStorage) PutCachedEmbeddings(ctx context.Context, embeddings map[string][]float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, vec := range embeddings {
		if _, ok := s.embeddings[key]; ok {
			continue
		}
		s.embeddings[key] = append([]float32(nil), vec...)
	}
	return nil
}
