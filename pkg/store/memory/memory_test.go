package memory

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/eval"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/store"
)

func testReport(publicID string, createdAt time.Time) *eval.Report {
	return &eval.Report{
		PublicID:  publicID,
		Dataset:   "datasets/quiz.json",
		Model:     "qwen3:8b",
		CreatedAt: createdAt,
		Sources: map[string]*eval.SourceMetrics{
			"dream": {Samples: 2},
		},
	}
}

func TestReportRoundTrip(t *testing.T) {
	s := NewEvalMemStorage()
	ctx := context.Background()

	report := testReport("report-1", time.Now().UTC())
	if err := s.SaveReport(ctx, report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.GetReport(ctx, "report-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PublicID != report.PublicID || got.Dataset != report.Dataset || got.Model != report.Model {
		t.Fatalf("unexpected report:\nexpected: %+v\nreceived: %+v", report, got)
	}
	if got.Sources["dream"] == nil || got.Sources["dream"].Samples != 2 {
		t.Fatalf("unexpected sources: %+v", got.Sources)
	}
}

func TestGetReportNotFound(t *testing.T) {
	s := NewEvalMemStorage()

	_, err := s.GetReport(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unexpected error:\nexpected: %v\nreceived: %v", store.ErrNotFound, err)
	}
}

func TestListReportsNewestFirst(t *testing.T) {
	s := NewEvalMemStorage()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := s.SaveReport(ctx, testReport("older", base)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SaveReport(ctx, testReport("newer", base.Add(time.Hour))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summaries, err := s.ListReports(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := make([]string, len(summaries))
	for i, summary := range summaries {
		ids[i] = summary.PublicID
	}
	expected := []string{"newer", "older"}
	if !reflect.DeepEqual(ids, expected) {
		t.Fatalf("unexpected order:\nexpected: %v\nreceived: %v", expected, ids)
	}
}

func TestDeleteReport(t *testing.T) {
	s := NewEvalMemStorage()
	ctx := context.Background()

	if err := s.SaveReport(ctx, testReport("report-1", time.Now().UTC())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.DeleteReport(ctx, "report-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.GetReport(ctx, "report-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unexpected error:\nexpected: %v\nreceived: %v", store.ErrNotFound, err)
	}
	if err := s.DeleteReport(ctx, "report-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unexpected error:\nexpected: %v\nreceived: %v", store.ErrNotFound, err)
	}
}

func TestJobLifecycle(t *testing.T) {
	s := NewEvalMemStorage()
	ctx := context.Background()

	payload := []byte(`{"dataset_key":"datasets/quiz.json"}`)
	job, err := s.CreateJob(ctx, store.JobKindEvaluate, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.PublicID == "" {
		t.Fatalf("expected a public id")
	}
	if job.Status != store.JobStatusPending {
		t.Fatalf("unexpected status:\nexpected: %q\nreceived: %q", store.JobStatusPending, job.Status)
	}
	if string(job.Payload) != string(payload) {
		t.Fatalf("unexpected payload:\nexpected: %s\nreceived: %s", payload, job.Payload)
	}

	if err := s.MarkJobRunning(ctx, job.PublicID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.UpdateJobProgress(ctx, job.PublicID, 3, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.GetJob(ctx, job.PublicID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != store.JobStatusRunning || got.Done != 3 || got.Total != 10 {
		t.Fatalf("unexpected job state: %+v", got)
	}

	if err := s.MarkJobCompleted(ctx, job.PublicID, "report-1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err = s.GetJob(ctx, job.PublicID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != store.JobStatusCompleted || got.ReportID != "report-1" {
		t.Fatalf("unexpected job state: %+v", got)
	}
}

func TestMarkJobFailed(t *testing.T) {
	s := NewEvalMemStorage()
	ctx := context.Background()

	job, err := s.CreateJob(ctx, store.JobKindParse, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.MarkJobFailed(ctx, job.PublicID, "failed to load dataset file"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.GetJob(ctx, job.PublicID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != store.JobStatusFailed || got.Error != "failed to load dataset file" {
		t.Fatalf("unexpected job state: %+v", got)
	}
}

func TestJobNotFound(t *testing.T) {
	s := NewEvalMemStorage()
	ctx := context.Background()

	if _, err := s.GetJob(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unexpected error:\nexpected: %v\nreceived: %v", store.ErrNotFound, err)
	}
	if err := s.MarkJobRunning(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unexpected error:\nexpected: %v\nreceived: %v", store.ErrNotFound, err)
	}
}

func TestEmbeddingCache(t *testing.T) {
	s := NewEvalMemStorage()
	ctx := context.Background()

	first := map[string][]float32{
		"key-a": {1, 2},
		"key-b": {3, 4},
	}
	if err := s.PutCachedEmbeddings(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.GetCachedEmbeddings(ctx, []string{"key-a", "key-b", "key-c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, first) {
		t.Fatalf("unexpected embeddings:\nexpected: %v\nreceived: %v", first, got)
	}

	if err := s.PutCachedEmbeddings(ctx, map[string][]float32{"key-a": {9, 9}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err = s.GetCachedEmbeddings(ctx, []string{"key-a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got["key-a"], []float32{1, 2}) {
		t.Fatalf("expected existing entry to win, received: %v", got["key-a"])
	}
}
