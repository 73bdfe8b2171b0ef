package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/eval"
)

// ErrNotFound is returned when a report or job does not exist.
var ErrNotFound = errors.New("not found")

// Job kinds.
const (
	JobKindParse    = "parse"
	JobKindEvaluate = "evaluate"
)

// Job statuses.
const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// Job is the lifecycle record of one queued unit of work. Payload
// carries the enqueued request for inspection; Result holds the output
// of parse jobs, while evaluate jobs reference their report by id.
type Job struct {
	PublicID  string          `json:"public_id"`
	Kind      string          `json:"kind"`
	Status    string          `json:"status"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	ReportID  string          `json:"report_id,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	Done      int             `json:"done"`
	Total     int             `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ReportSummary is the listing view of a stored report, without the
// full payload.
type ReportSummary struct {
	PublicID  string    `json:"public_id"`
	Dataset   string    `json:"dataset"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// EvalStorage defines the interface for persisting evaluation reports,
// job lifecycle state, and cached embeddings. Implementations exist
// for PostgreSQL and for in-process memory.
type EvalStorage interface {
	SaveReport(ctx context.Context, report *eval.Report) error
	GetReport(ctx context.Context, publicID string) (*eval.Report, error)
	ListReports(ctx context.Context) ([]ReportSummary, error)
	DeleteReport(ctx context.Context, publicID string) error

	CreateJob(ctx context.Context, kind string, payload []byte) (*Job, error)
	GetJob(ctx context.Context, publicID string) (*Job, error)
	MarkJobRunning(ctx context.Context, publicID string) error
	MarkJobCompleted(ctx context.Context, publicID string, reportID string, result []byte) error
	MarkJobFailed(ctx context.Context, publicID string, reason string) error
	UpdateJobProgress(ctx context.Context, publicID string, done, total int) error

	GetCachedEmbeddings(ctx context.Context, keys []string) (map[string][]float32, error)
	PutCachedEmbeddings(ctx context.Context, embeddings map[string][]float32) error
}
