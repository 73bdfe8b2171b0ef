package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/quizbench/backend/internal/util"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/common"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/graph"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/loader"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/loader/s3"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/logger"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/quiz"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/store"
	storepgx "github.com/OFFIS-RIT/quizbench/backend/pkg/store/pgx"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ParseJobResult is the output stored on a completed parse job.
type ParseJobResult struct {
	Quiz  common.Quiz            `json:"quiz"`
	Graph *common.KnowledgeGraph `json:"graph,omitempty"`
}

// ProcessParseMessage runs one parse job: it loads a raw generator
// output from the object store, parses it into a quiz and optionally a
// knowledge graph, and stores the result on the job row.
func ProcessParseMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	conn *pgxpool.Pool,
	msg string,
) (err error) {
	data := new(QueueParseJobMsg)
	if err = json.Unmarshal([]byte(msg), &data); err != nil {
		return err
	}

	storage := storepgx.NewEvalDBStorageWithConnection(conn)
	defer func() {
		if err == nil || data.JobID == "" {
			return
		}
		updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if updateErr := storage.MarkJobFailed(updateCtx, data.JobID, err.Error()); updateErr != nil {
			logger.Warn("[Queue] Failed to mark parse job as failed", "job_id", data.JobID, "err", updateErr)
		}
	}()

	if data.OutputKey == "" {
		return fmt.Errorf("parse message is missing the output key")
	}

	if data.JobID != "" {
		if markErr := storage.MarkJobRunning(ctx, data.JobID); markErr != nil && !errors.Is(markErr, store.ErrNotFound) {
			logger.Warn("[Queue] Failed to mark parse job as running", "job_id", data.JobID, "err", markErr)
		}
	}

	s3Bucket := util.GetEnvString("AWS_BUCKET", "quizbench")
	s3L := s3.NewS3DatasetFileLoaderWithClient(s3Bucket, s3Client)

	file := loader.NewDatasetFile(loader.NewDatasetFileParams{
		ID:       "output",
		FilePath: data.OutputKey,
		Loader:   s3L,
	})
	raw, err := util.RetryWithContext(ctx, 3, func(ctx context.Context) ([]byte, error) {
		return file.GetText(ctx)
	})
	if err != nil {
		return err
	}

	parsed, err := quiz.ParseQuiz(string(raw))
	if err != nil {
		return fmt.Errorf("failed to parse generator output: %w", err)
	}

	result := ParseJobResult{Quiz: parsed}
	if data.Graph {
		kg, graphErr := graph.ParseKnowledgeGraph(string(raw))
		if graphErr != nil {
			return fmt.Errorf("failed to extract knowledge graph: %w", graphErr)
		}
		result.Graph = &kg
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal parse result: %w", err)
	}

	if data.JobID != "" {
		if err := storage.MarkJobCompleted(ctx, data.JobID, "", payload); err != nil {
			return err
		}
	}

	logger.Info("[Queue] Parse completed",
		"job_id", data.JobID,
		"output", data.OutputKey,
		"questions", len(parsed.Questions),
	)
	return nil
}
