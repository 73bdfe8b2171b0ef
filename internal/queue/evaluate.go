package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/quizbench/backend/internal/util"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/ai"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/eval"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/leaselock"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/loader"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/loader/s3"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/logger"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/store"
	storepgx "github.com/OFFIS-RIT/quizbench/backend/pkg/store/pgx"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProcessEvaluateMessage runs one evaluation job: it loads the dataset
// and prediction files from the object store, scores the generated
// questions against the references, and persists the report. The job
// row tracks progress and ends in completed or failed.
func ProcessEvaluateMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	aiClient ai.EvalAIClient,
	conn *pgxpool.Pool,
	msg string,
) (err error) {
	data := new(QueueEvaluateJobMsg)
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
			logger.Warn("[Queue] Failed to mark evaluate job as failed", "job_id", data.JobID, "err", updateErr)
		}
	}()

	if data.DatasetKey == "" || data.PredictionsKey == "" {
		return fmt.Errorf("evaluate message is missing dataset or predictions key")
	}

	if data.JobID != "" {
		if markErr := storage.MarkJobRunning(ctx, data.JobID); markErr != nil && !errors.Is(markErr, store.ErrNotFound) {
			logger.Warn("[Queue] Failed to mark evaluate job as running", "job_id", data.JobID, "err", markErr)
		}
	}

	s3Bucket := util.GetEnvString("AWS_BUCKET", "quizbench")
	s3L := s3.NewS3DatasetFileLoaderWithClient(s3Bucket, s3Client)

	reference, err := util.RetryWithContext(ctx, 3, func(ctx context.Context) ([]loader.Record, error) {
		return loader.LoadRecords(ctx, loader.NewDatasetFile(loader.NewDatasetFileParams{
			ID:       "reference",
			FilePath: data.DatasetKey,
			Loader:   s3L,
		}))
	})
	if err != nil {
		return err
	}
	candidate, err := util.RetryWithContext(ctx, 3, func(ctx context.Context) ([]loader.Record, error) {
		return loader.LoadRecords(ctx, loader.NewDatasetFile(loader.NewDatasetFileParams{
			ID:       "candidate",
			FilePath: data.PredictionsKey,
			Loader:   s3L,
		}))
	})
	if err != nil {
		return err
	}

	reference = loader.FilterSources(reference, data.Sources)
	samples := eval.SamplesFromRecords(reference, candidate)
	logger.Info("[Queue] Starting evaluation",
		"job_id", data.JobID,
		"dataset", data.DatasetKey,
		"predictions", data.PredictionsKey,
		"samples", len(samples),
	)

	if data.JobID != "" {
		if progressErr := storage.UpdateJobProgress(ctx, data.JobID, 0, len(samples)); progressErr != nil {
			logger.Warn("[Queue] Failed to update job progress", "job_id", data.JobID, "err", progressErr)
		}
	}

	// Evaluations of the same dataset share the embedding cache, so a
	// second job waits instead of embedding the same texts twice.
	lockClient := leaselock.New(conn)
	lease, err := lockClient.Acquire(ctx, "dataset:"+data.DatasetKey, leaselock.Options{
		TTL:         10 * time.Minute,
		RenewEvery:  4 * time.Minute,
		Wait:        true,
		TokenPrefix: fmt.Sprintf("evaluate/%s/", data.JobID),
	})
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := lease.Release(context.Background()); releaseErr != nil {
			logger.Warn("[Queue] Failed to release dataset lock", "job_id", data.JobID, "err", releaseErr)
		}
	}()

	opts := []eval.EvaluatorOption{}
	if data.Workers > 0 {
		opts = append(opts, eval.WithWorkers(data.Workers))
	}
	if data.Embeddings && aiClient != nil {
		opts = append(opts, eval.WithEmbeddingClient(aiClient))
	}
	if data.JobID != "" {
		jobID := data.JobID
		opts = append(opts, eval.WithProgress(func(done, total int) {
			if done != total && done%10 != 0 {
				return
			}
			if progressErr := storage.UpdateJobProgress(ctx, jobID, done, total); progressErr != nil {
				logger.Warn("[Queue] Failed to update job progress", "job_id", jobID, "err", progressErr)
			}
		}))
	}
	evaluator := eval.NewEvaluator(opts...)

	start := time.Now()
	results, err := evaluator.EvaluateAll(lease.Context, samples)
	if err != nil {
		return err
	}
	sources := evaluator.Aggregate(lease.Context, results)

	model := data.Model
	if model == "" {
		model = "unknown"
	}
	report, err := eval.NewReport(data.DatasetKey, model, sources, results, time.Since(start))
	if err != nil {
		return err
	}
	if err := storage.SaveReport(ctx, report); err != nil {
		return err
	}

	if data.JobID != "" {
		if progressErr := storage.UpdateJobProgress(ctx, data.JobID, len(samples), len(samples)); progressErr != nil {
			logger.Warn("[Queue] Failed to update job progress", "job_id", data.JobID, "err", progressErr)
		}
		if err := storage.MarkJobCompleted(ctx, data.JobID, report.PublicID, nil); err != nil {
			return err
		}
	}

	logger.Info("[Queue] Evaluation completed",
		"job_id", data.JobID,
		"report_id", report.PublicID,
		"samples", len(samples),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
