package routes

import (
	"encoding/json"
	"net/http"

	"github.com/OFFIS-RIT/quizbench/backend/internal/queue"
	"github.com/OFFIS-RIT/quizbench/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/logger"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/store"
	storepgx "github.com/OFFIS-RIT/quizbench/backend/pkg/store/pgx"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// CreateEvaluationHandler creates an evaluate job and enqueues it for
// the worker. The dataset and predictions keys reference documents in
// the object store.
func CreateEvaluationHandler(c echo.Context) error {
	type createEvaluationBody struct {
		DatasetKey     string   `json:"dataset_key" validate:"required"`
		PredictionsKey string   `json:"predictions_key" validate:"required"`
		Model          string   `json:"model"`
		Sources        []string `json:"sources"`
		Workers        int      `json:"workers"`
		Embeddings     bool     `json:"embeddings"`
	}

	type createEvaluationResponse struct {
		Message string     `json:"message"`
		Job     *store.Job `json:"job,omitempty"`
	}

	data := new(createEvaluationBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createEvaluationResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createEvaluationResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	storage := storepgx.NewEvalDBStorageWithConnection(app.DBConn)

	msg := queue.QueueEvaluateJobMsg{
		DatasetKey:     data.DatasetKey,
		PredictionsKey: data.PredictionsKey,
		Model:          data.Model,
		Sources:        data.Sources,
		Workers:        data.Workers,
		Embeddings:     data.Embeddings,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		logger.Error("Failed to marshal evaluate payload", "err", err)
		return c.JSON(http.StatusInternalServerError, createEvaluationResponse{
			Message: "Internal server error",
		})
	}

	job, err := storage.CreateJob(ctx, store.JobKindEvaluate, payload)
	if err != nil {
		logger.Error("Failed to create evaluate job", "err", err)
		return c.JSON(http.StatusInternalServerError, createEvaluationResponse{
			Message: "Internal server error",
		})
	}

	msg.JobID = job.PublicID
	payload, err = json.Marshal(msg)
	if err != nil {
		logger.Error("Failed to marshal evaluate payload", "err", err)
		return c.JSON(http.StatusInternalServerError, createEvaluationResponse{
			Message: "Internal server error",
		})
	}

	if err := queue.PublishFIFO(app.Queue, queue.EvaluateQueue, payload); err != nil {
		logger.Error("Failed to publish evaluate job", "job_id", job.PublicID, "err", err)
		if markErr := storage.MarkJobFailed(ctx, job.PublicID, "failed to enqueue"); markErr != nil {
			logger.Warn("Failed to mark job as failed", "job_id", job.PublicID, "err", markErr)
		}
		return c.JSON(http.StatusInternalServerError, createEvaluationResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusAccepted, createEvaluationResponse{
		Message: "Evaluation queued",
		Job:     job,
	})
}
