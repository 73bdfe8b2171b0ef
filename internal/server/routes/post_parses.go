package routes

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/OFFIS-RIT/quizbench/backend/internal/queue"
	"github.com/OFFIS-RIT/quizbench/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/quizbench/backend/internal/storage"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/logger"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/store"
	storepgx "github.com/OFFIS-RIT/quizbench/backend/pkg/store/pgx"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// CreateParseHandler creates a parse job for one raw generator output
// and enqueues it for the worker. The output is referenced by object
// key, or passed inline and stored first.
func CreateParseHandler(c echo.Context) error {
	type createParseBody struct {
		OutputKey string `json:"output_key"`
		Output    string `json:"output"`
		Graph     bool   `json:"graph"`
	}

	type createParseResponse struct {
		Message string     `json:"message"`
		Job     *store.Job `json:"job,omitempty"`
	}

	data := new(createParseBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createParseResponse{
			Message: "Invalid request body",
		})
	}
	if data.OutputKey == "" && strings.TrimSpace(data.Output) == "" {
		return c.JSON(http.StatusBadRequest, createParseResponse{
			Message: "Either output_key or output is required",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	outputKey := data.OutputKey
	if outputKey == "" {
		fID, err := gonanoid.New()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, createParseResponse{
				Message: "Internal server error",
			})
		}
		outputKey, err = storage.PutFile(
			ctx,
			app.S3,
			storage.OutputPrefix,
			"output.txt",
			fID,
			strings.NewReader(data.Output),
		)
		if err != nil {
			logger.Error("Failed to store inline output", "err", err)
			return c.JSON(http.StatusInternalServerError, createParseResponse{
				Message: "Internal server error",
			})
		}
	}

	evalStorage := storepgx.NewEvalDBStorageWithConnection(app.DBConn)

	msg := queue.QueueParseJobMsg{
		OutputKey: outputKey,
		Graph:     data.Graph,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		logger.Error("Failed to marshal parse payload", "err", err)
		return c.JSON(http.StatusInternalServerError, createParseResponse{
			Message: "Internal server error",
		})
	}

	job, err := evalStorage.CreateJob(ctx, store.JobKindParse, payload)
	if err != nil {
		logger.Error("Failed to create parse job", "err", err)
		return c.JSON(http.StatusInternalServerError, createParseResponse{
			Message: "Internal server error",
		})
	}

	msg.JobID = job.PublicID
	payload, err = json.Marshal(msg)
	if err != nil {
		logger.Error("Failed to marshal parse payload", "err", err)
		return c.JSON(http.StatusInternalServerError, createParseResponse{
			Message: "Internal server error",
		})
	}

	if err := queue.PublishFIFO(app.Queue, queue.ParseQueue, payload); err != nil {
		logger.Error("Failed to publish parse job", "job_id", job.PublicID, "err", err)
		if markErr := evalStorage.MarkJobFailed(ctx, job.PublicID, "failed to enqueue"); markErr != nil {
			logger.Warn("Failed to mark job as failed", "job_id", job.PublicID, "err", markErr)
		}
		return c.JSON(http.StatusInternalServerError, createParseResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusAccepted, createParseResponse{
		Message: "Parse queued",
		Job:     job,
	})
}
