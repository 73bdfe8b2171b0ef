package routes

import (
	"errors"
	"net/http"

	"github.com/OFFIS-RIT/quizbench/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/quizbench/backend/internal/util"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/logger"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/store"
	storepgx "github.com/OFFIS-RIT/quizbench/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// GetJobHandler returns the lifecycle state of one job, including
// progress counters and, for completed parse jobs, the parse result.
func GetJobHandler(c echo.Context) error {
	type getJobResponse struct {
		Message  string     `json:"message,omitempty"`
		Job      *store.Job `json:"job,omitempty"`
		Percent  int32      `json:"percent,omitempty"`
		Progress string     `json:"progress,omitempty"`
	}

	publicID := c.Param("id")
	if publicID == "" {
		return c.JSON(http.StatusBadRequest, getJobResponse{
			Message: "Missing job id",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	storage := storepgx.NewEvalDBStorageWithConnection(app.DBConn)

	job, err := storage.GetJob(ctx, publicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, getJobResponse{
				Message: "Job not found",
			})
		}
		logger.Error("Failed to get job", "job_id", publicID, "err", err)
		return c.JSON(http.StatusInternalServerError, getJobResponse{
			Message: "Internal server error",
		})
	}

	progress := jobProgress(job)
	return c.JSON(http.StatusOK, getJobResponse{
		Job:      job,
		Percent:  progress.Percent(),
		Progress: progress.Label(),
	})
}

// jobProgress maps the job row onto the staged progress scale. Running
// jobs without a sample total are still loading their inputs.
func jobProgress(job *store.Job) util.JobProgress {
	switch job.Status {
	case store.JobStatusRunning:
		if job.Total == 0 {
			return util.JobProgress{Stage: util.JobStageLoading}
		}
		if job.Done >= job.Total {
			return util.JobProgress{Stage: util.JobStageAggregating}
		}
		return util.JobProgress{Stage: util.JobStageScoring, Done: job.Done, Total: job.Total}
	case store.JobStatusCompleted:
		return util.JobProgress{Stage: util.JobStageCompleted}
	case store.JobStatusFailed:
		return util.JobProgress{Stage: util.JobStageFailed}
	default:
		return util.JobProgress{Stage: util.JobStagePending}
	}
}
