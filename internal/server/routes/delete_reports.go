package routes

import (
	"errors"
	"net/http"

	"github.com/OFFIS-RIT/quizbench/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/logger"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/store"
	storepgx "github.com/OFFIS-RIT/quizbench/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// DeleteReportHandler removes one stored report.
func DeleteReportHandler(c echo.Context) error {
	type deleteReportResponse struct {
		Message string `json:"message"`
	}

	publicID := c.Param("id")
	if publicID == "" {
		return c.JSON(http.StatusBadRequest, deleteReportResponse{
			Message: "Missing report id",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	storage := storepgx.NewEvalDBStorageWithConnection(app.DBConn)

	if err := storage.DeleteReport(ctx, publicID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, deleteReportResponse{
				Message: "Report not found",
			})
		}
		logger.Error("Failed to delete report", "report_id", publicID, "err", err)
		return c.JSON(http.StatusInternalServerError, deleteReportResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, deleteReportResponse{
		Message: "Report deleted",
	})
}
