package routes

import (
	"errors"
	"net/http"

	"github.com/OFFIS-RIT/quizbench/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/eval"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/logger"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/store"
	storepgx "github.com/OFFIS-RIT/quizbench/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// GetReportsHandler lists stored evaluation reports without their
// payloads, newest first.
func GetReportsHandler(c echo.Context) error {
	type getReportsResponse struct {
		Message string                `json:"message,omitempty"`
		Reports []store.ReportSummary `json:"reports"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	storage := storepgx.NewEvalDBStorageWithConnection(app.DBConn)

	reports, err := storage.ListReports(ctx)
	if err != nil {
		logger.Error("Failed to list reports", "err", err)
		return c.JSON(http.StatusInternalServerError, getReportsResponse{
			Message: "Internal server error",
			Reports: []store.ReportSummary{},
		})
	}

	if reports == nil {
		reports = []store.ReportSummary{}
	}
	return c.JSON(http.StatusOK, getReportsResponse{Reports: reports})
}

// GetReportHandler returns one full report. With ?format=text the
// per-source aggregate tables are rendered as plain text instead.
func GetReportHandler(c echo.Context) error {
	type getReportResponse struct {
		Message string       `json:"message,omitempty"`
		Report  *eval.Report `json:"report,omitempty"`
	}

	publicID := c.Param("id")
	if publicID == "" {
		return c.JSON(http.StatusBadRequest, getReportResponse{
			Message: "Missing report id",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	storage := storepgx.NewEvalDBStorageWithConnection(app.DBConn)

	report, err := storage.GetReport(ctx, publicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, getReportResponse{
				Message: "Report not found",
			})
		}
		logger.Error("Failed to get report", "report_id", publicID, "err", err)
		return c.JSON(http.StatusInternalServerError, getReportResponse{
			Message: "Internal server error",
		})
	}

	if c.QueryParam("format") == "text" {
		return c.String(http.StatusOK, eval.FormatReport(report))
	}

	return c.JSON(http.StatusOK, getReportResponse{Report: report})
}
