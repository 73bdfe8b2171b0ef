package server

import (
	"github.com/OFFIS-RIT/quizbench/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/quizbench/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Dataset routes
	apiRoutes.GET("/datasets", routes.GetDatasetsHandler, middleware.RequirePermission("dataset.view"))
	apiRoutes.GET("/datasets/file", routes.GetDatasetFileHandler, middleware.RequirePermission("dataset.view"))
	apiRoutes.POST("/datasets", routes.UploadDatasetHandler, middleware.RequirePermission("dataset.upload"))
	apiRoutes.DELETE("/datasets", routes.DeleteDatasetHandler, middleware.RequirePermission("dataset.delete"))

	// Evaluation and parse routes
	apiRoutes.POST("/evaluations", routes.CreateEvaluationHandler, middleware.RequirePermission("evaluation.create"))
	apiRoutes.POST("/parse", routes.ParseOutputHandler, middleware.RequirePermission("parse.create"))
	apiRoutes.POST("/parses", routes.CreateParseHandler, middleware.RequirePermission("parse.create"))
	apiRoutes.GET("/jobs/:id", routes.GetJobHandler, middleware.RequireAnyPermission("evaluation.view", "parse.create"))
	apiRoutes.GET("/schema/question", routes.GetQuestionSchemaHandler)

	// Report routes
	apiRoutes.GET("/reports", routes.GetReportsHandler, middleware.RequirePermission("report.view"))
	apiRoutes.GET("/reports/:id", routes.GetReportHandler, middleware.RequirePermission("report.view"))
	apiRoutes.DELETE("/reports/:id", routes.DeleteReportHandler, middleware.RequirePermission("report.delete"))
}
