package routes

import (
	"net/http"
	"strings"

	"github.com/OFFIS-RIT/quizbench/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/quizbench/backend/internal/storage"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DeleteDatasetHandler removes one stored dataset document. The object
// key is passed as a query parameter because it contains slashes.
func DeleteDatasetHandler(c echo.Context) error {
	type deleteDatasetResponse struct {
		Message string `json:"message"`
	}

	key := c.QueryParam("key")
	if !strings.HasPrefix(key, storage.DatasetPrefix) && !strings.HasPrefix(key, storage.OutputPrefix) {
		return c.JSON(http.StatusBadRequest, deleteDatasetResponse{
			Message: "Invalid file key",
		})
	}

	ctx := c.Request().Context()
	s3Client := c.(*middleware.AppContext).App.S3

	if err := storage.DeleteFile(ctx, s3Client, key); err != nil {
		logger.Error("Failed to delete dataset file", "key", key, "err", err)
		return c.JSON(http.StatusInternalServerError, deleteDatasetResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, deleteDatasetResponse{
		Message: "File deleted",
	})
}
