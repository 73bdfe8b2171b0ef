package routes

import (
	"net/http"
	"strings"

	"github.com/OFFIS-RIT/quizbench/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/quizbench/backend/internal/storage"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GetDatasetsHandler lists the stored dataset and prediction
// documents, newest first.
func GetDatasetsHandler(c echo.Context) error {
	type getDatasetsResponse struct {
		Message string               `json:"message,omitempty"`
		Files   []storage.ObjectInfo `json:"files"`
	}

	ctx := c.Request().Context()
	s3Client := c.(*middleware.AppContext).App.S3

	files, err := storage.ListFilesWithPrefix(ctx, s3Client, storage.DatasetPrefix)
	if err != nil {
		logger.Error("Failed to list dataset files", "err", err)
		return c.JSON(http.StatusInternalServerError, getDatasetsResponse{
			Message: "Internal server error",
			Files:   []storage.ObjectInfo{},
		})
	}

	if files == nil {
		files = []storage.ObjectInfo{}
	}
	return c.JSON(http.StatusOK, getDatasetsResponse{Files: files})
}

// GetDatasetFileHandler returns a presigned download link for one
// stored dataset document. The object key is passed as a query
// parameter because it contains slashes.
func GetDatasetFileHandler(c echo.Context) error {
	type getDatasetFileResponse struct {
		Message string `json:"message,omitempty"`
		URL     string `json:"url,omitempty"`
	}

	key := c.QueryParam("key")
	if !strings.HasPrefix(key, storage.DatasetPrefix) && !strings.HasPrefix(key, storage.OutputPrefix) {
		return c.JSON(http.StatusBadRequest, getDatasetFileResponse{
			Message: "Invalid file key",
		})
	}

	ctx := c.Request().Context()
	s3Client := c.(*middleware.AppContext).App.S3

	url, err := storage.GenerateDownloadLink(ctx, s3Client, key)
	if err != nil {
		logger.Error("Failed to presign dataset file", "key", key, "err", err)
		return c.JSON(http.StatusInternalServerError, getDatasetFileResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getDatasetFileResponse{URL: url})
}
