package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/quizbench/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/quizbench/backend/internal/storage"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/logger"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// UploadDatasetHandler stores dataset and prediction documents from
// multipart/form-data in the object store and returns their keys.
func UploadDatasetHandler(c echo.Context) error {
	type uploadDatasetResponse struct {
		Message string               `json:"message"`
		Files   []storage.ObjectInfo `json:"files,omitempty"`
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadDatasetResponse{
			Message: "Invalid request body",
		})
	}
	uploads := form.File["files"]
	if len(uploads) == 0 {
		return c.JSON(http.StatusBadRequest, uploadDatasetResponse{
			Message: "No files provided",
		})
	}

	ctx := c.Request().Context()
	s3Client := c.(*middleware.AppContext).App.S3

	files := make([]storage.ObjectInfo, 0, len(uploads))
	for _, file := range uploads {
		src, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, uploadDatasetResponse{
				Message: "Invalid request body",
			})
		}
		defer src.Close()

		fID, err := gonanoid.New()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, uploadDatasetResponse{
				Message: "Internal server error",
			})
		}
		key, err := storage.PutFile(
			ctx,
			s3Client,
			storage.DatasetPrefix,
			file.Filename,
			fID,
			src,
		)
		if err != nil {
			logger.Error("Failed to upload dataset file", "name", file.Filename, "err", err)
			return c.JSON(http.StatusInternalServerError, uploadDatasetResponse{
				Message: "Internal server error",
			})
		}
		files = append(files, storage.ObjectInfo{Key: key, Size: file.Size})
	}

	return c.JSON(http.StatusCreated, uploadDatasetResponse{
		Message: "Files uploaded",
		Files:   files,
	})
}
