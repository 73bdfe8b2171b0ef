// Package loader reads dataset and prediction documents from
// pluggable backends and parses them into evaluation records.
package loader

import (
	"context"
	"errors"
)

// DatasetFile identifies one dataset or predictions document and the
// backend that loads its bytes.
//
// The actual file content is retrieved via the associated
// DatasetFileLoader, except for inline files which carry their bytes
// directly.
type DatasetFile struct {
	ID       string
	FilePath string
	Raw      []byte
	Loader   DatasetFileLoader
}

// NewDatasetFileParams defines the input parameters for creating a new
// DatasetFile instance. It is used by the constructor functions to
// initialize DatasetFile values with consistent metadata and loader
// configuration.
type NewDatasetFileParams struct {
	ID       string
	FilePath string
	Loader   DatasetFileLoader
}

// NewDatasetFile creates a DatasetFile whose content is fetched
// through the configured loader backend.
func NewDatasetFile(params NewDatasetFileParams) DatasetFile {
	return DatasetFile{
		ID:       params.ID,
		FilePath: params.FilePath,
		Loader:   params.Loader,
	}
}

// NewInlineDatasetFile creates a DatasetFile that serves the given
// bytes directly, without a loader backend. This is used for uploads
// that are already held in memory.
func NewInlineDatasetFile(id string, raw []byte) DatasetFile {
	return DatasetFile{
		ID:  id,
		Raw: raw,
	}
}

// GetText retrieves the raw bytes of the file. Inline content wins
// over the loader backend.
//
// Example:
//
//	data, err := file.GetText(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	records, err := loader.ParseRecords(data)
func (f *DatasetFile) GetText(ctx context.Context) ([]byte, error) {
	if f.Raw != nil {
		return f.Raw, nil
	}
	if f.Loader == nil {
		return nil, errors.New("dataset file has no loader")
	}
	return f.Loader.GetFileText(ctx, *f)
}

// DatasetFileLoader defines the interface for loading the contents of
// a DatasetFile. Implementations may load files from disk, object
// storage, or the web.
type DatasetFileLoader interface {
	GetFileText(ctx context.Context, file DatasetFile) ([]byte, error)
}

// CacheKey generates a unique cache key for a DatasetFile based on its
// ID and path.
func CacheKey(file DatasetFile) string {
	return file.ID + ":" + file.FilePath
}
