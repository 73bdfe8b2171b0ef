package io

import (
	"context"
	"os"
	"sync"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// IODatasetFileLoader loads dataset files directly from the local
// filesystem with caching.
type IODatasetFileLoader struct {
	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewIODatasetFileLoader creates a new filesystem-based dataset file
// loader.
func NewIODatasetFileLoader() *IODatasetFileLoader {
	return &IODatasetFileLoader{
		cache: make(map[string][]byte),
	}
}

// GetFileText reads the file content from the filesystem. Results are
// cached per process, and concurrent reads of the same file share one
// filesystem call.
func (l *IODatasetFileLoader) GetFileText(ctx context.Context, file loader.DatasetFile) ([]byte, error) {
	key := loader.CacheKey(file)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[key]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		result, err := os.ReadFile(file.FilePath)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = result
		l.cacheMu.Unlock()

		return result, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
