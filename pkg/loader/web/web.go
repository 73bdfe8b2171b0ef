package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/loader"

	"codeberg.org/readeck/go-readability/v2"
	"golang.org/x/sync/singleflight"
)

// WebDatasetLoader loads content from web URLs. For HTML pages it uses
// readability to extract the main article text; other content types
// are returned raw or handed to a fallback loader.
type WebDatasetLoader struct {
	fallback loader.DatasetFileLoader

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewWebDatasetLoader creates a new web loader without a fallback
// loader.
func NewWebDatasetLoader() *WebDatasetLoader {
	return &WebDatasetLoader{
		cache: make(map[string][]byte),
	}
}

// NewWebDatasetLoaderWithFallback creates a web loader that hands
// non-HTML content to the given fallback loader.
func NewWebDatasetLoaderWithFallback(fallback loader.DatasetFileLoader) *WebDatasetLoader {
	return &WebDatasetLoader{
		fallback: fallback,
		cache:    make(map[string][]byte),
	}
}

// GetFileText fetches a URL and returns its content. HTML pages are
// reduced to their readable article text; everything else is the raw
// response body. Results are cached per process.
func (l *WebDatasetLoader) GetFileText(ctx context.Context, file loader.DatasetFile) ([]byte, error) {
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

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.FilePath, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch url: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to fetch url: status %d", resp.StatusCode)
		}

		contentType := resp.Header.Get("Content-Type")
		if strings.Contains(contentType, "text/html") {
			pageURL, err := url.Parse(file.FilePath)
			if err != nil {
				return nil, fmt.Errorf("failed to parse url: %w", err)
			}
			article, err := readability.FromReader(resp.Body, pageURL)
			if err != nil {
				return nil, fmt.Errorf("failed to parse html: %w", err)
			}
			var builder strings.Builder
			if err := article.RenderText(&builder); err != nil {
				return nil, fmt.Errorf("failed to render article text: %w", err)
			}

			result := []byte(builder.String())

			l.cacheMu.Lock()
			l.cache[key] = result
			l.cacheMu.Unlock()

			return result, nil
		}

		if l.fallback != nil {
			return l.fallback.GetFileText(ctx, file)
		}

		result, err := io.ReadAll(resp.Body)
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
