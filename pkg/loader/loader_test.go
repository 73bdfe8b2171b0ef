package loader

import (
	"context"
	"testing"
)

func TestDatasetFileGetText(t *testing.T) {
	inline := NewInlineDatasetFile("upload", []byte("inline bytes"))
	data, err := inline.GetText(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "inline bytes" {
		t.Fatalf("expected inline content, received %q", data)
	}

	backed := NewDatasetFile(NewDatasetFileParams{
		ID:       "1",
		FilePath: "datasets/data.json",
		Loader:   staticLoader{content: []byte("from backend")},
	})
	data, err = backed.GetText(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "from backend" {
		t.Fatalf("expected backend content, received %q", data)
	}
}

func TestDatasetFileGetTextWithoutLoader(t *testing.T) {
	file := DatasetFile{ID: "1", FilePath: "datasets/data.json"}
	if _, err := file.GetText(context.Background()); err == nil {
		t.Fatal("expected error for file without loader")
	}
}

func TestCacheKey(t *testing.T) {
	file := DatasetFile{ID: "42", FilePath: "datasets/data.json"}
	if got := CacheKey(file); got != "42:datasets/data.json" {
		t.Fatalf("unexpected cache key %q", got)
	}
}

type staticLoader struct {
	content []byte
}

func (l staticLoader) GetFileText(ctx context.Context, file DatasetFile) ([]byte, error) {
	return l.content, nil
}
