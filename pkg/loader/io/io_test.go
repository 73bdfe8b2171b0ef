package io

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/loader"
)

func TestGetFileText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	if err := os.WriteFile(path, []byte(`[{"id": 1}]`), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	l := NewIODatasetFileLoader()
	file := loader.NewDatasetFile(loader.NewDatasetFileParams{
		ID:       "1",
		FilePath: path,
		Loader:   l,
	})

	data, err := l.GetFileText(context.Background(), file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `[{"id": 1}]` {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestGetFileTextCachesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	if err := os.WriteFile(path, []byte("original"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	l := NewIODatasetFileLoader()
	file := loader.NewDatasetFile(loader.NewDatasetFileParams{
		ID:       "1",
		FilePath: path,
		Loader:   l,
	})

	if _, err := l.GetFileText(context.Background(), file); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := os.WriteFile(path, []byte("changed"), 0o644); err != nil {
		t.Fatalf("failed to rewrite test file: %v", err)
	}

	data, err := l.GetFileText(context.Background(), file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "original" {
		t.Fatalf("expected cached content, received %q", data)
	}
}

func TestGetFileTextMissingFile(t *testing.T) {
	l := NewIODatasetFileLoader()
	file := loader.NewDatasetFile(loader.NewDatasetFileParams{
		ID:       "1",
		FilePath: filepath.Join(t.TempDir(), "missing.json"),
		Loader:   l,
	})

	if _, err := l.GetFileText(context.Background(), file); err == nil {
		t.Fatal("expected error for missing file")
	}
}
