package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gsearch/internal/storage"
)

func TestSQLiteBackend(t *testing.T) {
	tmpDir := t.TempDir()
	dsn := filepath.Join(tmpDir, "gsearch.db")

	b, err := New(dsn)
	if err != nil {
		t.Fatalf("Failed to create SQLite backend: %v", err)
	}
	defer b.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	rec1 := &storage.Record{
		ID:        "sq1",
		Query:     "golang concurrency",
		Title:     "Go Concurrency Patterns",
		Href:      "https://example.com/patterns",
		PageText:  "pipelines and cancellation",
		Position:  0,
		CreatedAt: now.Add(-2 * time.Hour),
	}
	rec2 := &storage.Record{
		ID:        "sq2",
		Query:     "rust lang",
		Title:     "The Rust Programming Language",
		Href:      "https://example.com/rust",
		Position:  0,
		CreatedAt: now.Add(-1 * time.Hour),
	}

	if err := b.Save(ctx, rec1); err != nil {
		t.Fatalf("Failed to save record 1: %v", err)
	}
	if err := b.Save(ctx, rec2); err != nil {
		t.Fatalf("Failed to save record 2: %v", err)
	}

	// Query filter
	byQuery, err := b.Query(ctx, storage.Filter{Query: "rust lang"})
	if err != nil {
		t.Fatalf("Failed to query by search query: %v", err)
	}
	if len(byQuery) != 1 || byQuery[0].ID != "sq2" {
		t.Fatalf("Expected only sq2 for query filter, got %v", byQuery)
	}

	// Href filter
	byHref, err := b.Query(ctx, storage.Filter{Href: "https://example.com/patterns"})
	if err != nil {
		t.Fatalf("Failed to query by href: %v", err)
	}
	if len(byHref) != 1 || byHref[0].ID != "sq1" {
		t.Fatalf("Expected only sq1 for href filter, got %v", byHref)
	}
	if byHref[0].PageText != "pipelines and cancellation" {
		t.Errorf("Expected page text round-trip, got %q", byHref[0].PageText)
	}

	// Since filter
	past := now.Add(-90 * time.Minute)
	since, err := b.Query(ctx, storage.Filter{Since: &past})
	if err != nil {
		t.Fatalf("Failed to query by since: %v", err)
	}
	if len(since) != 1 || since[0].ID != "sq2" {
		t.Fatalf("Expected only sq2 for since filter, got %v", since)
	}

	// No filters, newest first
	all, err := b.Query(ctx, storage.Filter{})
	if err != nil {
		t.Fatalf("Failed to query all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(all))
	}
	if all[0].ID != "sq2" {
		t.Errorf("Expected sq2 first (newest), got %s", all[0].ID)
	}

	// Limit and offset
	limited, err := b.Query(ctx, storage.Filter{Limit: 1})
	if err != nil {
		t.Fatalf("Failed to query with limit: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("Expected 1 record with limit, got %d", len(limited))
	}

	offset, err := b.Query(ctx, storage.Filter{Offset: 1})
	if err != nil {
		t.Fatalf("Failed to query with offset: %v", err)
	}
	if len(offset) != 1 || offset[0].ID != "sq1" {
		t.Fatalf("Expected sq1 for offset 1, got %v", offset)
	}
}
