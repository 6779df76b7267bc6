//go:build integration

package test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"gsearch/internal/fingerprint"
	"gsearch/internal/report"
	"gsearch/internal/search"
	"gsearch/internal/storage"
)

// mockBackend is an in-memory storage.Backend for verifying results
type mockBackend struct {
	mu      sync.Mutex
	records []*storage.Record
}

func (m *mockBackend) Save(ctx context.Context, rec *storage.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}
func (m *mockBackend) Query(ctx context.Context, filter storage.Filter) ([]*storage.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records, nil
}
func (m *mockBackend) Close() error { return nil }

func TestIntegration_SearchAndStore(t *testing.T) {
	// 1. Setup mock result page servers
	pages := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, "<html><body><h1>Doc</h1><p>text of %s</p></body></html>", r.URL.Path)
	}))
	defer pages.Close()

	// 2. Setup a mock results page: two good blocks, one without an anchor
	serpSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><body>
			<div class="g"><a href="%s/a"><h3>Alpha</h3></a></div>
			<div class="g"><a href="%s/b"><h3>Beta</h3></a></div>
			<div class="g"><h3>Broken</h3></div>
		</body></html>`, pages.URL, pages.URL)
	}))
	defer serpSrv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client, err := search.New(search.Config{
		BaseURL:     serpSrv.URL + "/search",
		Fingerprint: fingerprint.ProfileGo,
		Logger:      logger,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	// 3. Stream the search and persist each result as it arrives
	backend := &mockBackend{}

	req := search.NewRequest("integration test")
	req.Timeout = 5 * time.Second

	ch, err := client.SearchStream(context.Background(), req)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	now := time.Now().UTC()
	pos := 0
	for res := range ch {
		rec := &storage.Record{
			ID:        uuid.New().String(),
			Query:     req.Term,
			Title:     res.Title,
			Href:      res.Href,
			PageText:  res.PageText,
			Position:  pos,
			CreatedAt: now,
		}
		if err := backend.Save(context.Background(), rec); err != nil {
			t.Fatalf("failed to save record: %v", err)
		}
		pos++
	}

	// 4. Verify: the anchorless block was dropped, page text was fetched
	stored, _ := backend.Query(context.Background(), storage.Filter{})
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored records, got %d", len(stored))
	}
	for _, rec := range stored {
		if rec.Title == "" || rec.Href == "" {
			t.Errorf("stored record with empty title or href: %+v", rec)
		}
		if rec.PageText == "" {
			t.Errorf("expected enriched page text for %s", rec.Href)
		}
	}

	// 5. Summarize the session
	summary := report.GenerateSummary(stored)
	if summary.TotalResults != 2 || summary.WithPageText != 2 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}
