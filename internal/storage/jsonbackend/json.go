package jsonbackend

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"gsearch/internal/storage"
)

// ensure jsonBackend implements storage.Backend
var _ storage.Backend = (*jsonBackend)(nil)

type jsonBackend struct {
	mu   sync.Mutex
	file *os.File
}

// record mirrors storage.Record with JSON tags for the NDJSON file.
type record struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Title     string    `json:"title"`
	Href      string    `json:"href"`
	PageText  string    `json:"page_text,omitempty"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// New creates a new NDJSON-backed storage.Backend. Each record is one line,
// appended on Save.
func New(filePath string) (storage.Backend, error) {
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return &jsonBackend{file: f}, nil
}

func (b *jsonBackend) Save(ctx context.Context, rec *storage.Record) error {
	data, err := json.Marshal(record(*rec))
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}

	return nil
}

func (b *jsonBackend) Query(ctx context.Context, filter storage.Filter) ([]*storage.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Seek to the beginning of the file to read all entries
	if _, err := b.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek: %w", err)
	}

	var records []*storage.Record

	scanner := bufio.NewScanner(b.file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024) // page text lines can be long
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var r record
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}

		if filter.Query != "" && r.Query != filter.Query {
			continue
		}
		if filter.Href != "" && r.Href != filter.Href {
			continue
		}
		if filter.Since != nil && r.CreatedAt.Before(*filter.Since) {
			continue
		}

		rec := storage.Record(r)
		records = append(records, &rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed reading file: %w", err)
	}

	// Newest first, matching the SQL backends
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(records) {
			return nil, nil
		}
		records = records[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(records) {
		records = records[:filter.Limit]
	}

	// Reposition to the end so subsequent Saves append
	if _, err := b.file.Seek(0, io.SeekEnd); err != nil {
		return nil, fmt.Errorf("failed to seek: %w", err)
	}

	return records, nil
}

func (b *jsonBackend) Close() error {
	return b.file.Close()
}
