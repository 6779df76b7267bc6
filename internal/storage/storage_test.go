package storage

import (
	"context"
	"testing"
	"time"
)

// ensure Record compiles and has the fields expected
func TestRecord_Types(t *testing.T) {
	_ = Record{
		ID:        "test1234",
		Query:     "golang concurrency",
		Title:     "Go Concurrency Patterns",
		Href:      "https://example.com/patterns",
		PageText:  "pipelines and cancellation",
		Position:  0,
		CreatedAt: time.Now(),
	}

	now := time.Now()
	_ = Filter{
		Query:  "golang concurrency",
		Href:   "https://example.com/patterns",
		Since:  &now,
		Limit:  10,
		Offset: 0,
	}
}

// Ensure Backend interface exists and is implementable
type mockBackend struct{}

func (m *mockBackend) Save(ctx context.Context, rec *Record) error { return nil }
func (m *mockBackend) Query(ctx context.Context, filter Filter) ([]*Record, error) {
	return nil, nil
}
func (m *mockBackend) Close() error { return nil }

func TestBackendInterface(t *testing.T) {
	var b Backend = &mockBackend{}
	_ = b
}
