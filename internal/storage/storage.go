package storage

import (
	"context"
	"time"
)

// Record is one persisted search result together with the query that
// produced it.
type Record struct {
	ID        string
	Query     string
	Title     string
	Href      string
	PageText  string
	Position  int // completion order within the session, 0-based
	CreatedAt time.Time
}

// Filter allows querying for specific Records.
type Filter struct {
	Query  string
	Href   string
	Since  *time.Time
	Limit  int
	Offset int
}

// Backend defines the interface for storing and querying search results.
type Backend interface {
	Save(ctx context.Context, rec *Record) error
	Query(ctx context.Context, filter Filter) ([]*Record, error)
	Close() error
}
