// Package store persists crawl runs and scraped documents in SQLite.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/dealscout/internal/model"
)

// ErrRunNotFound is returned when a run id has no record.
var ErrRunNotFound = eris.New("store: run not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the crawler.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, req model.CrawlRequest) (*model.CrawlRun, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	UpdateRunResult(ctx context.Context, runID string, result *model.CrawlResult) error
	FailRun(ctx context.Context, runID string, message string) error
	GetRun(ctx context.Context, runID string) (*model.CrawlRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.CrawlRun, error)

	// Scrape cache
	GetCachedDocument(ctx context.Context, url string) (*model.Document, error)
	SetCachedDocument(ctx context.Context, url string, doc *model.Document) error
	DeleteExpiredDocuments(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
