package model

import "time"

// RunStatus is the lifecycle state of a stored crawl run.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusError    RunStatus = "error"
)

// CrawlMode selects how aggressively product pages are scraped.
// Fast mode requests main content only; complete mode fetches the
// whole page so markup-window heuristics see more context.
type CrawlMode string

const (
	CrawlModeFast     CrawlMode = "fast"
	CrawlModeComplete CrawlMode = "complete"
)

// CrawlRequest is the caller-facing request shape for a marketplace crawl.
type CrawlRequest struct {
	Categories  []string  `json:"categories,omitempty"`
	MaxProducts int       `json:"maxProducts"`
	SortBy      string    `json:"sortBy,omitempty"`
	Mode        CrawlMode `json:"mode,omitempty"`
}

// CrawlRun is the persisted record of one crawl invocation.
type CrawlRun struct {
	ID        string       `json:"id"`
	Request   CrawlRequest `json:"request"`
	Status    RunStatus    `json:"status"`
	Error     string       `json:"error,omitempty"`
	Result    *CrawlResult `json:"result,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Post is a product surfaced by the Product Hunt discovery feed.
type Post struct {
	Name           string    `json:"name"`
	Tagline        string    `json:"tagline"`
	Votes          int       `json:"votes"`
	Website        string    `json:"website,omitempty"`
	ProductHuntURL string    `json:"productHuntUrl"`
	Description    string    `json:"description,omitempty"`
	Thumbnail      string    `json:"thumbnail,omitempty"`
	LaunchedAt     time.Time `json:"launchedAt"`
}
