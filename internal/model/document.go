package model

import "time"

// Document is one scraped page in the representations the extraction
// engine consumes. Markdown or HTML may be empty depending on the
// formats requested from the fetcher.
type Document struct {
	Markdown string           `json:"markdown"`
	HTML     string           `json:"html,omitempty"`
	Metadata DocumentMetadata `json:"metadata"`
}

// DocumentMetadata carries page-level fields reported by the fetcher.
type DocumentMetadata struct {
	SourceURL   string `json:"sourceURL"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// FetchOptions selects what the fetcher should return for a page.
type FetchOptions struct {
	Formats         []string
	OnlyMainContent bool
	WaitFor         time.Duration
}

// CrawlTarget is a single URL queued for fetching, with its position in
// the original discovery order.
type CrawlTarget struct {
	URL   string `json:"url"`
	Index int    `json:"index"`
}

// RateLimitedEntry records a URL abandoned after exhausting retries, so
// a later pass can pick it up.
type RateLimitedEntry struct {
	URL   string `json:"url"`
	Name  string `json:"name"`
	Index int    `json:"index"`
}
