package crawler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/dealscout/internal/model"
	"github.com/sells-group/dealscout/pkg/firecrawl"
)

// Fetcher retrieves one page as a normalized document.
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts model.FetchOptions) (*model.Document, error)
}

// DocumentCache is the slice of the run store the fetcher uses. A nil
// document with a nil error means "not cached".
type DocumentCache interface {
	GetCachedDocument(ctx context.Context, url string) (*model.Document, error)
	SetCachedDocument(ctx context.Context, url string, doc *model.Document) error
}

// FirecrawlFetcher fetches pages through the Firecrawl scrape API with
// an optional read-through document cache.
type FirecrawlFetcher struct {
	client firecrawl.Client
	cache  DocumentCache
}

// FetcherOption configures a FirecrawlFetcher.
type FetcherOption func(*FirecrawlFetcher)

// WithCache enables read-through caching of scraped documents.
func WithCache(cache DocumentCache) FetcherOption {
	return func(f *FirecrawlFetcher) {
		f.cache = cache
	}
}

// NewFirecrawlFetcher creates a fetcher backed by the given client.
func NewFirecrawlFetcher(client firecrawl.Client, opts ...FetcherOption) *FirecrawlFetcher {
	f := &FirecrawlFetcher{client: client}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch scrapes a page. Scrape errors are returned unwrapped so the
// scheduler can classify them by upstream status.
func (f *FirecrawlFetcher) Fetch(ctx context.Context, url string, opts model.FetchOptions) (*model.Document, error) {
	if f.cache != nil {
		doc, err := f.cache.GetCachedDocument(ctx, url)
		if err != nil {
			zap.L().Debug("cache lookup failed", zap.String("url", url), zap.Error(err))
		} else if doc != nil {
			zap.L().Debug("cache hit", zap.String("url", url))
			return doc, nil
		}
	}

	resp, err := f.client.Scrape(ctx, firecrawl.ScrapeRequest{
		URL:             url,
		Formats:         opts.Formats,
		OnlyMainContent: opts.OnlyMainContent,
		WaitFor:         int(opts.WaitFor / time.Millisecond),
	})
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		Markdown: resp.Data.Markdown,
		HTML:     resp.Data.HTML,
		Metadata: model.DocumentMetadata{
			SourceURL:   url,
			Title:       resp.Data.Metadata.Title,
			Description: resp.Data.Metadata.Description,
		},
	}

	if f.cache != nil {
		if err := f.cache.SetCachedDocument(ctx, url, doc); err != nil {
			zap.L().Debug("cache write failed", zap.String("url", url), zap.Error(err))
		}
	}
	return doc, nil
}
