// Package crawler orchestrates marketplace crawls: listing discovery,
// paced batch scraping, and progressive delivery of extracted
// products.
package crawler

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/dealscout/internal/extract"
	"github.com/sells-group/dealscout/internal/model"
)

const (
	// DefaultMaxProducts applies when the request leaves the cap unset.
	DefaultMaxProducts = 50
	// MaxProductsLimit bounds a single crawl.
	MaxProductsLimit = 100
)

// Crawler runs full marketplace crawls.
type Crawler struct {
	fetcher   Fetcher
	scheduler *Scheduler
	pacing    Options
}

// CrawlerOption configures a Crawler.
type CrawlerOption func(*Crawler)

// WithPacing overrides the batch sizes and delays used for product
// page scraping.
func WithPacing(opts Options) CrawlerOption {
	return func(c *Crawler) {
		c.pacing = opts
	}
}

// New creates a crawler. Scheduler options (fake sleepers, retry
// policies) are forwarded.
func New(fetcher Fetcher, engine *extract.Engine, opts ...CrawlerOption) *Crawler {
	c := &Crawler{
		fetcher:   fetcher,
		scheduler: NewScheduler(fetcher, engine),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithScheduler replaces the internal scheduler, for tests.
func WithScheduler(s *Scheduler) CrawlerOption {
	return func(c *Crawler) {
		c.scheduler = s
	}
}

// listingFetchOptions: listing pages render fine from main content and
// only the markdown is scanned for product links.
func listingFetchOptions() model.FetchOptions {
	return model.FetchOptions{
		Formats:         []string{"markdown"},
		OnlyMainContent: true,
		WaitFor:         time.Second,
	}
}

// productFetchOptions: product pages need the raw HTML for the markup
// heuristics. Fast mode trims to main content; complete mode keeps the
// whole page so pricing tables outside the main column survive.
func productFetchOptions(mode model.CrawlMode) model.FetchOptions {
	return model.FetchOptions{
		Formats:         []string{"markdown", "html"},
		OnlyMainContent: mode == model.CrawlModeFast,
		WaitFor:         time.Second,
	}
}

// CrawlMarketplace runs one crawl end to end: resolve the listing
// page, discover product URLs, scrape them in paced batches, and
// extract products per super-batch. Exactly one OnComplete or OnError
// fires.
func (c *Crawler) CrawlMarketplace(ctx context.Context, req model.CrawlRequest, cb Callbacks) (*model.CrawlResult, error) {
	if req.MaxProducts <= 0 {
		req.MaxProducts = DefaultMaxProducts
	}
	if req.MaxProducts > MaxProductsLimit {
		req.MaxProducts = MaxProductsLimit
	}
	if req.Mode == "" {
		req.Mode = model.CrawlModeFast
	}

	listingURL := ResolveListingURL(req.Categories, req.SortBy)
	zap.L().Info("starting marketplace crawl",
		zap.String("listing_url", listingURL),
		zap.Strings("categories", req.Categories),
		zap.Int("max_products", req.MaxProducts),
		zap.String("mode", string(req.Mode)),
	)

	listing, err := c.fetcher.Fetch(ctx, listingURL, listingFetchOptions())
	if err != nil {
		err = eris.Wrap(err, "crawler: fetch listing page")
		cb.fail(err)
		return nil, err
	}

	urls := ExtractProductURLs(listing.Markdown, req.MaxProducts)
	zap.L().Info("discovered product pages", zap.Int("count", len(urls)))

	if len(urls) == 0 {
		result := &model.CrawlResult{
			Products:    []model.Product{},
			RateLimited: []model.RateLimitedEntry{},
		}
		cb.complete(*result)
		return result, nil
	}

	result, err := c.runBatches(ctx, urls, req.Categories, req.Mode, cb)
	if err != nil {
		err = eris.Wrap(err, "crawler: scrape product pages")
		cb.fail(err)
		return nil, err
	}

	cb.complete(*result)
	return result, nil
}

// RetryRateLimited re-scrapes pages that were dropped as rate limited
// in an earlier run. Same pacing and events as a regular crawl.
func (c *Crawler) RetryRateLimited(ctx context.Context, entries []model.RateLimitedEntry, mode model.CrawlMode, cb Callbacks) (*model.CrawlResult, error) {
	if len(entries) == 0 {
		result := &model.CrawlResult{
			Products:    []model.Product{},
			RateLimited: []model.RateLimitedEntry{},
		}
		cb.complete(*result)
		return result, nil
	}
	if mode == "" {
		mode = model.CrawlModeFast
	}

	urls := make([]string, 0, len(entries))
	for _, e := range entries {
		urls = append(urls, e.URL)
	}
	zap.L().Info("retrying rate-limited pages", zap.Int("count", len(urls)))

	result, err := c.runBatches(ctx, urls, nil, mode, cb)
	if err != nil {
		err = eris.Wrap(err, "crawler: retry rate-limited pages")
		cb.fail(err)
		return nil, err
	}

	cb.complete(*result)
	return result, nil
}

func (c *Crawler) runBatches(ctx context.Context, urls, categories []string, mode model.CrawlMode, cb Callbacks) (*model.CrawlResult, error) {
	opts := c.pacing
	opts.FetchOptions = productFetchOptions(mode)
	opts.TargetCategories = categories
	opts.Callbacks = cb
	return c.scheduler.Run(ctx, urls, opts)
}
