package crawler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/dealscout/internal/extract"
	"github.com/sells-group/dealscout/internal/model"
)

const listingURL = "https://appsumo.com/software/"

func listingDoc(markdown string) *model.Document {
	return &model.Document{
		Markdown: markdown,
		Metadata: model.DocumentMetadata{SourceURL: listingURL},
	}
}

func newTestCrawler(fetcher *fakeFetcher) *Crawler {
	engine := extract.NewEngine()
	return New(fetcher, engine, WithScheduler(
		NewScheduler(fetcher, engine, WithSleeper(&fakeSleeper{}), WithRetryConfig(fastRetry())),
	))
}

func TestCrawlMarketplace(t *testing.T) {
	fetcher := &fakeFetcher{docs: map[string]*model.Document{
		listingURL: listingDoc(`
[Alpha](https://appsumo.com/products/alpha/)
[Beta](https://appsumo.com/products/beta/)
`),
	}}
	c := newTestCrawler(fetcher)

	var completes []model.CrawlResult
	var failures []error
	cb := Callbacks{
		OnComplete: func(r model.CrawlResult) { completes = append(completes, r) },
		OnError:    func(err error) { failures = append(failures, err) },
	}

	result, err := c.CrawlMarketplace(context.Background(), model.CrawlRequest{MaxProducts: 50}, cb)
	require.NoError(t, err)
	require.Len(t, result.Products, 2)
	assert.Equal(t, "ALPHA", result.Products[0].Name)
	assert.Equal(t, "BETA", result.Products[1].Name)

	// Exactly one terminal event.
	require.Len(t, completes, 1)
	assert.Empty(t, failures)
	assert.Equal(t, *result, completes[0])

	// Listing fetch: markdown only, main content. Product fetches: both
	// formats, fast mode trims to main content.
	require.Len(t, fetcher.calls, 3)
	assert.Equal(t, listingURL, fetcher.calls[0].url)
	assert.Equal(t, []string{"markdown"}, fetcher.calls[0].opts.Formats)
	assert.True(t, fetcher.calls[0].opts.OnlyMainContent)
	for _, call := range fetcher.calls[1:] {
		assert.Equal(t, []string{"markdown", "html"}, call.opts.Formats)
		assert.True(t, call.opts.OnlyMainContent)
	}
}

func TestCrawlMarketplace_CompleteModeFetchesFullPages(t *testing.T) {
	fetcher := &fakeFetcher{docs: map[string]*model.Document{
		listingURL: listingDoc(`[Alpha](https://appsumo.com/products/alpha/)`),
	}}
	c := newTestCrawler(fetcher)

	_, err := c.CrawlMarketplace(context.Background(), model.CrawlRequest{
		Mode: model.CrawlModeComplete,
	}, Callbacks{})
	require.NoError(t, err)

	require.Len(t, fetcher.calls, 2)
	assert.False(t, fetcher.calls[1].opts.OnlyMainContent)
}

func TestCrawlMarketplace_MaxProductsTruncatesDiscovery(t *testing.T) {
	fetcher := &fakeFetcher{docs: map[string]*model.Document{
		listingURL: listingDoc(`
https://appsumo.com/products/one/
https://appsumo.com/products/two/
https://appsumo.com/products/three/
`),
	}}
	c := newTestCrawler(fetcher)

	result, err := c.CrawlMarketplace(context.Background(), model.CrawlRequest{MaxProducts: 2}, Callbacks{})
	require.NoError(t, err)
	assert.Len(t, result.Products, 2)
	assert.Len(t, fetcher.calls, 3) // listing + two products
}

func TestCrawlMarketplace_ListingFailure(t *testing.T) {
	fetcher := &fakeFetcher{fail: map[string][]error{
		listingURL: {statusErr{code: 500}},
	}}
	c := newTestCrawler(fetcher)

	var completes []model.CrawlResult
	var failures []error
	cb := Callbacks{
		OnComplete: func(r model.CrawlResult) { completes = append(completes, r) },
		OnError:    func(err error) { failures = append(failures, err) },
	}

	_, err := c.CrawlMarketplace(context.Background(), model.CrawlRequest{}, cb)
	require.Error(t, err)
	assert.Empty(t, completes)
	require.Len(t, failures, 1)
	assert.Equal(t, err, failures[0])
}

func TestCrawlMarketplace_EmptyListing(t *testing.T) {
	fetcher := &fakeFetcher{docs: map[string]*model.Document{
		listingURL: listingDoc("no product links here"),
	}}
	c := newTestCrawler(fetcher)

	var completes []model.CrawlResult
	result, err := c.CrawlMarketplace(context.Background(), model.CrawlRequest{}, Callbacks{
		OnComplete: func(r model.CrawlResult) { completes = append(completes, r) },
	})
	require.NoError(t, err)
	assert.NotNil(t, result.Products)
	assert.NotNil(t, result.RateLimited)
	assert.Empty(t, result.Products)
	require.Len(t, completes, 1)
	assert.Len(t, fetcher.calls, 1)
}

func TestCrawlMarketplace_CategoryListingURL(t *testing.T) {
	categoryURL := "https://appsumo.com/software/finance/"
	fetcher := &fakeFetcher{docs: map[string]*model.Document{
		categoryURL: listingDoc(`[Alpha](https://appsumo.com/products/alpha/)`),
	}}
	c := newTestCrawler(fetcher)

	_, err := c.CrawlMarketplace(context.Background(), model.CrawlRequest{
		Categories: []string{"finance"},
	}, Callbacks{})
	require.NoError(t, err)
	assert.Equal(t, categoryURL, fetcher.calls[0].url)
}

func TestRetryRateLimited(t *testing.T) {
	fetcher := &fakeFetcher{}
	c := newTestCrawler(fetcher)

	entries := []model.RateLimitedEntry{
		{URL: "https://appsumo.com/products/alpha", Name: "alpha", Index: 3},
		{URL: "https://appsumo.com/products/beta", Name: "beta", Index: 7},
	}

	var completes []model.CrawlResult
	result, err := c.RetryRateLimited(context.Background(), entries, "", Callbacks{
		OnComplete: func(r model.CrawlResult) { completes = append(completes, r) },
	})
	require.NoError(t, err)
	assert.Len(t, result.Products, 2)
	assert.Empty(t, result.RateLimited)
	require.Len(t, completes, 1)
}

func TestRetryRateLimited_NoEntries(t *testing.T) {
	fetcher := &fakeFetcher{}
	c := newTestCrawler(fetcher)

	var completes []model.CrawlResult
	result, err := c.RetryRateLimited(context.Background(), nil, "", Callbacks{
		OnComplete: func(r model.CrawlResult) { completes = append(completes, r) },
	})
	require.NoError(t, err)
	assert.Empty(t, result.Products)
	require.Len(t, completes, 1)
	assert.Empty(t, fetcher.calls)
}
