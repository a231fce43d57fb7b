package crawler

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/dealscout/internal/extract"
	"github.com/sells-group/dealscout/internal/model"
	"github.com/sells-group/dealscout/internal/resilience"
)

// Default pacing. Mini-batches of two keep the upstream happy; the
// long cooldown between super-batches resets its rate window.
const (
	DefaultConcurrency     = 2
	DefaultMiniBatchDelay  = 5 * time.Second
	DefaultSuperBatchSize  = 20
	DefaultSuperBatchDelay = 45 * time.Second
)

// Options controls one scheduler run.
type Options struct {
	// Concurrency is the mini-batch size: pages scraped in parallel.
	Concurrency int
	// MiniBatchDelay is slept between mini-batches within a super-batch.
	MiniBatchDelay time.Duration
	// SuperBatchSize is the number of pages per super-batch; each
	// super-batch yields one BatchComplete event.
	SuperBatchSize int
	// SuperBatchDelay is the cooldown slept between super-batches.
	SuperBatchDelay time.Duration

	// FetchOptions is passed to the fetcher for every product page.
	FetchOptions model.FetchOptions
	// TargetCategories is forwarded to extraction for logging context.
	TargetCategories []string

	Callbacks Callbacks
}

func (o Options) withDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.MiniBatchDelay <= 0 {
		o.MiniBatchDelay = DefaultMiniBatchDelay
	}
	if o.SuperBatchSize <= 0 {
		o.SuperBatchSize = DefaultSuperBatchSize
	}
	if o.SuperBatchDelay <= 0 {
		o.SuperBatchDelay = DefaultSuperBatchDelay
	}
	return o
}

// Scheduler scrapes product pages in paced batches and turns each
// super-batch into products as soon as it lands.
type Scheduler struct {
	fetcher Fetcher
	engine  *extract.Engine
	sleeper Sleeper
	retry   resilience.RetryConfig
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithSleeper replaces the real clock, for tests.
func WithSleeper(s Sleeper) SchedulerOption {
	return func(sc *Scheduler) {
		sc.sleeper = s
	}
}

// WithRetryConfig overrides the per-page retry policy.
func WithRetryConfig(cfg resilience.RetryConfig) SchedulerOption {
	return func(sc *Scheduler) {
		sc.retry = cfg
	}
}

// NewScheduler creates a scheduler.
func NewScheduler(fetcher Fetcher, engine *extract.Engine, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		fetcher: fetcher,
		engine:  engine,
		sleeper: clockSleeper{},
		retry:   resilience.DefaultRetryConfig(),
	}
	s.retry.OnRetry = resilience.RetryLogger("firecrawl", "scrape")
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run scrapes urls in super-batches of Options.SuperBatchSize, each
// fanned out Concurrency pages at a time. Rate-limit-class failures
// are recorded and skipped; other page failures are logged and
// dropped. Only context cancellation or a sleeper failure aborts the
// run. Progress is emitted before each mini-batch and BatchComplete
// after each super-batch; the terminal Complete/Error events belong to
// the caller.
func (s *Scheduler) Run(ctx context.Context, urls []string, opts Options) (*model.CrawlResult, error) {
	opts = opts.withDefaults()
	cb := opts.Callbacks

	superBatches := chunk(urls, opts.SuperBatchSize)
	zap.L().Info("scraping product pages",
		zap.Int("urls", len(urls)),
		zap.Int("super_batches", len(superBatches)),
		zap.Int("concurrency", opts.Concurrency),
	)

	allProducts := []model.Product{}
	allRateLimited := []model.RateLimitedEntry{}

	for sbIdx, superBatch := range superBatches {
		docs := make([]model.Document, 0, len(superBatch))
		rateLimited := []model.RateLimitedEntry{}
		totalMini := (len(superBatch) + opts.Concurrency - 1) / opts.Concurrency

		for i := 0; i < len(superBatch); i += opts.Concurrency {
			batch := superBatch[i:min(i+opts.Concurrency, len(superBatch))]
			batchNum := i/opts.Concurrency + 1

			cb.progress(Progress{
				SuperBatch:        sbIdx + 1,
				TotalSuperBatches: len(superBatches),
				MiniBatch:         batchNum,
				TotalMiniBatches:  totalMini,
				Scraped:           len(docs),
				SuperBatchSize:    len(superBatch),
			})

			// Index-addressed slots: goroutines never touch shared
			// accumulators.
			pages := make([]*model.Document, len(batch))
			dropped := make([]*model.RateLimitedEntry, len(batch))

			g, gctx := errgroup.WithContext(ctx)
			for idx, url := range batch {
				idx, url := idx, url
				globalIdx := i + idx
				g.Go(func() error {
					doc, err := resilience.DoVal(gctx, s.retry, func(ctx context.Context) (*model.Document, error) {
						return s.fetcher.Fetch(ctx, url, opts.FetchOptions)
					})
					if err != nil {
						if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
							return err
						}
						if resilience.IsRecordable(err) {
							zap.L().Warn("page unavailable, recording for retry",
								zap.String("url", url),
								zap.String("kind", resilience.ClassifyFetch(err).String()),
							)
							dropped[idx] = &model.RateLimitedEntry{
								URL:   url,
								Name:  slugFromURL(url),
								Index: globalIdx + 1,
							}
							return nil
						}
						zap.L().Error("scrape failed, skipping page",
							zap.String("url", url),
							zap.Error(err),
						)
						return nil
					}
					pages[idx] = doc
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return nil, err
			}

			for idx := range batch {
				if pages[idx] != nil {
					docs = append(docs, *pages[idx])
				}
				if dropped[idx] != nil {
					rateLimited = append(rateLimited, *dropped[idx])
				}
			}

			if i+opts.Concurrency < len(superBatch) {
				if err := s.sleeper.Sleep(ctx, opts.MiniBatchDelay); err != nil {
					return nil, err
				}
			}
		}

		products := s.engine.Extract(ctx, docs, opts.TargetCategories)
		allProducts = append(allProducts, products...)
		allRateLimited = append(allRateLimited, rateLimited...)

		zap.L().Info("super-batch complete",
			zap.Int("batch", sbIdx+1),
			zap.Int("products", len(products)),
			zap.Int("rate_limited", len(rateLimited)),
		)

		cb.batchComplete(BatchComplete{
			Batch:            sbIdx + 1,
			TotalBatches:     len(superBatches),
			Products:         products,
			RateLimited:      rateLimited,
			TotalProducts:    len(allProducts),
			TotalRateLimited: len(allRateLimited),
		})

		if sbIdx < len(superBatches)-1 {
			if err := s.sleeper.Sleep(ctx, opts.SuperBatchDelay); err != nil {
				return nil, err
			}
		}
	}

	return &model.CrawlResult{
		Products:    allProducts,
		RateLimited: allRateLimited,
	}, nil
}

func chunk(urls []string, size int) [][]string {
	var batches [][]string
	for i := 0; i < len(urls); i += size {
		batches = append(batches, urls[i:min(i+size, len(urls))])
	}
	return batches
}

func slugFromURL(url string) string {
	url = strings.TrimSuffix(url, "/")
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}
