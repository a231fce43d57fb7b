package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/dealscout/internal/crawler"
	"github.com/sells-group/dealscout/internal/extract"
	"github.com/sells-group/dealscout/internal/store"
	"github.com/sells-group/dealscout/pkg/firecrawl"
)

// crawlEnv bundles the wired crawl dependencies for a command.
type crawlEnv struct {
	store   *store.SQLiteStore
	crawler *crawler.Crawler
}

func initCrawlEnv(ctx context.Context) (*crawlEnv, error) {
	st, err := store.NewSQLite(cfg.Store.Path, store.WithCacheTTL(cfg.Crawl.CacheTTL()))
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}

	fc := firecrawl.NewClient(cfg.Firecrawl.Key,
		firecrawl.WithBaseURL(cfg.Firecrawl.BaseURL),
		firecrawl.WithRequestsPerMinute(cfg.Firecrawl.RequestsPerMinute),
	)
	fetcher := crawler.NewFirecrawlFetcher(fc, crawler.WithCache(st))

	engineOpts := []extract.Option{extract.WithFetcher(fetcher)}
	if cfg.Crawl.VocabPath != "" {
		vocab, err := extract.LoadVocabulary(cfg.Crawl.VocabPath)
		if err != nil {
			st.Close()
			return nil, eris.Wrap(err, "load category vocabulary")
		}
		engineOpts = append(engineOpts, extract.WithVocabulary(vocab))
	}
	engine := extract.NewEngine(engineOpts...)

	c := crawler.New(fetcher, engine, crawler.WithPacing(crawler.Options{
		Concurrency:     cfg.Crawl.Concurrency,
		MiniBatchDelay:  cfg.Crawl.MiniBatchDelay(),
		SuperBatchSize:  cfg.Crawl.SuperBatchSize,
		SuperBatchDelay: cfg.Crawl.SuperBatchDelay(),
	}))

	return &crawlEnv{store: st, crawler: c}, nil
}

func (e *crawlEnv) Close() {
	if err := e.store.Close(); err != nil {
		zap.L().Warn("close store", zap.Error(err))
	}
}

// logCallbacks reports crawl progress to the logger; terminal events
// are handled by the caller.
func logCallbacks() crawler.Callbacks {
	return crawler.Callbacks{
		OnProgress: func(p crawler.Progress) {
			zap.L().Info("scraping mini-batch",
				zap.Int("super_batch", p.SuperBatch),
				zap.Int("total_super_batches", p.TotalSuperBatches),
				zap.Int("mini_batch", p.MiniBatch),
				zap.Int("total_mini_batches", p.TotalMiniBatches),
				zap.Int("scraped", p.Scraped),
			)
		},
		OnBatchComplete: func(b crawler.BatchComplete) {
			zap.L().Info("batch complete",
				zap.Int("batch", b.Batch),
				zap.Int("total_batches", b.TotalBatches),
				zap.Int("products", len(b.Products)),
				zap.Int("rate_limited", len(b.RateLimited)),
				zap.Int("total_products", b.TotalProducts),
			)
		},
	}
}
