package crawler

import "github.com/sells-group/dealscout/internal/model"

// Progress is emitted before each mini-batch starts scraping.
type Progress struct {
	SuperBatch        int `json:"superBatchNumber"`
	TotalSuperBatches int `json:"totalSuperBatches"`
	MiniBatch         int `json:"miniBatchNumber"`
	TotalMiniBatches  int `json:"totalMiniBatches"`
	// Scraped counts pages already captured within the current
	// super-batch.
	Scraped        int `json:"productsScraped"`
	SuperBatchSize int `json:"totalInSuperBatch"`
}

// BatchComplete is emitted after a super-batch has been scraped and
// its pages turned into products.
type BatchComplete struct {
	Batch            int                      `json:"batchNumber"`
	TotalBatches     int                      `json:"totalBatches"`
	Products         []model.Product          `json:"products"`
	RateLimited      []model.RateLimitedEntry `json:"rateLimited"`
	TotalProducts    int                      `json:"totalProducts"`
	TotalRateLimited int                      `json:"totalRateLimited"`
}

// Callbacks receives the progressive event stream for one crawl. All
// fields are optional. A crawl ends with exactly one OnComplete or
// OnError.
type Callbacks struct {
	OnProgress      func(Progress)
	OnBatchComplete func(BatchComplete)
	OnComplete      func(model.CrawlResult)
	OnError         func(error)
}

func (c Callbacks) progress(p Progress) {
	if c.OnProgress != nil {
		c.OnProgress(p)
	}
}

func (c Callbacks) batchComplete(b BatchComplete) {
	if c.OnBatchComplete != nil {
		c.OnBatchComplete(b)
	}
}

func (c Callbacks) complete(r model.CrawlResult) {
	if c.OnComplete != nil {
		c.OnComplete(r)
	}
}

func (c Callbacks) fail(err error) {
	if c.OnError != nil {
		c.OnError(err)
	}
}
