// Package extract turns scraped marketplace pages into structured
// product records. Every field has its own ordered cascade of
// heuristics; extraction is deterministic for a given document set.
package extract

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/dealscout/internal/model"
)

// PageFetcher fetches a secondary page during extraction. Only the
// founder cascade uses it (to resolve a name from a LinkedIn profile);
// the engine works without one.
type PageFetcher interface {
	Fetch(ctx context.Context, url string, opts model.FetchOptions) (*model.Document, error)
}

// Engine extracts product records from scraped documents.
type Engine struct {
	fetcher PageFetcher
	vocab   []string
	now     func() time.Time
}

// Option configures the Engine.
type Option func(*Engine)

// WithFetcher enables the secondary-fetch founder strategy.
func WithFetcher(f PageFetcher) Option {
	return func(e *Engine) {
		e.fetcher = f
	}
}

// WithVocabulary replaces the default category vocabulary.
func WithVocabulary(vocab []string) Option {
	return func(e *Engine) {
		if len(vocab) > 0 {
			e.vocab = vocab
		}
	}
}

// WithNow overrides the clock used to bound founding years.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an extraction engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		vocab: defaultVocabulary,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var productNameRe = regexp.MustCompile(`/products/([^/?#]+)`)

// ProductName derives the display name from a product URL slug,
// e.g. https://appsumo.com/products/nexuscale -> NEXUSCALE.
func ProductName(url string) string {
	m := productNameRe.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}

// Extract converts documents into product records. Documents whose
// source URL is not a product page are skipped. targetCategories is
// logging context only; the marketplace listing already filtered.
func (e *Engine) Extract(ctx context.Context, docs []model.Document, targetCategories []string) []model.Product {
	products := make([]model.Product, 0, len(docs))

	zap.L().Debug("extracting products",
		zap.Int("documents", len(docs)),
		zap.Strings("target_categories", targetCategories),
	)

	for i := range docs {
		doc := &docs[i]
		sourceURL := doc.Metadata.SourceURL

		if !strings.Contains(sourceURL, "/products/") {
			zap.L().Debug("skipping non-product page", zap.String("url", sourceURL))
			continue
		}

		name := ProductName(sourceURL)
		if name == "" {
			name = doc.Metadata.Title
		}
		if name == "" {
			name = "Unknown Product"
		}

		founder := e.extractFounder(ctx, doc)

		p := model.Product{
			Name:            name,
			URL:             sourceURL,
			Summary:         extractSummary(doc),
			Description:     doc.Metadata.Description,
			Pricing:         extractPricing(doc),
			Rating:          extractRating(doc),
			Reviews:         extractReviews(doc),
			Homepage:        extractHomepage(doc),
			Founder:         founder.Name,
			FounderLinkedIn: founder.LinkedIn,
			FounderProfile:  founder.AppSumoProfile,
			FoundingDate:    e.extractFoundingDate(doc),
			Categories:      e.extractCategories(doc),
		}

		zap.L().Debug("extracted product", zap.String("name", p.Name), zap.String("url", p.URL))
		products = append(products, p)
	}

	return products
}

// docContent returns the representation the text heuristics run over:
// markdown when present, the raw HTML otherwise.
func docContent(doc *model.Document) string {
	if doc.Markdown != "" {
		return doc.Markdown
	}
	return doc.HTML
}
