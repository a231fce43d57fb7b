package model

// PricingTier is one purchasable tier on a deal page. Tier is the
// numeric ordinal parsed from the tier name, or a sequential number
// when the page names tiers without one.
type PricingTier struct {
	Tier    int    `json:"tier"`
	Name    string `json:"name"`
	Price   string `json:"price"`
	Regular string `json:"regular,omitempty"`
}

// Pricing aggregates the tiers found on a deal page. Lifetime and
// Regular mirror the cheapest tier when tiers were found, otherwise
// they come from standalone price mentions in the page text.
type Pricing struct {
	Tiers    []PricingTier `json:"tiers"`
	Lifetime string        `json:"lifetime,omitempty"`
	Regular  string        `json:"regular,omitempty"`
}

// FounderInfo is the outcome of the founder identification cascade.
// Any field may be empty; LinkedIn/AppSumoProfile can be populated even
// when no name was accepted.
type FounderInfo struct {
	Name           string `json:"name,omitempty"`
	LinkedIn       string `json:"linkedIn,omitempty"`
	AppSumoProfile string `json:"appSumoProfile,omitempty"`
}

// Product is the structured record extracted from one product page.
type Product struct {
	Name            string   `json:"name"`
	URL             string   `json:"url"`
	Summary         string   `json:"summary,omitempty"`
	Description     string   `json:"description,omitempty"`
	Pricing         Pricing  `json:"pricing"`
	Rating          *float64 `json:"rating"`
	Reviews         *int     `json:"reviews"`
	Homepage        string   `json:"homepage,omitempty"`
	Founder         string   `json:"founder,omitempty"`
	FounderLinkedIn string   `json:"founderLinkedIn,omitempty"`
	FounderProfile  string   `json:"founderAppSumoProfile,omitempty"`
	FoundingDate    string   `json:"foundingDate,omitempty"`
	Categories      []string `json:"categories"`
}

// CrawlResult is the final aggregate of a crawl: every extracted
// product plus the URLs abandoned to rate limiting.
type CrawlResult struct {
	Products    []Product          `json:"products"`
	RateLimited []RateLimitedEntry `json:"rateLimited"`
}
