package crawler

import (
	"strings"

	"go.uber.org/zap"
)

const softwareListingURL = "https://appsumo.com/software/"

// categoryRoute maps a user-facing keyword to a marketplace category
// slug. Kept as an ordered slice so partial matching is deterministic.
type categoryRoute struct {
	keyword string
	slug    string
}

var categoryRoutes = []categoryRoute{
	// Marketing & sales
	{"marketing", "marketing-sales"},
	{"marketers", "marketing-sales"},
	{"sales", "marketing-sales"},
	{"marketing & sales", "marketing-sales"},
	{"marketing-sales", "marketing-sales"},

	// Operations
	{"operations", "operations"},
	{"productivity", "operations"},
	{"project", "operations"},

	// Media tools
	{"media", "media-tools"},
	{"media tools", "media-tools"},
	{"media-tools", "media-tools"},
	{"video", "media-tools"},
	{"audio", "media-tools"},
	{"design", "media-tools"},

	// Development & IT
	{"development", "development-it"},
	{"dev", "development-it"},
	{"it", "development-it"},
	{"development & it", "development-it"},
	{"development-it", "development-it"},
	{"developer", "development-it"},

	// Customer experience
	{"customer", "customer-experience"},
	{"customer experience", "customer-experience"},
	{"customer-experience", "customer-experience"},
	{"support", "customer-experience"},
	{"crm", "customer-experience"},

	// Finance
	{"finance", "finance"},
	{"accounting", "finance"},
	{"invoicing", "finance"},

	// Build it yourself
	{"build", "build-it-yourself"},
	{"build it yourself", "build-it-yourself"},
	{"build-it-yourself", "build-it-yourself"},
	{"builder", "build-it-yourself"},
	{"website", "build-it-yourself"},
	{"app", "build-it-yourself"},
}

// ResolveListingURL picks the listing page for the first requested
// category. Exact keyword matches win; otherwise substring matching in
// either direction; unrecognized categories fall back to the unfiltered
// software listing. sortBy, when set, is appended as a query parameter.
func ResolveListingURL(categories []string, sortBy string) string {
	base := softwareListingURL

	if len(categories) > 0 {
		first := strings.ToLower(strings.TrimSpace(categories[0]))

		if slug, ok := exactRoute(first); ok {
			base = softwareListingURL + slug + "/"
		} else if slug, ok := partialRoute(first); ok {
			base = softwareListingURL + slug + "/"
		} else {
			zap.L().Warn("category not recognized, using all software",
				zap.String("category", first),
			)
		}
	}

	if sortBy != "" {
		return base + "?sort=" + sortBy
	}
	return base
}

func exactRoute(category string) (string, bool) {
	for _, r := range categoryRoutes {
		if r.keyword == category {
			return r.slug, true
		}
	}
	return "", false
}

func partialRoute(category string) (string, bool) {
	for _, r := range categoryRoutes {
		if strings.Contains(category, r.keyword) || strings.Contains(r.keyword, category) {
			return r.slug, true
		}
	}
	return "", false
}
