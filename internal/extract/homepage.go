package extract

import (
	"regexp"
	"strings"

	"github.com/sells-group/dealscout/internal/model"
)

// Marketplace, social, and review domains that are never a product's
// own homepage.
var excludedDomains = []string{
	"appsumo.com", "linkedin.com", "facebook.com", "twitter.com",
	"instagram.com", "youtube.com", "tiktok.com", "pinterest.com",
	"reddit.com", "capterra.com", "g2.com", "trustpilot.com",
	"getapp.com", "softwareadvice.com",
}

var (
	markdownLinkRe  = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)]+)\)`)
	linkDomainRe    = regexp.MustCompile(`^https?://(?:www\.)?([^/]+)`)
	rootDomainURLRe = regexp.MustCompile(`^https?://[^/]+/?$`)
	bareURLRe       = regexp.MustCompile(`https?://[a-zA-Z0-9][a-zA-Z0-9.-]*\.[a-zA-Z]{2,}(?:/[^\s)"\]]*)?`)
)

// extractHomepage hunts for the product's own site. Markdown links are
// preferred: slug-in-domain first, then bare root domains, then the
// first surviving link. Bare URLs in the text get the same treatment.
func extractHomepage(doc *model.Document) string {
	content := docContent(doc)
	slug := strings.ToLower(ProductName(doc.Metadata.SourceURL))

	var links []string
	for _, m := range markdownLinkRe.FindAllStringSubmatch(content, -1) {
		if !isExcluded(m[2]) {
			links = append(links, m[2])
		}
	}

	if slug != "" && len(links) > 0 {
		for _, url := range links {
			if domainContains(url, slug) {
				return strings.TrimSuffix(url, "/")
			}
		}
		for _, url := range links {
			if rootDomainURLRe.MatchString(url) {
				return strings.TrimSuffix(url, "/")
			}
		}
	}

	if len(links) > 0 {
		for _, url := range links {
			if rootDomainURLRe.MatchString(url) {
				return strings.TrimSuffix(url, "/")
			}
		}
		return strings.TrimSuffix(links[0], "/")
	}

	// No markdown links survived; scan for bare URLs.
	var bare []string
	for _, url := range bareURLRe.FindAllString(content, -1) {
		if !isExcluded(url) {
			bare = append(bare, url)
		}
	}

	if slug != "" {
		for _, url := range bare {
			if domainContains(url, slug) {
				return strings.TrimRight(url, ",.")
			}
		}
	}
	for _, url := range bare {
		if rootDomainURLRe.MatchString(url) {
			return strings.TrimRight(url, ",.")
		}
	}

	return ""
}

func isExcluded(url string) bool {
	for _, domain := range excludedDomains {
		if strings.Contains(url, domain) {
			return true
		}
	}
	return false
}

func domainContains(url, slug string) bool {
	m := linkDomainRe.FindStringSubmatch(url)
	if m == nil {
		return false
	}
	return strings.Contains(strings.ToLower(m[1]), slug)
}
