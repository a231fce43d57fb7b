package crawler

import (
	"regexp"
	"strings"
)

// Product pages always live at https://appsumo.com/products/<slug>/ on
// listing pages; the trailing slash anchors the match so partial slugs
// from query strings are not picked up.
var productURLRe = regexp.MustCompile(`(?i)https://appsumo\.com/products/([a-z0-9-]+)/`)

// ExtractProductURLs pulls product page URLs out of listing-page
// markdown, deduplicated in first-seen order and truncated to
// maxProducts. Trailing slashes are stripped.
func ExtractProductURLs(markdown string, maxProducts int) []string {
	seen := make(map[string]struct{})
	urls := make([]string, 0, maxProducts)

	for _, m := range productURLRe.FindAllString(markdown, -1) {
		url := strings.TrimSuffix(m, "/")
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		urls = append(urls, url)

		if maxProducts > 0 && len(urls) >= maxProducts {
			break
		}
	}
	return urls
}
