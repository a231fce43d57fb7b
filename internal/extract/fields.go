package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sells-group/dealscout/internal/model"
)

var markdownLinkTextRe = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)

// extractSummary scans markdown lines for the first descriptive
// sentence, skipping images, bare links, headings, and marketplace
// boilerplate. Falls back to the page meta description.
func extractSummary(doc *model.Document) string {
	for _, raw := range strings.Split(doc.Markdown, "\n") {
		line := strings.TrimSpace(raw)

		if strings.HasPrefix(line, "![") || strings.HasPrefix(line, "[!") || strings.HasPrefix(line, "http") {
			continue
		}

		// Keep link text, drop the URL.
		clean := markdownLinkTextRe.ReplaceAllString(line, "$1")

		if len(clean) <= 50 || len(clean) >= 400 || strings.HasPrefix(clean, "#") {
			continue
		}

		if strings.Contains(clean, "AppSumo") ||
			strings.Contains(clean, "Deal") ||
			strings.Contains(clean, "reviews") ||
			strings.Contains(clean, "logo") ||
			strings.Contains(clean, "image") ||
			strings.HasPrefix(clean, "From the") ||
			strings.Contains(clean, "From the Founders") ||
			strings.Contains(clean, "From the founders") {
			continue
		}

		return clean
	}

	return doc.Metadata.Description
}

var ratingRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:out of|/)\s*5`)

func extractRating(doc *model.Document) *float64 {
	m := ratingRe.FindStringSubmatch(docContent(doc))
	if m == nil {
		return nil
	}
	rating, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &rating
}

var reviewsRe = regexp.MustCompile(`(?i)(\d+)\s*(?:reviews?|ratings?)`)

func extractReviews(doc *model.Document) *int {
	m := reviewsRe.FindStringSubmatch(docContent(doc))
	if m == nil {
		return nil
	}
	count, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &count
}

// Founding-date shapes: "Founded in 2024", "Founded: 2024",
// "Founded February 26, 2024", "Founded 02/26/2024",
// "Founded on February 26, 2024".
var foundingDateRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Founded|Established|Since)\s+(?:in\s+)?(\d{4})`),
	regexp.MustCompile(`(?i)(?:Founded|Established):\s*(\d{4})`),
	regexp.MustCompile(`(?i)(?:Founded|Established)\s+\w+\s+\d{1,2},?\s+(\d{4})`),
	regexp.MustCompile(`(?i)(?:Founded|Established)\s+\d{1,2}/\d{1,2}/(\d{4})`),
	regexp.MustCompile(`(?i)(?:Founded|Established)\s+on\s+\w+\s+\d{1,2},?\s+(\d{4})`),
}

func (e *Engine) extractFoundingDate(doc *model.Document) string {
	content := docContent(doc)
	maxYear := e.now().Year() + 1

	for _, re := range foundingDateRes {
		m := re.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		year, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if year >= 1900 && year <= maxYear {
			return m[1]
		}
	}

	return ""
}

// extractCategories matches the page against the audience vocabulary,
// case-insensitive, preserving vocabulary order.
func (e *Engine) extractCategories(doc *model.Document) []string {
	content := strings.ToLower(docContent(doc))

	categories := make([]string, 0, 4)
	seen := make(map[string]bool)
	for _, keyword := range e.vocab {
		if seen[keyword] {
			continue
		}
		if strings.Contains(content, strings.ToLower(keyword)) {
			categories = append(categories, keyword)
			seen[keyword] = true
		}
	}

	return categories
}
