package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sells-group/dealscout/internal/model"
)

// Tier-name shapes seen on deal pages: "License Tier 1", "2 Codes",
// "Code 1", "Agency Plan", "Plan 2", "Tier 3".
var tierNameRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)License\s+Tier\s+(\d+)`),
	regexp.MustCompile(`(?i)(\d+)\s+Codes?`),
	regexp.MustCompile(`(?i)Code\s+(\d+)`),
	regexp.MustCompile(`(?i)([A-Z][a-z]+)\s+Plan`),
	regexp.MustCompile(`(?i)Plan\s+(\d+)`),
	regexp.MustCompile(`(?i)Tier\s+(\d+)`),
}

var (
	oneTimePaymentRe = regexp.MustCompile(`(?i)One time payment of`)
	tierLabelParaRe  = regexp.MustCompile(`<p[^>]*class="[^"]*(?:text-xl|font-medium)[^"]*"[^>]*>([^<]+)</p>`)
	strongPriceRe    = regexp.MustCompile(`<strong[^>]*>\s*\$(\d+(?:\.\d{2})?)\s*</strong>`)
	strikethroughRe  = regexp.MustCompile(`<span[^>]*line-through[^>]*>\s*\$(\d+(?:\.\d{2})?)\s*</span>`)
	tierOrdinalRe    = regexp.MustCompile(`(?i)(?:Tier|Plan|Code|License)\s*(\d+)`)
	firstIntRe       = regexp.MustCompile(`(\d+)`)
	lifetimePriceRe  = regexp.MustCompile(`(?i)\$(\d+(?:\.\d{2})?)/lifetime`)
	regularPriceRe   = regexp.MustCompile(`(?i)\$(\d+(?:,\d{3})*(?:\.\d{2})?)\s*(?:regular|original)`)
)

// extractPricing finds purchase tiers on a deal page. Tier names are
// discovered in the text, then priced by locating each name in the
// markup and scanning a bounded window after it. When that yields
// nothing, the page is split on its payment boilerplate instead.
func extractPricing(doc *model.Document) model.Pricing {
	html := doc.HTML
	content := docContent(doc)

	pricing := model.Pricing{Tiers: []model.PricingTier{}}

	// Pass 1: tier names from content, prices from the markup window
	// after each name.
	names := findTierNames(content)
	if len(names) > 0 && html != "" {
		for _, name := range names {
			re, err := regexp.Compile(`(?is)>` + regexp.QuoteMeta(name) + `<.{0,500}?\$(\d+(?:\.\d{2})?)`)
			if err != nil {
				continue
			}
			m := re.FindStringSubmatch(html)
			if m == nil {
				continue
			}

			num, ok := parseFirstInt(name)
			if !ok {
				num = len(pricing.Tiers) + 1
			}
			pricing.Tiers = append(pricing.Tiers, model.PricingTier{
				Tier:  num,
				Name:  name,
				Price: "$" + m[1],
			})
		}
	}

	// Pass 2: split the markup on the payment boilerplate; the tier
	// label is the last styled paragraph before it, the deal price the
	// first <strong> after it, the regular price the struck-through span.
	if len(pricing.Tiers) == 0 && html != "" {
		sections := oneTimePaymentRe.Split(html, -1)
		for i := 1; i < len(sections); i++ {
			before, after := sections[i-1], sections[i]

			labels := tierLabelParaRe.FindAllStringSubmatch(before, -1)
			if len(labels) == 0 {
				continue
			}
			name := strings.TrimSpace(labels[len(labels)-1][1])

			priceMatch := strongPriceRe.FindStringSubmatch(after)
			if name == "" || priceMatch == nil {
				continue
			}

			tier := model.PricingTier{
				Name:  name,
				Price: "$" + priceMatch[1],
			}
			if m := strikethroughRe.FindStringSubmatch(after); m != nil {
				tier.Regular = "$" + m[1]
			}

			if m := tierOrdinalRe.FindStringSubmatch(name); m != nil {
				tier.Tier, _ = strconv.Atoi(m[1])
			} else {
				tier.Tier = len(pricing.Tiers) + 1
			}
			pricing.Tiers = append(pricing.Tiers, tier)
		}
	}

	sort.SliceStable(pricing.Tiers, func(i, j int) bool {
		return pricing.Tiers[i].Tier < pricing.Tiers[j].Tier
	})

	if len(pricing.Tiers) > 0 {
		pricing.Lifetime = pricing.Tiers[0].Price
		pricing.Regular = pricing.Tiers[0].Regular
	} else {
		if m := lifetimePriceRe.FindStringSubmatch(content); m != nil {
			pricing.Lifetime = "$" + m[1]
		}
		if m := regularPriceRe.FindStringSubmatch(content); m != nil {
			pricing.Regular = "$" + m[1]
		}
	}

	return pricing
}

// findTierNames collects distinct tier-name matches in first-seen order.
func findTierNames(content string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, re := range tierNameRes {
		for _, m := range re.FindAllString(content, -1) {
			if !seen[m] {
				seen[m] = true
				names = append(names, m)
			}
		}
	}
	return names
}

func parseFirstInt(s string) (int, bool) {
	m := firstIntRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
