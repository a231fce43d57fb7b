package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/dealscout/internal/model"
)

func TestExtractPricing_TierNamesWithMarkupPrices(t *testing.T) {
	markdown := `Choose your plan:
License Tier 2 unlocks more seats.
License Tier 1 is for solo use.`
	html := `<div><p>License Tier 1</p><span class="price">$69</span></div>` +
		`<div><p>License Tier 2</p><span class="price">$139</span></div>`

	doc := productDoc("https://appsumo.com/products/acme", markdown, html)
	pricing := extractPricing(&doc)

	require.Len(t, pricing.Tiers, 2)
	// Sorted ascending by tier number even though tier 2 was seen first.
	assert.Equal(t, 1, pricing.Tiers[0].Tier)
	assert.Equal(t, "License Tier 1", pricing.Tiers[0].Name)
	assert.Equal(t, "$69", pricing.Tiers[0].Price)
	assert.Equal(t, 2, pricing.Tiers[1].Tier)
	assert.Equal(t, "$139", pricing.Tiers[1].Price)

	assert.Equal(t, "$69", pricing.Lifetime)
	assert.Empty(t, pricing.Regular)
}

func TestExtractPricing_WindowBound(t *testing.T) {
	// The price sits beyond the 500-character window, so the tier is
	// not priced and the fallbacks see no tier names in the markup.
	filler := make([]byte, 600)
	for i := range filler {
		filler[i] = 'x'
	}
	html := `<p>License Tier 1</p>` + string(filler) + `$69`
	doc := productDoc("https://appsumo.com/products/acme", "License Tier 1", html)

	pricing := extractPricing(&doc)
	assert.Empty(t, pricing.Tiers)
}

func TestExtractPricing_PaymentBoilerplateFallback(t *testing.T) {
	html := `<div><p class="heading text-xl">Individual</p></div>` +
		`One time payment of <strong> $59 </strong> <span class="line-through"> $240 </span>` +
		`<div><p class="font-medium">Agency</p></div>` +
		`One time payment of <strong>$199</strong>`

	doc := productDoc("https://appsumo.com/products/acme", "", html)
	pricing := extractPricing(&doc)

	require.Len(t, pricing.Tiers, 2)
	assert.Equal(t, model.PricingTier{Tier: 1, Name: "Individual", Price: "$59", Regular: "$240"}, pricing.Tiers[0])
	assert.Equal(t, model.PricingTier{Tier: 2, Name: "Agency", Price: "$199"}, pricing.Tiers[1])

	assert.Equal(t, "$59", pricing.Lifetime)
	assert.Equal(t, "$240", pricing.Regular)
}

func TestExtractPricing_FallbackTierOrdinalFromName(t *testing.T) {
	html := `<div><p class="text-xl">License Tier 3</p></div>` +
		`One time payment of <strong>$299</strong>`

	doc := productDoc("https://appsumo.com/products/acme", "", html)
	pricing := extractPricing(&doc)

	// The tier-name pass also sees "License Tier 3" in the content
	// (markdown empty, so HTML is the content) and prices it from the
	// markup window.
	require.NotEmpty(t, pricing.Tiers)
	assert.Equal(t, 3, pricing.Tiers[0].Tier)
	assert.Equal(t, "$299", pricing.Tiers[0].Price)
}

func TestExtractPricing_StandalonePrices(t *testing.T) {
	markdown := "Get it for $49/lifetime instead of $490 regular pricing."
	doc := productDoc("https://appsumo.com/products/acme", markdown, "")

	pricing := extractPricing(&doc)
	assert.Empty(t, pricing.Tiers)
	assert.Equal(t, "$49", pricing.Lifetime)
	assert.Equal(t, "$490", pricing.Regular)
}

func TestExtractPricing_NoPricing(t *testing.T) {
	doc := productDoc("https://appsumo.com/products/acme", "nothing here", "")
	pricing := extractPricing(&doc)

	assert.NotNil(t, pricing.Tiers)
	assert.Empty(t, pricing.Tiers)
	assert.Empty(t, pricing.Lifetime)
	assert.Empty(t, pricing.Regular)
}

func TestFindTierNames_DedupPreservesOrder(t *testing.T) {
	content := "License Tier 1 ... License Tier 2 ... License Tier 1 ... 3 Codes"
	names := findTierNames(content)
	// The bare "Tier N" shapes match inside "License Tier N" too; the
	// markup pass simply fails to price the fragments.
	assert.Equal(t, []string{"License Tier 1", "License Tier 2", "3 Codes", "Tier 1", "Tier 2"}, names)
}
