package extract

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/dealscout/internal/model"
)

// pageText bundles the representations the founder strategies run over.
// Markup-structure strategies need the raw HTML; text strategies use
// markdown when present.
type pageText struct {
	html    string
	content string
}

// founderStrategy is one step of the identification cascade. A nil
// return means "not found here, try the next one".
type founderStrategy struct {
	name string
	fn   func(ctx context.Context, e *Engine, d *pageText) *model.FounderInfo
}

// Ordered most-reliable first; the first strategy that accepts a name
// wins.
var founderStrategies = []founderStrategy{
	{"structured-data", founderFromStructuredData},
	{"profile-anchor", founderFromProfileAnchor},
	{"profile-ceo-span", founderFromCEOSpan},
	{"profile-near-linkedin", founderFromProfileNearLinkedIn},
	{"marketplace-profile-link", founderFromMarketplaceProfile},
	{"linkedin-anchor", founderFromLinkedInAnchor},
	{"explicit-keyword", founderFromExplicitKeyword},
	{"founder-window", founderFromKeywordWindow},
	{"social-handle", founderFromSocialHandle},
	{"linkedin-profile-fetch", founderFromLinkedInProfile},
}

var (
	founderJSONRe     = regexp.MustCompile(`"username":"([^"]+)"[^}]*"firstName":"([^"]+)"[^}]*"lastName":"([^"]+)"`)
	linkedInInRe      = regexp.MustCompile(`https?://(?:www\.)?linkedin\.com/in/([a-zA-Z0-9-]+)`)
	profileAnchorRe   = regexp.MustCompile(`(?i)<a[^>]*href="/profile/([^"/]+)/?["'][^>]*>([^<]{3,40})</a>`)
	personNameRe      = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+$`)
	ceoSpanRe         = regexp.MustCompile(`(?is)<a[^>]*href="/profile/([^"/]+)/?"[^>]*>\s*<img[^>]*alt="([^"]+)".{0,500}?<span[^>]*>(?:CEO|Founder|Co-founder|Co-CEO)</span>.{0,200}?href="(https?://(?:www\.)?linkedin\.com/in/[^"]+)"`)
	profileLinkedInRe = regexp.MustCompile(`(?is)<a[^>]*href="/profile/([^"/]+)/?"[^>]*>([^<]+)</a>.{0,300}?href="(https?://(?:www\.)?linkedin\.com/in/[^"]+)"`)
	marketProfileRe   = regexp.MustCompile(`\[([^\]]+)\]\((https?://appsumo\.com/profile/([a-zA-Z0-9_-]+))/?`)
	simpleNameRe      = regexp.MustCompile(`^[A-Za-z]+(?:\s+[A-Za-z]+)*$`)
	linkedInAnchorRe  = regexp.MustCompile(`\[([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\]\((https?://(?:www\.)?linkedin\.com/in/[a-zA-Z0-9-]+)\)`)
	profileURLRe      = regexp.MustCompile(`https?://appsumo\.com/profile/([a-zA-Z0-9_-]+)`)
	founderKeywordRe  = regexp.MustCompile(`(?i)\bco-?founder\b|\bfounder\b`)
	camelBoundaryRe   = regexp.MustCompile(`([a-z])([A-Z])`)
	twoWordNameRe     = regexp.MustCompile(`^[A-Z][a-z]{2,}\s+[A-Z][a-z]{2,}$`)
	linkedInTitleRe   = regexp.MustCompile(`^([^|\-]+?)(?:\s*[|\-]|$)`)
)

// Explicit attribution shapes: "Founder: Name", "Founded by Name",
// "Name, Founder", "CEO: Name". The name must look like a capitalized
// multi-word person name.
var explicitFounderRes = []*regexp.Regexp{
	regexp.MustCompile(`(?:[Cc]o-?[Ff]ounder|[Ff]ounder)[:\s]+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`),
	regexp.MustCompile(`(?:[Ff]ounded by|[Cc]reated by)[:\s]+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`),
	regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)[,\s]+(?:[Cc]o-?[Ff]ounder|[Ff]ounder)`),
	regexp.MustCompile(`(?:CEO|Co-CEO)[:\s]+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`),
}

// Same shapes, but anchored inside the window around a "Founder"
// mention, allowing markdown link brackets around the name.
var windowNameRes = []*regexp.Regexp{
	regexp.MustCompile(`(?:[Cc]o-?[Ff]ounder|[Ff]ounder)[:\s]*\[?([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)\]?`),
	regexp.MustCompile(`\[?([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)\]?[,\s]+(?:[Cc]o-?[Ff]ounder|[Ff]ounder)`),
	regexp.MustCompile(`(?:[Cc]o-?[Ff]ounder|[Ff]ounder)[^\[]*\[([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)\]`),
}

// Words that mark a candidate as review prose or navigation text
// rather than a person's name.
var nameStopwords = []string{
	"the", "from", "founder", "are", "is", "was", "beyond", "genius",
	"great", "amazing", "best", "team", "company", "recognized", "that",
}

var nameStopwordsExtended = append([]string{
	"who", "what", "when", "where", "why", "how", "this", "these", "those",
}, nameStopwords...)

func hasStopword(name string, stopwords []string) bool {
	lower := strings.ToLower(name)
	for _, w := range stopwords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// extractFounder runs the cascade. When no strategy accepts a name,
// any profile URLs found in the page are still surfaced.
func (e *Engine) extractFounder(ctx context.Context, doc *model.Document) model.FounderInfo {
	d := &pageText{html: doc.HTML, content: docContent(doc)}

	for _, s := range founderStrategies {
		if info := s.fn(ctx, e, d); info != nil {
			zap.L().Debug("founder identified",
				zap.String("strategy", s.name),
				zap.String("name", info.Name),
			)
			return *info
		}
	}

	return model.FounderInfo{
		LinkedIn:       firstLinkedInURL(d.content),
		AppSumoProfile: firstProfileURL(d.content),
	}
}

// Embedded profile data ("username"..."firstName"..."lastName") is the
// most reliable source when the page ships it.
func founderFromStructuredData(_ context.Context, _ *Engine, d *pageText) *model.FounderInfo {
	if d.html == "" {
		return nil
	}
	m := founderJSONRe.FindStringSubmatch(d.html)
	if m == nil {
		return nil
	}

	full := strings.TrimSpace(m[2] + " " + m[3])
	if len(full) < 4 || len(strings.Fields(full)) < 2 {
		return nil
	}

	return &model.FounderInfo{
		Name:           full,
		LinkedIn:       linkedInInRe.FindString(d.html),
		AppSumoProfile: "https://appsumo.com/profile/" + m[1],
	}
}

// Profile anchors whose text is a clean person name. Anchor text that
// reads like a sentence (stopwords) is rejected outright.
func founderFromProfileAnchor(_ context.Context, _ *Engine, d *pageText) *model.FounderInfo {
	if d.html == "" {
		return nil
	}

	for _, m := range profileAnchorRe.FindAllStringSubmatch(d.html, -1) {
		display := strings.TrimSpace(m[2])
		if hasStopword(display, nameStopwordsExtended) {
			continue
		}
		if !personNameRe.MatchString(display) || len(display) > 30 {
			continue
		}

		return &model.FounderInfo{
			Name:           display,
			LinkedIn:       linkedInInRe.FindString(d.html),
			AppSumoProfile: "https://appsumo.com/profile/" + m[1],
		}
	}
	return nil
}

// Profile anchor + avatar alt text + a CEO/Founder role span + a
// LinkedIn link, all within a bounded markup window.
func founderFromCEOSpan(_ context.Context, _ *Engine, d *pageText) *model.FounderInfo {
	if d.html == "" {
		return nil
	}
	m := ceoSpanRe.FindStringSubmatch(d.html)
	if m == nil {
		return nil
	}
	return &model.FounderInfo{
		Name:           strings.TrimSpace(m[2]),
		LinkedIn:       m[3],
		AppSumoProfile: "https://appsumo.com/profile/" + m[1] + "/",
	}
}

// Profile anchor with a LinkedIn link shortly after it.
func founderFromProfileNearLinkedIn(_ context.Context, _ *Engine, d *pageText) *model.FounderInfo {
	if d.html == "" {
		return nil
	}
	m := profileLinkedInRe.FindStringSubmatch(d.html)
	if m == nil {
		return nil
	}
	return &model.FounderInfo{
		Name:           strings.TrimSpace(m[2]),
		LinkedIn:       m[3],
		AppSumoProfile: "https://appsumo.com/profile/" + m[1] + "/",
	}
}

// Markdown link to a marketplace profile; the username doubles as the
// name once underscores become spaces ("Maxime_N" -> "Maxime N").
func founderFromMarketplaceProfile(_ context.Context, _ *Engine, d *pageText) *model.FounderInfo {
	m := marketProfileRe.FindStringSubmatch(d.content)
	if m == nil {
		return nil
	}

	cleaned := strings.ReplaceAll(m[3], "_", " ")
	if hasStopword(cleaned, nameStopwords) || !simpleNameRe.MatchString(cleaned) {
		return nil
	}

	return &model.FounderInfo{
		Name:           cleaned,
		LinkedIn:       linkedInInRe.FindString(d.content),
		AppSumoProfile: m[2],
	}
}

// Markdown link whose text is a person name and whose target is a
// LinkedIn profile.
func founderFromLinkedInAnchor(_ context.Context, _ *Engine, d *pageText) *model.FounderInfo {
	m := linkedInAnchorRe.FindStringSubmatch(d.content)
	if m == nil {
		return nil
	}
	return &model.FounderInfo{
		Name:     strings.TrimSpace(m[1]),
		LinkedIn: m[2],
	}
}

func founderFromExplicitKeyword(_ context.Context, _ *Engine, d *pageText) *model.FounderInfo {
	for _, re := range explicitFounderRes {
		m := re.FindStringSubmatch(d.content)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if hasStopword(name, nameStopwords) || len(strings.Fields(name)) < 2 {
			continue
		}

		return &model.FounderInfo{
			Name:           name,
			LinkedIn:       firstLinkedInURL(d.content),
			AppSumoProfile: firstProfileURL(d.content),
		}
	}
	return nil
}

// Capitalized names within 300 characters of a "Founder" mention.
func founderFromKeywordWindow(_ context.Context, _ *Engine, d *pageText) *model.FounderInfo {
	loc := founderKeywordRe.FindStringIndex(d.content)
	if loc == nil {
		return nil
	}

	start := max(0, loc[0]-300)
	end := min(len(d.content), loc[0]+300)
	window := d.content[start:end]

	for _, re := range windowNameRes {
		m := re.FindStringSubmatch(window)
		if m == nil || len(strings.Fields(m[1])) < 2 {
			continue
		}
		return &model.FounderInfo{
			Name:           strings.TrimSpace(m[1]),
			LinkedIn:       firstLinkedInURL(d.content),
			AppSumoProfile: firstProfileURL(d.content),
		}
	}
	return nil
}

// A markdown link naming a person near a discovered profile handle, or
// failing that, a name derived from the handle itself.
func founderFromSocialHandle(_ context.Context, _ *Engine, d *pageText) *model.FounderInfo {
	liURL, liHandle := firstLinkedIn(d.content)
	asURL, asHandle := firstProfile(d.content)
	if liURL == "" && asURL == "" {
		return nil
	}

	handle := liHandle
	if handle == "" {
		handle = asHandle
	}

	if re, err := regexp.Compile(`\[([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)\]\([^)]*(?:` + regexp.QuoteMeta(handle) + `|profile)[^)]*\)`); err == nil {
		if m := re.FindStringSubmatch(d.content); m != nil {
			return &model.FounderInfo{
				Name:           strings.TrimSpace(m[1]),
				LinkedIn:       liURL,
				AppSumoProfile: asURL,
			}
		}
	}

	// Weak signal: split the handle itself ("john-doe", "JohnDoe").
	spaced := camelBoundaryRe.ReplaceAllString(strings.NewReplacer("-", " ", "_", " ").Replace(handle), "$1 $2")
	parts := strings.Fields(spaced)
	if len(parts) >= 2 {
		name := titleWord(parts[0]) + " " + titleWord(parts[1])
		if twoWordNameRe.MatchString(name) {
			return &model.FounderInfo{
				Name:           name,
				LinkedIn:       liURL,
				AppSumoProfile: asURL,
			}
		}
	}
	return nil
}

// Last resort: fetch the LinkedIn profile and read the name from its
// title or opening lines; failing that, title-case the username.
func founderFromLinkedInProfile(ctx context.Context, e *Engine, d *pageText) *model.FounderInfo {
	liURL, username := firstLinkedIn(d.content)
	if liURL == "" || strings.Contains(liURL, "company") || username == "" {
		return nil
	}
	asURL := firstProfileURL(d.content)

	if e.fetcher != nil {
		page, err := e.fetcher.Fetch(ctx, liURL, model.FetchOptions{
			Formats:         []string{"markdown"},
			OnlyMainContent: true,
			WaitFor:         time.Second,
		})
		if err != nil {
			zap.L().Debug("could not fetch linkedin profile",
				zap.String("url", liURL),
				zap.Error(err),
			)
		} else {
			// Titles look like "Name | LinkedIn" or "Name - LinkedIn".
			if m := linkedInTitleRe.FindStringSubmatch(page.Metadata.Title); m != nil {
				name := strings.TrimSpace(m[1])
				if personNameRe.MatchString(name) && len(name) <= 50 {
					return &model.FounderInfo{Name: name, LinkedIn: liURL, AppSumoProfile: asURL}
				}
			}

			lines := strings.Split(page.Markdown, "\n")
			if len(lines) > 10 {
				lines = lines[:10]
			}
			for _, line := range lines {
				if personNameRe.MatchString(line) && len(line) <= 50 {
					return &model.FounderInfo{Name: line, LinkedIn: liURL, AppSumoProfile: asURL}
				}
			}
		}
	}

	// "maxime-neau" -> "Maxime Neau"
	var parts []string
	for _, p := range strings.Split(username, "-") {
		if p != "" {
			parts = append(parts, titleWord(p))
		}
	}
	if len(parts) >= 2 {
		return &model.FounderInfo{
			Name:           strings.Join(parts, " "),
			LinkedIn:       liURL,
			AppSumoProfile: asURL,
		}
	}
	return nil
}

func titleWord(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}

func firstLinkedIn(content string) (url, handle string) {
	m := linkedInInRe.FindStringSubmatch(content)
	if m == nil {
		return "", ""
	}
	return m[0], m[1]
}

func firstLinkedInURL(content string) string {
	url, _ := firstLinkedIn(content)
	return url
}

func firstProfile(content string) (url, handle string) {
	m := profileURLRe.FindStringSubmatch(content)
	if m == nil {
		return "", ""
	}
	return m[0], m[1]
}

func firstProfileURL(content string) string {
	url, _ := firstProfile(content)
	return url
}
