// Package producthunt is a minimal client for the Product Hunt v2
// GraphQL API, covering the trending and per-topic post feeds.
package producthunt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/dealscout/internal/model"
)

// Default endpoint for the Product Hunt v2 GraphQL API.
const defaultBaseURL = "https://api.producthunt.com/v2/api/graphql"

// topicSlugs maps caller-facing category names to Product Hunt topic
// slugs. Unknown categories pass through unchanged so new topics work
// without a code change.
var topicSlugs = map[string]string{
	"artificial-intelligence": "artificial-intelligence",
	"developer-tools":         "developer-tools",
	"design-tools":            "design-tools",
	"marketing":               "marketing",
	"productivity":            "productivity",
	"finance":                 "finance",
	"education":               "education",
	"healthtech":              "healthtech",
	"web3":                    "web3",
	"startups":                "startups",
	"customer-communication":  "customer-communication",
	"wearables":               "wearables",
}

// ResolveTopic maps a category name to its Product Hunt topic slug.
func ResolveTopic(category string) string {
	if slug, ok := topicSlugs[category]; ok {
		return slug
	}
	return category
}

// Client defines the Product Hunt discovery operations.
type Client interface {
	Trending(ctx context.Context, limit int) ([]model.Post, error)
	Topic(ctx context.Context, slug string, limit int) ([]model.Post, error)
}

// APIError is returned when the API responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("producthunt: HTTP %d: %s", e.StatusCode, e.Body)
}

// HTTPStatus returns the upstream status code so the resilience layer
// can classify the failure.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default GraphQL endpoint.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new Product Hunt client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

const postFields = `name tagline votesCount website description createdAt thumbnail { url } url`

func (c *httpClient) Trending(ctx context.Context, limit int) ([]model.Post, error) {
	query := fmt.Sprintf(`query { posts(order: RANKING, first: %d) { edges { node { %s } } } }`, limit, postFields)

	var resp graphQLResponse
	if err := c.post(ctx, query, &resp); err != nil {
		return nil, eris.Wrap(err, "producthunt: trending")
	}
	return convertEdges(resp.Data.Posts.Edges), nil
}

func (c *httpClient) Topic(ctx context.Context, slug string, limit int) ([]model.Post, error) {
	query := fmt.Sprintf(`query { topic(slug: %q) { name posts(order: RANKING, first: %d) { edges { node { %s } } } } }`, slug, limit, postFields)

	var resp graphQLResponse
	if err := c.post(ctx, query, &resp); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("producthunt: topic %s", slug))
	}
	if resp.Data.Topic == nil {
		return nil, nil
	}
	return convertEdges(resp.Data.Topic.Posts.Edges), nil
}

type graphQLResponse struct {
	Data struct {
		Posts postConnection `json:"posts"`
		Topic *struct {
			Name  string         `json:"name"`
			Posts postConnection `json:"posts"`
		} `json:"topic"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type postConnection struct {
	Edges []postEdge `json:"edges"`
}

type postEdge struct {
	Node struct {
		Name        string    `json:"name"`
		Tagline     string    `json:"tagline"`
		VotesCount  int       `json:"votesCount"`
		Website     string    `json:"website"`
		Description string    `json:"description"`
		CreatedAt   time.Time `json:"createdAt"`
		Thumbnail   *struct {
			URL string `json:"url"`
		} `json:"thumbnail"`
		URL string `json:"url"`
	} `json:"node"`
}

func convertEdges(edges []postEdge) []model.Post {
	posts := make([]model.Post, 0, len(edges))
	for _, e := range edges {
		p := model.Post{
			Name:           e.Node.Name,
			Tagline:        e.Node.Tagline,
			Votes:          e.Node.VotesCount,
			Website:        e.Node.Website,
			ProductHuntURL: e.Node.URL,
			Description:    e.Node.Description,
			LaunchedAt:     e.Node.CreatedAt,
		}
		if e.Node.Thumbnail != nil {
			p.Thumbnail = e.Node.Thumbnail.URL
		}
		posts = append(posts, p)
	}
	return posts
}

func (c *httpClient) post(ctx context.Context, query string, out *graphQLResponse) error {
	buf, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return eris.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(buf))
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrap(err, "decode response")
	}

	if len(out.Errors) > 0 {
		return eris.New("graphql: " + out.Errors[0].Message)
	}

	return nil
}
