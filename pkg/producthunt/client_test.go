package producthunt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-api-key", WithBaseURL(srv.URL))
	return srv, c
}

func decodeQuery(t *testing.T, r *http.Request) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body["query"]
}

func TestTrending(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		query := decodeQuery(t, r)
		assert.Contains(t, query, "posts(order: RANKING, first: 2)")
		assert.Contains(t, query, "votesCount")

		w.Write([]byte(`{
			"data": {
				"posts": {
					"edges": [
						{"node": {"name": "Acme AI", "tagline": "Ship faster", "votesCount": 412,
							"website": "https://acme.ai", "description": "desc",
							"createdAt": "2026-08-01T12:00:00Z",
							"thumbnail": {"url": "https://ph.example/t.png"},
							"url": "https://www.producthunt.com/posts/acme-ai"}},
						{"node": {"name": "Beta", "tagline": "tag", "votesCount": 99,
							"createdAt": "2026-08-02T09:30:00Z",
							"url": "https://www.producthunt.com/posts/beta"}}
					]
				}
			}
		}`))
	})

	posts, err := c.Trending(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "Acme AI", posts[0].Name)
	assert.Equal(t, 412, posts[0].Votes)
	assert.Equal(t, "https://acme.ai", posts[0].Website)
	assert.Equal(t, "https://www.producthunt.com/posts/acme-ai", posts[0].ProductHuntURL)
	assert.Equal(t, "https://ph.example/t.png", posts[0].Thumbnail)

	// Missing thumbnail stays empty.
	assert.Empty(t, posts[1].Thumbnail)
}

func TestTopic(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		query := decodeQuery(t, r)
		assert.Contains(t, query, `topic(slug: "developer-tools")`)
		assert.Contains(t, query, "posts(order: RANKING, first: 5)")

		w.Write([]byte(`{
			"data": {
				"topic": {
					"name": "Developer Tools",
					"posts": {"edges": [
						{"node": {"name": "DevThing", "tagline": "t", "votesCount": 10,
							"createdAt": "2026-08-10T00:00:00Z",
							"url": "https://www.producthunt.com/posts/devthing"}}
					]}
				}
			}
		}`))
	})

	posts, err := c.Topic(context.Background(), "developer-tools", 5)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "DevThing", posts[0].Name)
}

func TestTopic_Unknown(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"topic": null}}`))
	})

	posts, err := c.Topic(context.Background(), "no-such-topic", 5)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestGraphQLErrors(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {}, "errors": [{"message": "rate limit exceeded"}]}`))
	})

	_, err := c.Trending(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestAPIError(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"too many requests"}`))
	})

	_, err := c.Trending(context.Background(), 5)
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 429, apiErr.StatusCode)
	assert.Equal(t, 429, apiErr.HTTPStatus())
}

func TestResolveTopic(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "artificial-intelligence", ResolveTopic("artificial-intelligence"))
	// Unknown categories pass through.
	assert.Equal(t, "space-tech", ResolveTopic("space-tech"))
}
