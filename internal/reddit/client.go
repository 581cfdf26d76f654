// Package reddit fetches and normalizes listings from Reddit's public JSON
// API. Every listing operation goes through the rate-limited cache gateway:
// budget check first, then cache, then the network.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iamtxena/finance-scoop/internal/cache"
	pkgerrors "github.com/iamtxena/finance-scoop/pkg/errors"
	"github.com/iamtxena/finance-scoop/pkg/metrics"
)

// Cache TTLs per operation. Hot listings move slowly, search results slower
// still; new and user listings churn the fastest.
const (
	ttlNew     = 5 * time.Minute
	ttlUser    = 5 * time.Minute
	ttlDetail  = 5 * time.Minute
	ttlComment = 5 * time.Minute
	ttlHot     = 10 * time.Minute
	ttlSearch  = 15 * time.Minute
)

// Searcher is the slice of the client the alert sweep depends on.
type Searcher interface {
	Search(ctx context.Context, subreddit, query string, limit int) ([]Post, error)
}

// Config holds the client's endpoint and outbound budget settings.
type Config struct {
	BaseURL        string
	UserAgent      string
	RequestTimeout time.Duration
	RateLimit      int
	RateWindow     time.Duration
}

// Client talks to the Reddit public API through a Gateway. No authentication
// is used; Reddit identifies callers by the User-Agent header.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	gateway   cache.Gateway
	limit     int
	window    time.Duration
	metrics   *metrics.Metrics
}

func NewClient(cfg Config, gateway cache.Gateway, m *metrics.Metrics) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: cfg.RequestTimeout},
		gateway:   gateway,
		limit:     cfg.RateLimit,
		window:    cfg.RateWindow,
		metrics:   m,
	}
}

// HotPosts fetches the hot listing for a subreddit.
func (c *Client) HotPosts(ctx context.Context, subreddit string, limit int) ([]Post, error) {
	key := fmt.Sprintf("reddit:hot:%s", subreddit)
	path := fmt.Sprintf("/r/%s/hot.json?limit=%d", url.PathEscape(subreddit), limit)
	return c.listPosts(ctx, "hot", key, key, path, ttlHot)
}

// NewPosts fetches the new listing for a subreddit.
func (c *Client) NewPosts(ctx context.Context, subreddit string, limit int) ([]Post, error) {
	key := fmt.Sprintf("reddit:new:%s", subreddit)
	path := fmt.Sprintf("/r/%s/new.json?limit=%d", url.PathEscape(subreddit), limit)
	return c.listPosts(ctx, "new", key, key, path, ttlNew)
}

// Search runs a free-text query against a single subreddit, restricted to
// the last day and sorted by relevance.
func (c *Client) Search(ctx context.Context, subreddit, query string, limit int) ([]Post, error) {
	rateKey := fmt.Sprintf("reddit:search:%s", subreddit)
	cacheKey := fmt.Sprintf("reddit:search:%s:%s", subreddit, query)
	path := fmt.Sprintf("/r/%s/search.json?q=%s&limit=%d&t=day&sort=relevance&restrict_sr=true",
		url.PathEscape(subreddit), url.QueryEscape(query), limit)
	return c.listPosts(ctx, "search", rateKey, cacheKey, path, ttlSearch)
}

// UserPosts fetches a user's submitted posts.
func (c *Client) UserPosts(ctx context.Context, username string, limit int) ([]Post, error) {
	rateKey := fmt.Sprintf("reddit:user:%s", username)
	cacheKey := fmt.Sprintf("reddit:user:%s:posts", username)
	path := fmt.Sprintf("/user/%s/submitted.json?limit=%d", url.PathEscape(username), limit)
	return c.listPosts(ctx, "user", rateKey, cacheKey, path, ttlUser)
}

// PostDetails fetches a single post by id. Detail lookups ride on the
// comment endpoint and are cache-only: they are cheap and always follow a
// listing call that already consumed budget.
func (c *Client) PostDetails(ctx context.Context, postID string) (*Post, error) {
	cacheKey := fmt.Sprintf("reddit:post:%s", postID)

	var cached Post
	found, err := c.gateway.Get(ctx, cacheKey, &cached)
	if err != nil {
		return nil, err
	}
	if found {
		c.countCacheHit("detail")
		return &cached, nil
	}

	var pages []listing
	if err := c.fetch(ctx, fmt.Sprintf("/comments/%s.json", url.PathEscape(postID)), &pages); err != nil {
		return nil, err
	}
	c.countRequest("detail")

	if len(pages) == 0 || len(pages[0].Data.Children) == 0 {
		return nil, pkgerrors.ExternalSource("reddit", fmt.Errorf("post %s not found in response", postID))
	}

	var raw rawPost
	if err := json.Unmarshal(pages[0].Data.Children[0].Data, &raw); err != nil {
		return nil, pkgerrors.ExternalSource("reddit", fmt.Errorf("malformed post payload: %w", err))
	}
	post := normalizePost(raw)

	if err := c.gateway.Set(ctx, cacheKey, post, ttlDetail); err != nil {
		return nil, err
	}
	return &post, nil
}

// Comments fetches a post's comment tree, rebuilt from Reddit's nested
// listing representation.
func (c *Client) Comments(ctx context.Context, postID, subreddit string, limit int) ([]Comment, error) {
	rateKey := fmt.Sprintf("reddit:comments:%s", subreddit)
	if err := c.acquire(ctx, "comments", rateKey); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("reddit:comments:%s:%s", subreddit, postID)
	var cached []Comment
	found, err := c.gateway.Get(ctx, cacheKey, &cached)
	if err != nil {
		return nil, err
	}
	if found {
		c.countCacheHit("comments")
		return cached, nil
	}

	path := fmt.Sprintf("/r/%s/comments/%s.json?limit=%d",
		url.PathEscape(subreddit), url.PathEscape(postID), limit)
	var pages []listing
	if err := c.fetch(ctx, path, &pages); err != nil {
		return nil, err
	}
	c.countRequest("comments")

	if len(pages) < 2 {
		return nil, pkgerrors.ExternalSource("reddit", fmt.Errorf("comment response for %s missing reply listing", postID))
	}

	comments, err := parseCommentTree(pages[1], 0)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []Comment{}
	}

	if err := c.gateway.Set(ctx, cacheKey, comments, ttlComment); err != nil {
		return nil, err
	}
	return comments, nil
}

// listPosts is the shared gateway-then-fetch path for all post listings.
func (c *Client) listPosts(ctx context.Context, op, rateKey, cacheKey, path string, ttl time.Duration) ([]Post, error) {
	if err := c.acquire(ctx, op, rateKey); err != nil {
		return nil, err
	}

	var cached []Post
	found, err := c.gateway.Get(ctx, cacheKey, &cached)
	if err != nil {
		return nil, err
	}
	if found {
		c.countCacheHit(op)
		return cached, nil
	}

	var page listing
	if err := c.fetch(ctx, path, &page); err != nil {
		return nil, err
	}
	c.countRequest(op)

	posts := make([]Post, 0, len(page.Data.Children))
	for _, ch := range page.Data.Children {
		var raw rawPost
		if err := json.Unmarshal(ch.Data, &raw); err != nil {
			return nil, pkgerrors.ExternalSource("reddit", fmt.Errorf("malformed post payload: %w", err))
		}
		posts = append(posts, normalizePost(raw))
	}

	if err := c.gateway.Set(ctx, cacheKey, posts, ttl); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) acquire(ctx context.Context, op, key string) error {
	res, err := c.gateway.Allow(ctx, key, c.limit, c.window)
	if err != nil {
		return fmt.Errorf("rate limit check failed: %w", err)
	}
	if !res.Allowed {
		if c.metrics != nil {
			c.metrics.RateLimitDenied.WithLabelValues(op).Inc()
		}
		return pkgerrors.RateLimited(key)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build reddit request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.ExternalSource("reddit", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Drain so the connection can be reused; no retry at this layer.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return pkgerrors.ExternalSource("reddit", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.ExternalSource("reddit", fmt.Errorf("malformed response: %w", err))
	}
	return nil
}

func (c *Client) countRequest(op string) {
	if c.metrics != nil {
		c.metrics.RedditRequests.WithLabelValues(op).Inc()
	}
}

func (c *Client) countCacheHit(op string) {
	if c.metrics != nil {
		c.metrics.RedditCacheHits.WithLabelValues(op).Inc()
	}
}

func normalizePost(raw rawPost) Post {
	author := raw.Author
	if author == "" {
		author = DeletedAuthor
	}
	return Post{
		ID:          raw.ID,
		Title:       raw.Title,
		Selftext:    raw.Selftext,
		Author:      author,
		Subreddit:   raw.Subreddit,
		Score:       raw.Score,
		NumComments: raw.NumComments,
		URL:         raw.URL,
		CreatedUTC:  raw.CreatedUTC,
		Permalink:   "https://reddit.com" + raw.Permalink,
	}
}
