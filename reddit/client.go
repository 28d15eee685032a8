// Package reddit lists hot posts for a community. The public unauthenticated
// endpoint is tried first; when it fails without usable content the client
// falls back to an OAuth2 client-credentials call, caching the bearer token
// in the shared cache for roughly fifty minutes and evicting it eagerly when
// the API rejects it.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/snoai/url2mda"
)

// Endpoint defaults.
const (
	DefaultPublicURL = "https://www.reddit.com"
	DefaultOAuthURL  = "https://oauth.reddit.com"
	DefaultTokenURL  = "https://www.reddit.com/api/v1/access_token"

	// DefaultTimeout bounds one listing or token request.
	DefaultTimeout = 10 * time.Second

	// TokenTTL is how long an issued bearer token is cached. Tokens are
	// issued for an hour; caching slightly short of that avoids serving
	// a token that expires mid-request.
	TokenTTL = 50 * time.Minute
)

const userAgent = "url2mda/1.0 (markdown conversion service)"

// Ensure Client implements url2mda.ForumService at compile time.
var _ url2mda.ForumService = (*Client)(nil)

// Client reads community hot listings.
type Client struct {
	client    *http.Client
	cache     url2mda.Cache
	logger    *slog.Logger
	publicURL string
	oauthURL  string
	tokenURL  string
	clientID  string
	secret    string
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoints overrides the public, OAuth, and token endpoint URLs. Used
// in tests.
func WithEndpoints(publicURL, oauthURL, tokenURL string) Option {
	return func(c *Client) {
		c.publicURL = publicURL
		c.oauthURL = oauthURL
		c.tokenURL = tokenURL
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// NewClient creates a Client. The cache stores bearer tokens; clientID and
// secret may be empty, in which case the authenticated fallback is skipped.
func NewClient(cache url2mda.Cache, clientID, secret string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		client:    &http.Client{Timeout: DefaultTimeout},
		cache:     cache,
		logger:    logger,
		publicURL: DefaultPublicURL,
		oauthURL:  DefaultOAuthURL,
		tokenURL:  DefaultTokenURL,
		clientID:  clientID,
		secret:    secret,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HotPosts lists up to limit hot posts for a community. The public endpoint
// is tried first; an authenticated fallback runs when the public call was
// rate limited or failed without usable content. An unauthorized fallback
// response evicts the cached token and returns EUNAUTHORIZED without
// retrying in the same call.
func (c *Client) HotPosts(ctx context.Context, community string, limit int) ([]*url2mda.ForumPost, error) {
	posts, err := c.listing(ctx, c.publicURL, community, limit, "")
	if err == nil {
		return posts, nil
	}
	if c.clientID == "" || c.secret == "" {
		return nil, err
	}

	c.logger.Info("public listing failed, trying authenticated fallback", "community", community, "err", err)

	token, terr := c.token(ctx)
	if terr != nil {
		return nil, terr
	}

	posts, err = c.listing(ctx, c.oauthURL, community, limit, token)
	if err != nil && url2mda.ErrorCode(err) == url2mda.EUNAUTHORIZED {
		// Evict so the next request re-authenticates; no retry here to
		// avoid cascading latency within one request.
		if derr := c.cache.Delete(ctx, url2mda.ForumTokenKey); derr != nil {
			c.logger.Warn("token eviction failed", "err", derr)
		}
	}
	return posts, err
}

// listing performs one hot-listing call against base, authenticated when
// token is non-empty.
func (c *Client) listing(ctx context.Context, base, community string, limit int, token string) ([]*url2mda.ForumPost, error) {
	u := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", base, url.PathEscape(community), limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, url2mda.Errorf(url2mda.EUNAUTHORIZED, "listing for r/%s rejected with HTTP %d", community, resp.StatusCode)
	}
	if rateLimited(resp, body) {
		return nil, url2mda.Errorf(url2mda.ERATELIMIT, "listing for r/%s rate limited", community)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing for r/%s returned HTTP %d", community, resp.StatusCode)
	}

	return parseListing(body)
}

// rateLimited recognizes the three equivalent rate-limit signals: a 429
// status, an exhausted quota header, or a rate-limit phrase in an error
// body.
func rateLimited(resp *http.Response, body []byte) bool {
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if remaining := strings.TrimSpace(resp.Header.Get("X-Ratelimit-Remaining")); remaining == "0" || remaining == "0.0" {
		return true
	}
	if resp.StatusCode >= 400 && strings.Contains(strings.ToLower(string(body)), "rate limit") {
		return true
	}
	return false
}

// token returns a bearer token, from cache when present, otherwise via a
// client-credentials exchange. Concurrent refreshes are tolerated: both
// succeed, last cache write wins.
func (c *Client) token(ctx context.Context) (string, error) {
	if token, err := c.cache.Get(ctx, url2mda.ForumTokenKey); err == nil && token != "" {
		return token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", url2mda.Errorf(url2mda.EUNAUTHORIZED, "token exchange returned HTTP %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.AccessToken == "" {
		return "", url2mda.Errorf(url2mda.EUNAUTHORIZED, "token exchange returned no token")
	}

	if err := c.cache.Set(ctx, url2mda.ForumTokenKey, payload.AccessToken, TokenTTL); err != nil {
		c.logger.Warn("token cache write failed", "err", err)
	}
	return payload.AccessToken, nil
}

// parseListing converts the listing payload into ForumPosts.
func parseListing(body []byte) ([]*url2mda.ForumPost, error) {
	var payload struct {
		Data struct {
			Children []struct {
				Data struct {
					Title       string  `json:"title"`
					Author      string  `json:"author"`
					Score       int     `json:"score"`
					NumComments int     `json:"num_comments"`
					CreatedUTC  float64 `json:"created_utc"`
					SelfText    string  `json:"selftext"`
					URL         string  `json:"url"`
					Permalink   string  `json:"permalink"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parsing listing: %w", err)
	}

	posts := make([]*url2mda.ForumPost, 0, len(payload.Data.Children))
	for _, child := range payload.Data.Children {
		d := child.Data
		posts = append(posts, &url2mda.ForumPost{
			Title:       d.Title,
			Author:      d.Author,
			Score:       d.Score,
			NumComments: d.NumComments,
			Created:     time.Unix(int64(d.CreatedUTC), 0).UTC(),
			SelfText:    d.SelfText,
			URL:         d.URL,
			Permalink:   d.Permalink,
		})
	}
	return posts, nil
}
