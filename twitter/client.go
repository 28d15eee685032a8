// Package twitter reads public microblog posts through the unauthenticated
// syndication endpoint, avoiding both login walls and DOM scraping for
// individual posts.
package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/snoai/url2mda"
)

// DefaultBaseURL is the public syndication read endpoint.
const DefaultBaseURL = "https://cdn.syndication.twimg.com"

// DefaultTimeout bounds one syndication request.
const DefaultTimeout = 10 * time.Second

// syndicationFeatures is the feature set the endpoint expects; without it
// some payload fields are withheld.
const syndicationFeatures = "tfw_timeline_list:;tfw_follower_count_sunset:true;tfw_tweet_edit_backend:on;tfw_refsrc_session:on;tfw_fosnr_soft_interventions_enabled:on;tfw_show_birdwatch_pivots_enabled:on;tfw_show_business_verified_badge:on;tfw_duplicate_scribes_to_settings:on;tfw_use_profile_image_shape_enabled:on;tfw_show_blue_verified_badge:on;tfw_legacy_timeline_sunset:true;tfw_show_gov_verified_badge:on;tfw_show_business_affiliate_badge:on;tfw_tweet_edit_frontend:on"

// Ensure Client implements url2mda.TweetService at compile time.
var _ url2mda.TweetService = (*Client)(nil)

// Client fetches posts from the syndication endpoint with browser-like
// request headers.
type Client struct {
	client  *http.Client
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the endpoint base URL. Used in tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// NewClient creates a new Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		client:  &http.Client{Timeout: DefaultTimeout},
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tweet fetches the post with the given id. Returns ENOTFOUND when the
// upstream payload is absent or carries no text.
func (c *Client) Tweet(ctx context.Context, id string) (*url2mda.Tweet, error) {
	q := url.Values{}
	q.Set("id", id)
	q.Set("lang", "en")
	q.Set("features", syndicationFeatures)
	q.Set("token", "4c2mmul6mnh")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tweet-result?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	// Browser-like headers; the endpoint rejects obvious bots.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Cache-Control", "max-age=0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, url2mda.Errorf(url2mda.ENOTFOUND, "tweet %s not found", id)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("syndication endpoint returned HTTP %d for tweet %s", resp.StatusCode, id)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, url2mda.Errorf(url2mda.ENOTFOUND, "tweet %s not found", id)
	}

	var tweet url2mda.Tweet
	if err := json.Unmarshal(body, &tweet); err != nil {
		return nil, url2mda.Errorf(url2mda.ENOTFOUND, "tweet %s payload unreadable", id)
	}
	if tweet.Text == "" {
		return nil, url2mda.Errorf(url2mda.ENOTFOUND, "tweet %s not found", id)
	}

	tweet.Raw = json.RawMessage(body)
	return &tweet, nil
}
