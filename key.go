package url2mda

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Cache fingerprints. Generic pages key on the full (url, options) tuple so
// detailed and filtered variants cache independently. Strategy-specific
// routes key on stable source identifiers so multiple surface URLs that
// resolve to the same underlying item share one cached value.

// PageKey returns the cache fingerprint for a generic page extraction.
func PageKey(url string, detailed, llmFilter bool) string {
	h := xxhash.Sum64String(fmt.Sprintf("%s|detailed=%t|llm=%t", url, detailed, llmFilter))
	return fmt.Sprintf("page:%016x", h)
}

// TweetKey returns the cache fingerprint for a microblog post id.
func TweetKey(id string) string {
	return "tweet:" + id
}

// VideoKey returns the cache fingerprint for a video id.
func VideoKey(id string) string {
	return "video:" + id
}

// ForumKey returns the cache fingerprint for a community listing. The
// original URL participates so differently shaped community URLs (sort
// orders, trailing slashes) cache independently while sharing the community
// prefix.
func ForumKey(community, url string) string {
	return fmt.Sprintf("reddit:%s:%016x", community, xxhash.Sum64String(url))
}

// ForumTokenKey is the cache key for the forum API bearer token. The token
// is cached independently of content and evicted eagerly when the API
// signals an authentication failure.
const ForumTokenKey = "reddit:token"
