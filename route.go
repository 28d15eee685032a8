package url2mda

import (
	"net/url"
	"strings"
)

// Route identifies the extraction strategy for a URL.
type Route int

// Extraction routes. Classification order is most specific first; a failure
// within a route is terminal for that URL and never retried with another
// strategy.
const (
	RouteGeneric Route = iota
	RouteVideo
	RouteTweet
	RouteProfile
	RouteForum
)

// String returns the route name for logging.
func (r Route) String() string {
	switch r {
	case RouteVideo:
		return "video"
	case RouteTweet:
		return "tweet"
	case RouteProfile:
		return "profile"
	case RouteForum:
		return "forum"
	default:
		return "generic"
	}
}

// Classify selects the extraction route for a URL. It is a pure function:
// repeated calls with the same URL always return the same route.
func Classify(rawURL string) Route {
	if strings.Contains(rawURL, "youtube.com/watch") || strings.Contains(rawURL, "youtu.be/") {
		return RouteVideo
	}

	if strings.HasPrefix(rawURL, "https://x.com") || strings.HasPrefix(rawURL, "https://twitter.com") {
		if len(pathSegments(rawURL)) <= 1 {
			return RouteProfile
		}
		return RouteTweet
	}

	if u, err := url.Parse(rawURL); err == nil {
		host := strings.TrimPrefix(u.Hostname(), "www.")
		if (host == "reddit.com" || strings.HasSuffix(host, ".reddit.com")) &&
			strings.HasPrefix(u.Path, "/r/") {
			return RouteForum
		}
	}

	return RouteGeneric
}

// TweetID returns the post identifier for a RouteTweet URL: the trailing
// path segment.
func TweetID(rawURL string) string {
	segs := pathSegments(rawURL)
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// ProfileHandle returns the account handle for a RouteProfile URL, or the
// empty string for a bare domain URL.
func ProfileHandle(rawURL string) string {
	segs := pathSegments(rawURL)
	if len(segs) == 0 {
		return ""
	}
	return segs[0]
}

// Subreddit returns the community name for a RouteForum URL.
func Subreddit(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) < 2 || segs[0] != "r" {
		return ""
	}
	return segs[1]
}

// VideoID returns the video identifier for a RouteVideo URL, supporting
// both watch?v= and short-link shapes. Returns the empty string when no
// identifier can be parsed.
func VideoID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if strings.Contains(u.Host, "youtu.be") {
		return strings.Trim(strings.SplitN(strings.Trim(u.Path, "/"), "/", 2)[0], "/")
	}
	return u.Query().Get("v")
}

func pathSegments(rawURL string) []string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	trimmed := strings.Trim(u.Path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
