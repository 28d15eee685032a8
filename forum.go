package url2mda

import (
	"context"
	"time"
)

// ForumPost is one listing entry from a community forum.
type ForumPost struct {
	Title       string
	Author      string
	Score       int
	NumComments int
	Created     time.Time
	SelfText    string
	URL         string // external link target, may equal the permalink
	Permalink   string // site-relative permalink
}

// ForumService lists hot posts for a community. Implementations try an
// unauthenticated public endpoint first and fall back to an authenticated
// call when the public endpoint signals rate limiting; an authentication
// failure on the fallback returns an EUNAUTHORIZED error without retrying
// in the same call.
type ForumService interface {
	HotPosts(ctx context.Context, community string, limit int) ([]*ForumPost, error)
}
