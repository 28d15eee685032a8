package mock

import (
	"context"

	"github.com/snoai/url2mda"
)

var _ url2mda.ForumService = (*ForumService)(nil)

// ForumService is a mock implementation of url2mda.ForumService.
type ForumService struct {
	HotPostsFn func(ctx context.Context, community string, limit int) ([]*url2mda.ForumPost, error)
}

func (s *ForumService) HotPosts(ctx context.Context, community string, limit int) ([]*url2mda.ForumPost, error) {
	return s.HotPostsFn(ctx, community, limit)
}
