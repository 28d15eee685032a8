package mock

import (
	"context"

	"github.com/snoai/url2mda"
)

var _ url2mda.TweetService = (*TweetService)(nil)

// TweetService is a mock implementation of url2mda.TweetService.
type TweetService struct {
	TweetFn func(ctx context.Context, id string) (*url2mda.Tweet, error)
}

func (s *TweetService) Tweet(ctx context.Context, id string) (*url2mda.Tweet, error) {
	return s.TweetFn(ctx, id)
}
