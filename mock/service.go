package mock

import (
	"context"

	"github.com/snoai/url2mda"
)

var _ url2mda.Service = (*Service)(nil)

// Service is a mock implementation of url2mda.Service.
type Service struct {
	ConvertFn func(ctx context.Context, req *url2mda.Request) (*url2mda.Batch, error)
}

func (s *Service) Convert(ctx context.Context, req *url2mda.Request) (*url2mda.Batch, error) {
	return s.ConvertFn(ctx, req)
}
