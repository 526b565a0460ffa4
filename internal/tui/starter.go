package tui

import (
	"context"

	"github.com/slok/unblock/internal/app/unblock"
)

type serviceStarter struct {
	svc *unblock.Service
}

// NewServiceStarter returns a Starter that starts runs using the unblock application service.
func NewServiceStarter(svc *unblock.Service) Starter {
	return serviceStarter{svc: svc}
}

func (s serviceStarter) Start(ctx context.Context, paths []string) (Run, error) {
	r, err := s.svc.Start(ctx, unblock.Request{Paths: paths})
	if err != nil {
		return nil, err
	}
	return r, nil
}
