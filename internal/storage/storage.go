package storage

import (
	"context"

	"github.com/slok/unblock/internal/model"
)

// ConfigRepository is the interface to get the application configuration.
type ConfigRepository interface {
	GetConfig(ctx context.Context, path string) (model.Config, error)
}
