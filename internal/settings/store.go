package settings

import "context"

// Store persists the singleton settings row. Get returns
// sentinel.ErrNotFound when nothing has been saved yet; Save is an upsert.
type Store interface {
	Get(ctx context.Context) (*WindowSettings, error)
	Save(ctx context.Context, s *WindowSettings) error
}
