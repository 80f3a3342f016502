package driver

import "context"

// Repository exposes driver persistence keyed by canonical ref.
type Repository interface {
	GetByRef(ctx context.Context, ref string) (*Driver, error)
	ListByRefs(ctx context.Context, refs []string) ([]Driver, error)
	Insert(ctx context.Context, item *Driver) error
	Update(ctx context.Context, item *Driver) error
}
