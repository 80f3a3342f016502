package season

import "context"

// Repository exposes season persistence.
type Repository interface {
	GetByYear(ctx context.Context, year int) (*Season, error)
	Upsert(ctx context.Context, item Season) error
}
