package etlrun

import "context"

// Repository exposes run record persistence.
type Repository interface {
	Create(ctx context.Context, run *Run) error
	Update(ctx context.Context, run *Run) error
	GetByID(ctx context.Context, id string) (*Run, error)
	ListRecent(ctx context.Context, limit int) ([]Run, error)
}
