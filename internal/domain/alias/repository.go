package alias

import "context"

type Repository interface {
	ListByType(ctx context.Context, entityType string) ([]Alias, error)
	Upsert(ctx context.Context, item Alias) error
}
