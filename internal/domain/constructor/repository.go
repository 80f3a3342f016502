package constructor

import "context"

type Repository interface {
	GetByRef(ctx context.Context, ref string) (*Constructor, error)
	ListByRefs(ctx context.Context, refs []string) ([]Constructor, error)
	Insert(ctx context.Context, item *Constructor) error
	Update(ctx context.Context, item *Constructor) error
}
