package circuit

import "context"

type Repository interface {
	GetByRef(ctx context.Context, ref string) (*Circuit, error)
	Insert(ctx context.Context, item *Circuit) error
	Update(ctx context.Context, item *Circuit) error
}
