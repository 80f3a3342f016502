package race

import "context"

type Repository interface {
	GetBySeasonRound(ctx context.Context, seasonYear, round int) (*Race, error)
	ListBySeason(ctx context.Context, seasonYear int) ([]Race, error)
	Insert(ctx context.Context, item *Race) error
	Update(ctx context.Context, item *Race) error
}
