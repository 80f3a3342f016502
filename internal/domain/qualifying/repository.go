package qualifying

import "context"

type Repository interface {
	ListByRace(ctx context.Context, seasonYear, round int) ([]Qualifying, error)
	ListBySeason(ctx context.Context, seasonYear int) ([]Qualifying, error)
	ReplaceByRace(ctx context.Context, seasonYear, round int, items []Qualifying) error
}
