package standing

import "context"

// Repository exposes championship standings persistence. Replace operations
// swap a season's full table atomically.
type Repository interface {
	ListDriverStandings(ctx context.Context, seasonYear int) ([]DriverStanding, error)
	ListConstructorStandings(ctx context.Context, seasonYear int) ([]ConstructorStanding, error)
	ReplaceDriverStandings(ctx context.Context, seasonYear int, items []DriverStanding) error
	ReplaceConstructorStandings(ctx context.Context, seasonYear int, items []ConstructorStanding) error
}
