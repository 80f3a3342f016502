package result

import "context"

// Repository exposes race result persistence. ReplaceByRace swaps the full
// classification of one race atomically.
type Repository interface {
	ListByRace(ctx context.Context, seasonYear, round int) ([]Result, error)
	ListBySeason(ctx context.Context, seasonYear int) ([]Result, error)
	ReplaceByRace(ctx context.Context, seasonYear, round int, items []Result) error
}
