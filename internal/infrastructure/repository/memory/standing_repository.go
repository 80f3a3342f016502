package memory

import (
	"context"
	"sync"

	"github.com/pitwall/f1-stats/internal/domain/standing"
)

type StandingRepository struct {
	mu           sync.RWMutex
	drivers      map[int][]standing.DriverStanding
	constructors map[int][]standing.ConstructorStanding
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{
		drivers:      make(map[int][]standing.DriverStanding),
		constructors: make(map[int][]standing.ConstructorStanding),
	}
}

func (r *StandingRepository) ListDriverStandings(_ context.Context, seasonYear int) ([]standing.DriverStanding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.drivers[seasonYear]
	out := make([]standing.DriverStanding, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *StandingRepository) ListConstructorStandings(_ context.Context, seasonYear int) ([]standing.ConstructorStanding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.constructors[seasonYear]
	out := make([]standing.ConstructorStanding, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *StandingRepository) ReplaceDriverStandings(_ context.Context, seasonYear int, items []standing.DriverStanding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make([]standing.DriverStanding, 0, len(items))
	copied = append(copied, items...)
	r.drivers[seasonYear] = copied
	return nil
}

func (r *StandingRepository) ReplaceConstructorStandings(_ context.Context, seasonYear int, items []standing.ConstructorStanding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make([]standing.ConstructorStanding, 0, len(items))
	copied = append(copied, items...)
	r.constructors[seasonYear] = copied
	return nil
}
