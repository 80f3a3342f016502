package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pitwall/f1-stats/internal/domain/result"
)

type ResultRepository struct {
	mu    sync.RWMutex
	items map[string][]result.Result
}

func NewResultRepository() *ResultRepository {
	return &ResultRepository{items: make(map[string][]result.Result)}
}

func (r *ResultRepository) ListByRace(_ context.Context, seasonYear, round int) ([]result.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.items[raceKey(seasonYear, round)]
	out := make([]result.Result, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *ResultRepository) ListBySeason(_ context.Context, seasonYear int) ([]result.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]result.Result, 0)
	for _, items := range r.items {
		for _, item := range items {
			if item.Season == seasonYear {
				out = append(out, item)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].PositionOrder < out[j].PositionOrder
	})
	return out, nil
}

func (r *ResultRepository) ReplaceByRace(_ context.Context, seasonYear, round int, items []result.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make([]result.Result, 0, len(items))
	copied = append(copied, items...)
	r.items[raceKey(seasonYear, round)] = copied
	return nil
}
