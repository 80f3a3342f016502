package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pitwall/f1-stats/internal/domain/qualifying"
)

type QualifyingRepository struct {
	mu    sync.RWMutex
	items map[string][]qualifying.Qualifying
}

func NewQualifyingRepository() *QualifyingRepository {
	return &QualifyingRepository{items: make(map[string][]qualifying.Qualifying)}
}

func (r *QualifyingRepository) ListByRace(_ context.Context, seasonYear, round int) ([]qualifying.Qualifying, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.items[raceKey(seasonYear, round)]
	out := make([]qualifying.Qualifying, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *QualifyingRepository) ListBySeason(_ context.Context, seasonYear int) ([]qualifying.Qualifying, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]qualifying.Qualifying, 0)
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
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (r *QualifyingRepository) ReplaceByRace(_ context.Context, seasonYear, round int, items []qualifying.Qualifying) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make([]qualifying.Qualifying, 0, len(items))
	copied = append(copied, items...)
	r.items[raceKey(seasonYear, round)] = copied
	return nil
}
