package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pitwall/f1-stats/internal/domain/race"
)

type RaceRepository struct {
	mu    sync.RWMutex
	items map[string]race.Race
}

func NewRaceRepository() *RaceRepository {
	return &RaceRepository{items: make(map[string]race.Race)}
}

func raceKey(seasonYear, round int) string {
	return fmt.Sprintf("%d-%d", seasonYear, round)
}

func (r *RaceRepository) GetBySeasonRound(_ context.Context, seasonYear, round int) (*race.Race, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[raceKey(seasonYear, round)]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *RaceRepository) ListBySeason(_ context.Context, seasonYear int) ([]race.Race, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]race.Race, 0)
	for _, item := range r.items {
		if item.Season == seasonYear {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Round < out[j].Round })
	return out, nil
}

func (r *RaceRepository) Insert(_ context.Context, item *race.Race) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[raceKey(item.Season, item.Round)] = *item
	return nil
}

func (r *RaceRepository) Update(_ context.Context, item *race.Race) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := raceKey(item.Season, item.Round)
	if _, ok := r.items[key]; !ok {
		return fmt.Errorf("update race season=%d round=%d: no active row", item.Season, item.Round)
	}
	r.items[key] = *item
	return nil
}
