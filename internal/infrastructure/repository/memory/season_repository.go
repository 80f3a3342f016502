package memory

import (
	"context"
	"sync"

	"github.com/pitwall/f1-stats/internal/domain/season"
)

type SeasonRepository struct {
	mu    sync.RWMutex
	items map[int]season.Season
}

func NewSeasonRepository() *SeasonRepository {
	return &SeasonRepository{items: make(map[int]season.Season)}
}

func (r *SeasonRepository) GetByYear(_ context.Context, year int) (*season.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[year]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *SeasonRepository) Upsert(_ context.Context, item season.Season) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.Year] = item
	return nil
}
