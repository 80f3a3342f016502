package memory

import (
	"context"
	"sync"

	"github.com/pitwall/f1-stats/internal/domain/rawdata"
)

type RawDataRepository struct {
	mu    sync.RWMutex
	items map[string]rawdata.Payload
}

func NewRawDataRepository() *RawDataRepository {
	return &RawDataRepository{items: make(map[string]rawdata.Payload)}
}

func (r *RawDataRepository) UpsertMany(_ context.Context, items []rawdata.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.items[item.Source+"|"+item.EntityKey] = item
	}
	return nil
}

// Stored reports how many distinct payload keys have been kept.
func (r *RawDataRepository) Stored() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}
