package memory

import (
	"context"
	"sync"

	"github.com/pitwall/f1-stats/internal/domain/alias"
)

type AliasRepository struct {
	mu    sync.RWMutex
	items map[string]alias.Alias
}

func NewAliasRepository(seed []alias.Alias) *AliasRepository {
	items := make(map[string]alias.Alias, len(seed))
	for _, item := range seed {
		items[item.EntityType+"|"+alias.Normalize(item.Value)] = item
	}
	return &AliasRepository{items: items}
}

func (r *AliasRepository) ListByType(_ context.Context, entityType string) ([]alias.Alias, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]alias.Alias, 0)
	for _, item := range r.items {
		if item.EntityType == entityType {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *AliasRepository) Upsert(_ context.Context, item alias.Alias) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.EntityType+"|"+alias.Normalize(item.Value)] = item
	return nil
}
