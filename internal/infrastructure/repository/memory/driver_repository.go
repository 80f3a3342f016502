package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pitwall/f1-stats/internal/domain/driver"
)

type DriverRepository struct {
	mu    sync.RWMutex
	items map[string]driver.Driver
}

func NewDriverRepository() *DriverRepository {
	return &DriverRepository{items: make(map[string]driver.Driver)}
}

func (r *DriverRepository) GetByRef(_ context.Context, ref string) (*driver.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[ref]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *DriverRepository) ListByRefs(_ context.Context, refs []string) ([]driver.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]driver.Driver, 0, len(refs))
	for _, ref := range refs {
		if item, ok := r.items[ref]; ok {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ref < out[j].Ref })
	return out, nil
}

func (r *DriverRepository) Insert(_ context.Context, item *driver.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.Ref] = *item
	return nil
}

func (r *DriverRepository) Update(_ context.Context, item *driver.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.Ref]; !ok {
		return fmt.Errorf("update driver ref=%s: no active row", item.Ref)
	}
	r.items[item.Ref] = *item
	return nil
}
