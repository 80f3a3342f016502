package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pitwall/f1-stats/internal/domain/constructor"
)

type ConstructorRepository struct {
	mu    sync.RWMutex
	items map[string]constructor.Constructor
}

func NewConstructorRepository() *ConstructorRepository {
	return &ConstructorRepository{items: make(map[string]constructor.Constructor)}
}

func (r *ConstructorRepository) GetByRef(_ context.Context, ref string) (*constructor.Constructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[ref]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *ConstructorRepository) ListByRefs(_ context.Context, refs []string) ([]constructor.Constructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]constructor.Constructor, 0, len(refs))
	for _, ref := range refs {
		if item, ok := r.items[ref]; ok {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ref < out[j].Ref })
	return out, nil
}

func (r *ConstructorRepository) Insert(_ context.Context, item *constructor.Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.Ref] = *item
	return nil
}

func (r *ConstructorRepository) Update(_ context.Context, item *constructor.Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.Ref]; !ok {
		return fmt.Errorf("update constructor ref=%s: no active row", item.Ref)
	}
	r.items[item.Ref] = *item
	return nil
}
