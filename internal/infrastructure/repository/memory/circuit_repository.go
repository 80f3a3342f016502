package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/pitwall/f1-stats/internal/domain/circuit"
)

type CircuitRepository struct {
	mu    sync.RWMutex
	items map[string]circuit.Circuit
}

func NewCircuitRepository() *CircuitRepository {
	return &CircuitRepository{items: make(map[string]circuit.Circuit)}
}

func (r *CircuitRepository) GetByRef(_ context.Context, ref string) (*circuit.Circuit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[ref]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *CircuitRepository) Insert(_ context.Context, item *circuit.Circuit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.Ref] = *item
	return nil
}

func (r *CircuitRepository) Update(_ context.Context, item *circuit.Circuit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.Ref]; !ok {
		return fmt.Errorf("update circuit ref=%s: no active row", item.Ref)
	}
	r.items[item.Ref] = *item
	return nil
}
