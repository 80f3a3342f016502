package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pitwall/f1-stats/internal/domain/etlrun"
)

type ETLRunRepository struct {
	mu    sync.RWMutex
	items map[string]etlrun.Run
}

func NewETLRunRepository() *ETLRunRepository {
	return &ETLRunRepository{items: make(map[string]etlrun.Run)}
}

func (r *ETLRunRepository) Create(_ context.Context, run *etlrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[run.ID]; ok {
		return fmt.Errorf("create etl run id=%s: already exists", run.ID)
	}
	r.items[run.ID] = *run
	return nil
}

func (r *ETLRunRepository) Update(_ context.Context, run *etlrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[run.ID]; !ok {
		return fmt.Errorf("update etl run id=%s: no active row", run.ID)
	}
	r.items[run.ID] = *run
	return nil
}

func (r *ETLRunRepository) GetByID(_ context.Context, id string) (*etlrun.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &run, nil
}

func (r *ETLRunRepository) ListRecent(_ context.Context, limit int) ([]etlrun.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]etlrun.Run, 0, len(r.items))
	for _, run := range r.items {
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
