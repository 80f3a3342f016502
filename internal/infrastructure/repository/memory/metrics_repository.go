package memory

import (
	"context"
	"sync"

	"github.com/pitwall/f1-stats/internal/domain/metrics"
)

type MetricsRepository struct {
	mu           sync.RWMutex
	drivers      map[int][]metrics.DriverMetrics
	constructors map[int][]metrics.ConstructorMetrics
}

func NewMetricsRepository() *MetricsRepository {
	return &MetricsRepository{
		drivers:      make(map[int][]metrics.DriverMetrics),
		constructors: make(map[int][]metrics.ConstructorMetrics),
	}
}

func (r *MetricsRepository) GetDriverMetrics(_ context.Context, seasonYear int, driverRef string) (*metrics.DriverMetrics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.drivers[seasonYear] {
		if item.DriverRef == driverRef {
			found := item
			return &found, nil
		}
	}
	return nil, nil
}

func (r *MetricsRepository) GetConstructorMetrics(_ context.Context, seasonYear int, constructorRef string) (*metrics.ConstructorMetrics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.constructors[seasonYear] {
		if item.ConstructorRef == constructorRef {
			found := item
			return &found, nil
		}
	}
	return nil, nil
}

func (r *MetricsRepository) ListDriverMetricsBySeason(_ context.Context, seasonYear int) ([]metrics.DriverMetrics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.drivers[seasonYear]
	out := make([]metrics.DriverMetrics, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *MetricsRepository) ListConstructorMetricsBySeason(_ context.Context, seasonYear int) ([]metrics.ConstructorMetrics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.constructors[seasonYear]
	out := make([]metrics.ConstructorMetrics, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *MetricsRepository) ReplaceDriverMetrics(_ context.Context, seasonYear int, items []metrics.DriverMetrics) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make([]metrics.DriverMetrics, 0, len(items))
	copied = append(copied, items...)
	r.drivers[seasonYear] = copied
	return nil
}

func (r *MetricsRepository) ReplaceConstructorMetrics(_ context.Context, seasonYear int, items []metrics.ConstructorMetrics) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make([]metrics.ConstructorMetrics, 0, len(items))
	copied = append(copied, items...)
	r.constructors[seasonYear] = copied
	return nil
}
