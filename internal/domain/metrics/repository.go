package metrics

import "context"

type Repository interface {
	GetDriverMetrics(ctx context.Context, seasonYear int, driverRef string) (*DriverMetrics, error)
	GetConstructorMetrics(ctx context.Context, seasonYear int, constructorRef string) (*ConstructorMetrics, error)
	ListDriverMetricsBySeason(ctx context.Context, seasonYear int) ([]DriverMetrics, error)
	ListConstructorMetricsBySeason(ctx context.Context, seasonYear int) ([]ConstructorMetrics, error)
	ReplaceDriverMetrics(ctx context.Context, seasonYear int, items []DriverMetrics) error
	ReplaceConstructorMetrics(ctx context.Context, seasonYear int, items []ConstructorMetrics) error
}
