package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/pitwall/f1-stats/internal/domain/alias"
	"github.com/pitwall/f1-stats/internal/domain/metrics"
	metricsmock "github.com/pitwall/f1-stats/internal/mocks/domain/metrics"
	"github.com/pitwall/f1-stats/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func TestMetricsService_Compare_DriverHeadToHeadUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	metricsRepo := metricsmock.NewRepository(t)

	service := NewMetricsService(metricsRepo, logging.NewNop())

	metricsRepo.
		On("GetDriverMetrics", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), 2019, "vettel").
		Return(&metrics.DriverMetrics{Season: 2019, DriverRef: "vettel", TotalPoints: 240, Wins: 1, Podiums: 9}, nil).
		Once()
	metricsRepo.
		On("GetDriverMetrics", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), 2019, "leclerc").
		Return(&metrics.DriverMetrics{Season: 2019, DriverRef: "leclerc", TotalPoints: 264, Wins: 2, Podiums: 10}, nil).
		Once()
	metricsRepo.
		On("GetDriverMetrics", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), 2020, "vettel").
		Return(&metrics.DriverMetrics{Season: 2020, DriverRef: "vettel", TotalPoints: 33, Wins: 0, Podiums: 1}, nil).
		Once()
	metricsRepo.
		On("GetDriverMetrics", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), 2020, "leclerc").
		Return(&metrics.DriverMetrics{Season: 2020, DriverRef: "leclerc", TotalPoints: 98, Wins: 0, Podiums: 2}, nil).
		Once()

	got, err := service.Compare(ctx, alias.EntityDriver, " Vettel", "leclerc", []int{2020, 2019})
	if err != nil {
		t.Fatalf("compare drivers: %v", err)
	}
	if len(got.Seasons) != 2 || got.Seasons[0] != 2019 || got.Seasons[1] != 2020 {
		t.Fatalf("unexpected seasons: got=%v want=[2019 2020]", got.Seasons)
	}
	if got.A.Ref != "vettel" || got.A.SeasonsWith != 2 {
		t.Fatalf("unexpected side a: got=%+v", got.A)
	}
	if got.A.Points != 273 || got.B.Points != 362 {
		t.Fatalf("unexpected points: got a=%v b=%v want a=273 b=362", got.A.Points, got.B.Points)
	}
	if got.Leader != "leclerc" {
		t.Fatalf("unexpected leader: got=%s want=leclerc", got.Leader)
	}
}

func TestMetricsService_Compare_ConstructorStorageErrorUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	metricsRepo := metricsmock.NewRepository(t)

	service := NewMetricsService(metricsRepo, logging.NewNop())

	metricsRepo.
		On("GetConstructorMetrics", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), 2021, "mercedes").
		Return(nil, ErrStorageUnavailable).
		Once()

	_, err := service.Compare(ctx, alias.EntityConstructor, "Mercedes", "red_bull", []int{2021})
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}
