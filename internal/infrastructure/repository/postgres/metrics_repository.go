package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitwall/f1-stats/internal/domain/metrics"
	qb "github.com/pitwall/f1-stats/internal/platform/querybuilder"
)

type MetricsRepository struct {
	db *sqlx.DB
}

func NewMetricsRepository(db *sqlx.DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

func (r *MetricsRepository) GetDriverMetrics(ctx context.Context, seasonYear int, driverRef string) (*metrics.DriverMetrics, error) {
	query, args, err := qb.Select("*").From("driver_metrics").
		Where(
			qb.Eq("season", seasonYear),
			qb.Eq("driver_ref", driverRef),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get driver metrics query: %w", err)
	}

	var row driverMetricsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get driver metrics: %w", err)
	}

	out := mapDriverMetricsRow(row)
	return &out, nil
}

func (r *MetricsRepository) GetConstructorMetrics(ctx context.Context, seasonYear int, constructorRef string) (*metrics.ConstructorMetrics, error) {
	query, args, err := qb.Select("*").From("constructor_metrics").
		Where(
			qb.Eq("season", seasonYear),
			qb.Eq("constructor_ref", constructorRef),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get constructor metrics query: %w", err)
	}

	var row constructorMetricsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get constructor metrics: %w", err)
	}

	out := mapConstructorMetricsRow(row)
	return &out, nil
}

func (r *MetricsRepository) ListDriverMetricsBySeason(ctx context.Context, seasonYear int) ([]metrics.DriverMetrics, error) {
	query, args, err := qb.Select("*").From("driver_metrics").
		Where(
			qb.Eq("season", seasonYear),
			qb.IsNull("deleted_at"),
		).
		OrderBy("total_points DESC", "wins DESC", "driver_ref").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list driver metrics query: %w", err)
	}

	var rows []driverMetricsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list driver metrics: %w", err)
	}

	out := make([]metrics.DriverMetrics, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapDriverMetricsRow(row))
	}

	return out, nil
}

func (r *MetricsRepository) ListConstructorMetricsBySeason(ctx context.Context, seasonYear int) ([]metrics.ConstructorMetrics, error) {
	query, args, err := qb.Select("*").From("constructor_metrics").
		Where(
			qb.Eq("season", seasonYear),
			qb.IsNull("deleted_at"),
		).
		OrderBy("total_points DESC", "wins DESC", "constructor_ref").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list constructor metrics query: %w", err)
	}

	var rows []constructorMetricsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list constructor metrics: %w", err)
	}

	out := make([]metrics.ConstructorMetrics, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapConstructorMetricsRow(row))
	}

	return out, nil
}

func (r *MetricsRepository) ReplaceDriverMetrics(ctx context.Context, seasonYear int, items []metrics.DriverMetrics) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return classifyWriteError("begin tx replace driver metrics", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("driver_metrics").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("season", seasonYear),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear driver metrics query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return classifyWriteError("clear driver metrics", err)
	}

	for _, item := range items {
		insertModel := driverMetricsInsertModel{
			PublicID:         item.ID,
			Season:           seasonYear,
			DriverRef:        item.DriverRef,
			EraTag:           item.EraTag,
			RacesEntered:     item.RacesEntered,
			RacesFinished:    item.RacesFinished,
			Wins:             item.Wins,
			Podiums:          item.Podiums,
			Poles:            item.Poles,
			DNFCount:         item.DNFCount,
			TotalPoints:      item.TotalPoints,
			AvgFinish:        item.AvgFinish,
			AvgGrid:          item.AvgGrid,
			AvgPointsPerRace: item.AvgPointsPerRace,
			PositionsGained:  item.PositionsGained,
			ConsistencyScore: item.ConsistencyScore,
		}
		query, args, err := qb.InsertModel("driver_metrics", insertModel, `ON CONFLICT (season, driver_ref) WHERE deleted_at IS NULL
DO UPDATE SET
    era_tag = EXCLUDED.era_tag,
    races_entered = EXCLUDED.races_entered,
    races_finished = EXCLUDED.races_finished,
    wins = EXCLUDED.wins,
    podiums = EXCLUDED.podiums,
    poles = EXCLUDED.poles,
    dnf_count = EXCLUDED.dnf_count,
    total_points = EXCLUDED.total_points,
    avg_finish = EXCLUDED.avg_finish,
    avg_grid = EXCLUDED.avg_grid,
    avg_points_per_race = EXCLUDED.avg_points_per_race,
    positions_gained = EXCLUDED.positions_gained,
    consistency_score = EXCLUDED.consistency_score,
    calculated_at = NOW(),
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert driver metrics query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return classifyWriteError(fmt.Sprintf("upsert driver metrics driver=%s season=%d", item.DriverRef, seasonYear), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return classifyWriteError("commit replace driver metrics tx", err)
	}

	return nil
}

func (r *MetricsRepository) ReplaceConstructorMetrics(ctx context.Context, seasonYear int, items []metrics.ConstructorMetrics) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return classifyWriteError("begin tx replace constructor metrics", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("constructor_metrics").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("season", seasonYear),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear constructor metrics query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return classifyWriteError("clear constructor metrics", err)
	}

	for _, item := range items {
		insertModel := constructorMetricsInsertModel{
			PublicID:         item.ID,
			Season:           seasonYear,
			ConstructorRef:   item.ConstructorRef,
			EraTag:           item.EraTag,
			RacesEntered:     item.RacesEntered,
			Wins:             item.Wins,
			Podiums:          item.Podiums,
			Poles:            item.Poles,
			OneTwoFinishes:   item.OneTwoFinishes,
			DoubleDNFs:       item.DoubleDNFs,
			TotalPoints:      item.TotalPoints,
			AvgFinish:        item.AvgFinish,
			AvgPointsPerRace: item.AvgPointsPerRace,
			ReliabilityRate:  item.ReliabilityRate,
		}
		query, args, err := qb.InsertModel("constructor_metrics", insertModel, `ON CONFLICT (season, constructor_ref) WHERE deleted_at IS NULL
DO UPDATE SET
    era_tag = EXCLUDED.era_tag,
    races_entered = EXCLUDED.races_entered,
    wins = EXCLUDED.wins,
    podiums = EXCLUDED.podiums,
    poles = EXCLUDED.poles,
    one_two_finishes = EXCLUDED.one_two_finishes,
    double_dnfs = EXCLUDED.double_dnfs,
    total_points = EXCLUDED.total_points,
    avg_finish = EXCLUDED.avg_finish,
    avg_points_per_race = EXCLUDED.avg_points_per_race,
    reliability_rate = EXCLUDED.reliability_rate,
    calculated_at = NOW(),
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert constructor metrics query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return classifyWriteError(fmt.Sprintf("upsert constructor metrics constructor=%s season=%d", item.ConstructorRef, seasonYear), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return classifyWriteError("commit replace constructor metrics tx", err)
	}

	return nil
}

func mapDriverMetricsRow(row driverMetricsTableModel) metrics.DriverMetrics {
	return metrics.DriverMetrics{
		ID:               row.PublicID,
		Season:           row.Season,
		DriverRef:        row.DriverRef,
		EraTag:           row.EraTag,
		RacesEntered:     row.RacesEntered,
		RacesFinished:    row.RacesFinished,
		Wins:             row.Wins,
		Podiums:          row.Podiums,
		Poles:            row.Poles,
		DNFCount:         row.DNFCount,
		TotalPoints:      row.TotalPoints,
		AvgFinish:        nullFloatToFloatPtr(row.AvgFinish),
		AvgGrid:          nullFloatToFloatPtr(row.AvgGrid),
		AvgPointsPerRace: row.AvgPointsPerRace,
		PositionsGained:  row.PositionsGained,
		ConsistencyScore: nullFloatToFloatPtr(row.ConsistencyScore),
	}
}

func mapConstructorMetricsRow(row constructorMetricsTableModel) metrics.ConstructorMetrics {
	return metrics.ConstructorMetrics{
		ID:               row.PublicID,
		Season:           row.Season,
		ConstructorRef:   row.ConstructorRef,
		EraTag:           row.EraTag,
		RacesEntered:     row.RacesEntered,
		Wins:             row.Wins,
		Podiums:          row.Podiums,
		Poles:            row.Poles,
		OneTwoFinishes:   row.OneTwoFinishes,
		DoubleDNFs:       row.DoubleDNFs,
		TotalPoints:      row.TotalPoints,
		AvgFinish:        nullFloatToFloatPtr(row.AvgFinish),
		AvgPointsPerRace: row.AvgPointsPerRace,
		ReliabilityRate:  nullFloatToFloatPtr(row.ReliabilityRate),
	}
}
