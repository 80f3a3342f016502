package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitwall/f1-stats/internal/domain/result"
	qb "github.com/pitwall/f1-stats/internal/platform/querybuilder"
)

type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) ListByRace(ctx context.Context, seasonYear, round int) ([]result.Result, error) {
	query, args, err := qb.Select("*").From("race_results").
		Where(
			qb.Eq("season", seasonYear),
			qb.Eq("round", round),
			qb.IsNull("deleted_at"),
		).
		OrderBy("position_order", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select results by race query: %w", err)
	}

	var rows []resultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select results by race: %w", err)
	}

	out := make([]result.Result, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapResultRow(row))
	}

	return out, nil
}

func (r *ResultRepository) ListBySeason(ctx context.Context, seasonYear int) ([]result.Result, error) {
	query, args, err := qb.Select("*").From("race_results").
		Where(
			qb.Eq("season", seasonYear),
			qb.IsNull("deleted_at"),
		).
		OrderBy("round", "position_order", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select results by season query: %w", err)
	}

	var rows []resultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select results by season: %w", err)
	}

	out := make([]result.Result, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapResultRow(row))
	}

	return out, nil
}

// ReplaceByRace swaps one race's classification inside a single transaction:
// the current rows are soft deleted, then the new set is inserted. The upsert
// clause only fires when the batch itself repeats a driver.
func (r *ResultRepository) ReplaceByRace(ctx context.Context, seasonYear, round int, items []result.Result) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return classifyWriteError("begin tx replace race results", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("race_results").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("season", seasonYear),
			qb.Eq("round", round),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear race results query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return classifyWriteError("clear race results", err)
	}

	for _, item := range items {
		insertModel := resultInsertModel{
			PublicID:       item.ID,
			Season:         seasonYear,
			Round:          round,
			DriverRef:      item.DriverRef,
			ConstructorRef: item.ConstructorRef,
			Grid:           item.Grid,
			Position:       item.Position,
			PositionText:   item.PositionText,
			PositionOrder:  item.PositionOrder,
			Points:         item.Points,
			Laps:           item.Laps,
			Status:         item.Status,
			TimeMillis:     item.TimeMillis,
			FastestLapRank: item.FastestLapRank,
			EraTag:         item.EraTag,
		}
		query, args, err := qb.InsertModel("race_results", insertModel, `ON CONFLICT (season, round, driver_ref) WHERE deleted_at IS NULL
DO UPDATE SET
    constructor_ref = EXCLUDED.constructor_ref,
    grid = EXCLUDED.grid,
    position = EXCLUDED.position,
    position_text = EXCLUDED.position_text,
    position_order = EXCLUDED.position_order,
    points = EXCLUDED.points,
    laps = EXCLUDED.laps,
    status = EXCLUDED.status,
    time_millis = EXCLUDED.time_millis,
    fastest_lap_rank = EXCLUDED.fastest_lap_rank,
    era_tag = EXCLUDED.era_tag,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert race result query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return classifyWriteError(fmt.Sprintf("upsert race result driver=%s season=%d round=%d", item.DriverRef, seasonYear, round), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return classifyWriteError("commit replace race results tx", err)
	}

	return nil
}

func mapResultRow(row resultTableModel) result.Result {
	return result.Result{
		ID:             row.PublicID,
		Season:         row.Season,
		Round:          row.Round,
		DriverRef:      row.DriverRef,
		ConstructorRef: row.ConstructorRef,
		Grid:           row.Grid,
		Position:       nullInt64ToIntPtr(row.Position),
		PositionText:   row.PositionText,
		PositionOrder:  row.PositionOrder,
		Points:         row.Points,
		Laps:           row.Laps,
		Status:         row.Status,
		TimeMillis:     nullInt64ToInt64Ptr(row.TimeMillis),
		FastestLapRank: nullInt64ToIntPtr(row.FastestLapRank),
		EraTag:         row.EraTag,
	}
}
