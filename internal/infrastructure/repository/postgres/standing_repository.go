package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitwall/f1-stats/internal/domain/standing"
	qb "github.com/pitwall/f1-stats/internal/platform/querybuilder"
)

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

func (r *StandingRepository) ListDriverStandings(ctx context.Context, seasonYear int) ([]standing.DriverStanding, error) {
	query, args, err := qb.Select("*").From("driver_standings").
		Where(
			qb.Eq("season", seasonYear),
			qb.IsNull("deleted_at"),
		).
		OrderBy("position", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list driver standings query: %w", err)
	}

	var rows []driverStandingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list driver standings: %w", err)
	}

	out := make([]standing.DriverStanding, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.DriverStanding{
			ID:        row.PublicID,
			Season:    row.Season,
			DriverRef: row.DriverRef,
			Position:  row.Position,
			Points:    row.Points,
			Wins:      row.Wins,
			EraTag:    row.EraTag,
		})
	}

	return out, nil
}

func (r *StandingRepository) ListConstructorStandings(ctx context.Context, seasonYear int) ([]standing.ConstructorStanding, error) {
	query, args, err := qb.Select("*").From("constructor_standings").
		Where(
			qb.Eq("season", seasonYear),
			qb.IsNull("deleted_at"),
		).
		OrderBy("position", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list constructor standings query: %w", err)
	}

	var rows []constructorStandingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list constructor standings: %w", err)
	}

	out := make([]standing.ConstructorStanding, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.ConstructorStanding{
			ID:             row.PublicID,
			Season:         row.Season,
			ConstructorRef: row.ConstructorRef,
			Position:       row.Position,
			Points:         row.Points,
			Wins:           row.Wins,
			EraTag:         row.EraTag,
		})
	}

	return out, nil
}

func (r *StandingRepository) ReplaceDriverStandings(ctx context.Context, seasonYear int, items []standing.DriverStanding) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return classifyWriteError("begin tx replace driver standings", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("driver_standings").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("season", seasonYear),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear driver standings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return classifyWriteError("clear driver standings", err)
	}

	for _, item := range items {
		insertModel := driverStandingInsertModel{
			PublicID:  item.ID,
			Season:    seasonYear,
			DriverRef: item.DriverRef,
			Position:  item.Position,
			Points:    item.Points,
			Wins:      item.Wins,
			EraTag:    item.EraTag,
		}
		query, args, err := qb.InsertModel("driver_standings", insertModel, `ON CONFLICT (season, driver_ref) WHERE deleted_at IS NULL
DO UPDATE SET
    position = EXCLUDED.position,
    points = EXCLUDED.points,
    wins = EXCLUDED.wins,
    era_tag = EXCLUDED.era_tag,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert driver standing query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return classifyWriteError(fmt.Sprintf("upsert driver standing driver=%s season=%d", item.DriverRef, seasonYear), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return classifyWriteError("commit replace driver standings tx", err)
	}

	return nil
}

func (r *StandingRepository) ReplaceConstructorStandings(ctx context.Context, seasonYear int, items []standing.ConstructorStanding) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return classifyWriteError("begin tx replace constructor standings", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("constructor_standings").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("season", seasonYear),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear constructor standings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return classifyWriteError("clear constructor standings", err)
	}

	for _, item := range items {
		insertModel := constructorStandingInsertModel{
			PublicID:       item.ID,
			Season:         seasonYear,
			ConstructorRef: item.ConstructorRef,
			Position:       item.Position,
			Points:         item.Points,
			Wins:           item.Wins,
			EraTag:         item.EraTag,
		}
		query, args, err := qb.InsertModel("constructor_standings", insertModel, `ON CONFLICT (season, constructor_ref) WHERE deleted_at IS NULL
DO UPDATE SET
    position = EXCLUDED.position,
    points = EXCLUDED.points,
    wins = EXCLUDED.wins,
    era_tag = EXCLUDED.era_tag,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert constructor standing query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return classifyWriteError(fmt.Sprintf("upsert constructor standing constructor=%s season=%d", item.ConstructorRef, seasonYear), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return classifyWriteError("commit replace constructor standings tx", err)
	}

	return nil
}
