package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitwall/f1-stats/internal/domain/qualifying"
	qb "github.com/pitwall/f1-stats/internal/platform/querybuilder"
)

type QualifyingRepository struct {
	db *sqlx.DB
}

func NewQualifyingRepository(db *sqlx.DB) *QualifyingRepository {
	return &QualifyingRepository{db: db}
}

func (r *QualifyingRepository) ListByRace(ctx context.Context, seasonYear, round int) ([]qualifying.Qualifying, error) {
	query, args, err := qb.Select("*").From("qualifying_results").
		Where(
			qb.Eq("season", seasonYear),
			qb.Eq("round", round),
			qb.IsNull("deleted_at"),
		).
		OrderBy("position", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select qualifying by race query: %w", err)
	}

	var rows []qualifyingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select qualifying by race: %w", err)
	}

	out := make([]qualifying.Qualifying, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapQualifyingRow(row))
	}

	return out, nil
}

func (r *QualifyingRepository) ListBySeason(ctx context.Context, seasonYear int) ([]qualifying.Qualifying, error) {
	query, args, err := qb.Select("*").From("qualifying_results").
		Where(
			qb.Eq("season", seasonYear),
			qb.IsNull("deleted_at"),
		).
		OrderBy("round", "position", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select qualifying by season query: %w", err)
	}

	var rows []qualifyingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select qualifying by season: %w", err)
	}

	out := make([]qualifying.Qualifying, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapQualifyingRow(row))
	}

	return out, nil
}

func (r *QualifyingRepository) ReplaceByRace(ctx context.Context, seasonYear, round int, items []qualifying.Qualifying) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return classifyWriteError("begin tx replace qualifying", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("qualifying_results").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("season", seasonYear),
			qb.Eq("round", round),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear qualifying query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return classifyWriteError("clear qualifying", err)
	}

	for _, item := range items {
		insertModel := qualifyingInsertModel{
			PublicID:       item.ID,
			Season:         seasonYear,
			Round:          round,
			DriverRef:      item.DriverRef,
			ConstructorRef: item.ConstructorRef,
			Position:       item.Position,
			Q1:             item.Q1,
			Q2:             item.Q2,
			Q3:             item.Q3,
		}
		query, args, err := qb.InsertModel("qualifying_results", insertModel, `ON CONFLICT (season, round, driver_ref) WHERE deleted_at IS NULL
DO UPDATE SET
    constructor_ref = EXCLUDED.constructor_ref,
    position = EXCLUDED.position,
    q1 = EXCLUDED.q1,
    q2 = EXCLUDED.q2,
    q3 = EXCLUDED.q3,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert qualifying query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return classifyWriteError(fmt.Sprintf("upsert qualifying driver=%s season=%d round=%d", item.DriverRef, seasonYear, round), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return classifyWriteError("commit replace qualifying tx", err)
	}

	return nil
}

func mapQualifyingRow(row qualifyingTableModel) qualifying.Qualifying {
	return qualifying.Qualifying{
		ID:             row.PublicID,
		Season:         row.Season,
		Round:          row.Round,
		DriverRef:      row.DriverRef,
		ConstructorRef: row.ConstructorRef,
		Position:       row.Position,
		Q1:             row.Q1,
		Q2:             row.Q2,
		Q3:             row.Q3,
	}
}
