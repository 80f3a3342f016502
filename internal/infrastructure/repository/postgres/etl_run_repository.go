package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pitwall/f1-stats/internal/domain/etlrun"
	qb "github.com/pitwall/f1-stats/internal/platform/querybuilder"
)

type ETLRunRepository struct {
	db *sqlx.DB
}

func NewETLRunRepository(db *sqlx.DB) *ETLRunRepository {
	return &ETLRunRepository{db: db}
}

func (r *ETLRunRepository) Create(ctx context.Context, run *etlrun.Run) error {
	insertModel := etlRunInsertModel{
		PublicID:       run.ID,
		Mode:           string(run.Mode),
		Seasons:        pq.Int64Array(run.Seasons),
		Status:         string(run.Status),
		UnitsTotal:     run.UnitsTotal,
		UnitsSucceeded: run.UnitsSucceeded,
		UnitsFailed:    run.UnitsFailed,
		ErrorSummary:   run.ErrorSummary,
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
	}
	query, args, err := qb.InsertModel("etl_runs", insertModel, "")
	if err != nil {
		return fmt.Errorf("build create etl run query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return classifyWriteError(fmt.Sprintf("create etl run id=%s", run.ID), err)
	}

	return nil
}

func (r *ETLRunRepository) Update(ctx context.Context, run *etlrun.Run) error {
	query, args, err := qb.Update("etl_runs").
		Set("status", string(run.Status)).
		Set("seasons", pq.Int64Array(run.Seasons)).
		Set("units_total", run.UnitsTotal).
		Set("units_succeeded", run.UnitsSucceeded).
		Set("units_failed", run.UnitsFailed).
		Set("error_summary", run.ErrorSummary).
		Set("finished_at", run.FinishedAt).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", run.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update etl run query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return classifyWriteError(fmt.Sprintf("update etl run id=%s", run.ID), err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update etl run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update etl run id=%s: no active row", run.ID)
	}

	return nil
}

func (r *ETLRunRepository) GetByID(ctx context.Context, id string) (*etlrun.Run, error) {
	query, args, err := qb.Select("*").From("etl_runs").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get etl run query: %w", err)
	}

	var row etlRunTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get etl run: %w", err)
	}

	out := mapETLRunRow(row)
	return &out, nil
}

func (r *ETLRunRepository) ListRecent(ctx context.Context, limit int) ([]etlrun.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query, args, err := qb.Select("*").From("etl_runs").
		Where(qb.IsNull("deleted_at")).
		OrderBy("started_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list recent etl runs query: %w", err)
	}

	var rows []etlRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list recent etl runs: %w", err)
	}

	out := make([]etlrun.Run, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapETLRunRow(row))
	}

	return out, nil
}

func mapETLRunRow(row etlRunTableModel) etlrun.Run {
	return etlrun.Run{
		ID:             row.PublicID,
		Mode:           etlrun.Mode(row.Mode),
		Seasons:        []int64(row.Seasons),
		Status:         etlrun.Status(row.Status),
		UnitsTotal:     row.UnitsTotal,
		UnitsSucceeded: row.UnitsSucceeded,
		UnitsFailed:    row.UnitsFailed,
		ErrorSummary:   row.ErrorSummary,
		StartedAt:      row.StartedAt,
		FinishedAt:     nullTimeToTimePtr(row.FinishedAt),
	}
}
