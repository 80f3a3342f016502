package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitwall/f1-stats/internal/domain/circuit"
	qb "github.com/pitwall/f1-stats/internal/platform/querybuilder"
)

type CircuitRepository struct {
	db *sqlx.DB
}

func NewCircuitRepository(db *sqlx.DB) *CircuitRepository {
	return &CircuitRepository{db: db}
}

func (r *CircuitRepository) GetByRef(ctx context.Context, ref string) (*circuit.Circuit, error) {
	query, args, err := qb.Select("*").From("circuits").
		Where(
			qb.Eq("circuit_ref", ref),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get circuit by ref query: %w", err)
	}

	var row circuitTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get circuit by ref: %w", err)
	}

	out := mapCircuitRow(row)
	return &out, nil
}

func (r *CircuitRepository) Insert(ctx context.Context, item *circuit.Circuit) error {
	insertModel := circuitInsertModel{
		PublicID:   item.ID,
		CircuitRef: item.Ref,
		Name:       item.Name,
		Locality:   item.Locality,
		Country:    item.Country,
		Latitude:   item.Latitude,
		Longitude:  item.Longitude,
		URL:        item.URL,
	}
	query, args, err := qb.InsertModel("circuits", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert circuit query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return classifyWriteError(fmt.Sprintf("insert circuit ref=%s", item.Ref), err)
	}

	return nil
}

func (r *CircuitRepository) Update(ctx context.Context, item *circuit.Circuit) error {
	query, args, err := qb.Update("circuits").
		Set("name", item.Name).
		Set("locality", item.Locality).
		Set("country", item.Country).
		Set("latitude", item.Latitude).
		Set("longitude", item.Longitude).
		Set("url", item.URL).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("circuit_ref", item.Ref),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update circuit query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return classifyWriteError(fmt.Sprintf("update circuit ref=%s", item.Ref), err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update circuit: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update circuit ref=%s: no active row", item.Ref)
	}

	return nil
}

func mapCircuitRow(row circuitTableModel) circuit.Circuit {
	return circuit.Circuit{
		ID:        row.PublicID,
		Ref:       row.CircuitRef,
		Name:      row.Name,
		Locality:  row.Locality,
		Country:   row.Country,
		Latitude:  nullFloatToFloatPtr(row.Latitude),
		Longitude: nullFloatToFloatPtr(row.Longitude),
		URL:       row.URL,
	}
}
