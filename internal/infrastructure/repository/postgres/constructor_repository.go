package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitwall/f1-stats/internal/domain/constructor"
	qb "github.com/pitwall/f1-stats/internal/platform/querybuilder"
)

type ConstructorRepository struct {
	db *sqlx.DB
}

func NewConstructorRepository(db *sqlx.DB) *ConstructorRepository {
	return &ConstructorRepository{db: db}
}

func (r *ConstructorRepository) GetByRef(ctx context.Context, ref string) (*constructor.Constructor, error) {
	query, args, err := qb.Select("*").From("constructors").
		Where(
			qb.Eq("constructor_ref", ref),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get constructor by ref query: %w", err)
	}

	var row constructorTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get constructor by ref: %w", err)
	}

	out := mapConstructorRow(row)
	return &out, nil
}

func (r *ConstructorRepository) ListByRefs(ctx context.Context, refs []string) ([]constructor.Constructor, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	query, args, err := qb.Select("*").From("constructors").
		Where(
			qb.In("constructor_ref", stringSliceToAny(refs)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("constructor_ref").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select constructors by refs query: %w", err)
	}

	var rows []constructorTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select constructors by refs: %w", err)
	}

	out := make([]constructor.Constructor, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapConstructorRow(row))
	}

	return out, nil
}

func (r *ConstructorRepository) Insert(ctx context.Context, item *constructor.Constructor) error {
	insertModel := constructorInsertModel{
		PublicID:       item.ID,
		ConstructorRef: item.Ref,
		Name:           item.Name,
		Nationality:    item.Nationality,
		URL:            item.URL,
	}
	query, args, err := qb.InsertModel("constructors", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert constructor query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return classifyWriteError(fmt.Sprintf("insert constructor ref=%s", item.Ref), err)
	}

	return nil
}

func (r *ConstructorRepository) Update(ctx context.Context, item *constructor.Constructor) error {
	query, args, err := qb.Update("constructors").
		Set("name", item.Name).
		Set("nationality", item.Nationality).
		Set("url", item.URL).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("constructor_ref", item.Ref),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update constructor query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return classifyWriteError(fmt.Sprintf("update constructor ref=%s", item.Ref), err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update constructor: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update constructor ref=%s: no active row", item.Ref)
	}

	return nil
}

func mapConstructorRow(row constructorTableModel) constructor.Constructor {
	return constructor.Constructor{
		ID:          row.PublicID,
		Ref:         row.ConstructorRef,
		Name:        row.Name,
		Nationality: row.Nationality,
		URL:         row.URL,
	}
}
