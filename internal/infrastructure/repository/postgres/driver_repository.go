package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pitwall/f1-stats/internal/domain/driver"
	qb "github.com/pitwall/f1-stats/internal/platform/querybuilder"
)

type DriverRepository struct {
	db *sqlx.DB
}

func NewDriverRepository(db *sqlx.DB) *DriverRepository {
	return &DriverRepository{db: db}
}

func (r *DriverRepository) GetByRef(ctx context.Context, ref string) (*driver.Driver, error) {
	query, args, err := qb.Select("*").From("drivers").
		Where(
			qb.Eq("driver_ref", ref),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get driver by ref query: %w", err)
	}

	var row driverTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get driver by ref: %w", err)
	}

	out := mapDriverRow(row)
	return &out, nil
}

func (r *DriverRepository) ListByRefs(ctx context.Context, refs []string) ([]driver.Driver, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	query, args, err := qb.Select("*").From("drivers").
		Where(
			qb.In("driver_ref", stringSliceToAny(refs)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("driver_ref").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select drivers by refs query: %w", err)
	}

	var rows []driverTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select drivers by refs: %w", err)
	}

	out := make([]driver.Driver, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapDriverRow(row))
	}

	return out, nil
}

func (r *DriverRepository) Insert(ctx context.Context, item *driver.Driver) error {
	insertModel := driverInsertModel{
		PublicID:    item.ID,
		DriverRef:   item.Ref,
		Number:      item.Number,
		Code:        item.Code,
		GivenName:   item.GivenName,
		FamilyName:  item.FamilyName,
		DateOfBirth: item.DateOfBirth,
		Nationality: item.Nationality,
		URL:         item.URL,
	}
	query, args, err := qb.InsertModel("drivers", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert driver query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return classifyWriteError(fmt.Sprintf("insert driver ref=%s", item.Ref), err)
	}

	return nil
}

func (r *DriverRepository) Update(ctx context.Context, item *driver.Driver) error {
	query, args, err := qb.Update("drivers").
		Set("number", item.Number).
		Set("code", item.Code).
		Set("given_name", item.GivenName).
		Set("family_name", item.FamilyName).
		Set("date_of_birth", item.DateOfBirth).
		Set("nationality", item.Nationality).
		Set("url", item.URL).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("driver_ref", item.Ref),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update driver query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return classifyWriteError(fmt.Sprintf("update driver ref=%s", item.Ref), err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update driver: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update driver ref=%s: no active row", item.Ref)
	}

	return nil
}

func mapDriverRow(row driverTableModel) driver.Driver {
	return driver.Driver{
		ID:          row.PublicID,
		Ref:         row.DriverRef,
		Number:      nullInt64ToIntPtr(row.Number),
		Code:        row.Code,
		GivenName:   row.GivenName,
		FamilyName:  row.FamilyName,
		DateOfBirth: nullTimeToTimePtr(row.DateOfBirth),
		Nationality: row.Nationality,
		URL:         row.URL,
	}
}

func stringSliceToAny(items []string) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}

func nullInt64ToIntPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}

func nullInt64ToInt64Ptr(value sql.NullInt64) *int64 {
	if !value.Valid {
		return nil
	}
	v := value.Int64
	return &v
}

func nullTimeToTimePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	v := value.Time
	return &v
}

func nullFloatToFloatPtr(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	v := value.Float64
	return &v
}
