package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitwall/f1-stats/internal/domain/season"
	qb "github.com/pitwall/f1-stats/internal/platform/querybuilder"
)

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) GetByYear(ctx context.Context, year int) (*season.Season, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(
			qb.Eq("year", year),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get season by year query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get season by year: %w", err)
	}

	return &season.Season{
		Year: row.Year,
		URL:  row.URL,
	}, nil
}

func (r *SeasonRepository) Upsert(ctx context.Context, item season.Season) error {
	insertModel := seasonInsertModel{
		PublicID: fmt.Sprintf("season-%d", item.Year),
		Year:     item.Year,
		URL:      item.URL,
	}
	query, args, err := qb.InsertModel("seasons", insertModel, `ON CONFLICT (year) WHERE deleted_at IS NULL
DO UPDATE SET
    url = EXCLUDED.url,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert season query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return classifyWriteError(fmt.Sprintf("upsert season year=%d", item.Year), err)
	}

	return nil
}
