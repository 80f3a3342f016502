package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitwall/f1-stats/internal/domain/alias"
	qb "github.com/pitwall/f1-stats/internal/platform/querybuilder"
)

type AliasRepository struct {
	db *sqlx.DB
}

func NewAliasRepository(db *sqlx.DB) *AliasRepository {
	return &AliasRepository{db: db}
}

func (r *AliasRepository) ListByType(ctx context.Context, entityType string) ([]alias.Alias, error) {
	query, args, err := qb.Select("*").From("entity_aliases").
		Where(
			qb.Eq("entity_type", entityType),
			qb.IsNull("deleted_at"),
		).
		OrderBy("alias_value").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list aliases query: %w", err)
	}

	var rows []aliasTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list aliases: %w", err)
	}

	out := make([]alias.Alias, 0, len(rows))
	for _, row := range rows {
		out = append(out, alias.Alias{
			EntityType:   row.EntityType,
			Value:        row.AliasValue,
			CanonicalRef: row.CanonicalRef,
		})
	}

	return out, nil
}

func (r *AliasRepository) Upsert(ctx context.Context, item alias.Alias) error {
	insertModel := aliasInsertModel{
		EntityType:   item.EntityType,
		AliasValue:   alias.Normalize(item.Value),
		CanonicalRef: item.CanonicalRef,
	}
	query, args, err := qb.InsertModel("entity_aliases", insertModel, `ON CONFLICT (entity_type, alias_value) WHERE deleted_at IS NULL
DO UPDATE SET
    canonical_ref = EXCLUDED.canonical_ref,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert alias query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return classifyWriteError(fmt.Sprintf("upsert alias type=%s value=%s", item.EntityType, item.Value), err)
	}

	return nil
}
