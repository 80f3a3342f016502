package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitwall/f1-stats/internal/infrastructure/repository/memory"
)

// BootstrapSeed installs the default alias table on an empty database so the
// normalizer can reconcile historical constructor and circuit spellings from
// the first run onward. Operator-added aliases are never touched.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM entity_aliases WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count entity aliases for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, a := range memory.SeedAliases() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO entity_aliases (entity_type, alias_value, canonical_ref)
VALUES (:entity_type, :alias_value, :canonical_ref)
ON CONFLICT DO NOTHING`, map[string]any{
			"entity_type":   a.EntityType,
			"alias_value":   a.Value,
			"canonical_ref": a.CanonicalRef,
		})
		if err != nil {
			return fmt.Errorf("bind seed alias %s/%s query: %w", a.EntityType, a.Value, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed alias %s/%s: %w", a.EntityType, a.Value, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
