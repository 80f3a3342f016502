package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pitwall/f1-stats/internal/domain/rawdata"
	qb "github.com/pitwall/f1-stats/internal/platform/querybuilder"
)

type RawDataRepository struct {
	db *sqlx.DB
}

func NewRawDataRepository(db *sqlx.DB) *RawDataRepository {
	return &RawDataRepository{db: db}
}

func (r *RawDataRepository) UpsertMany(ctx context.Context, items []rawdata.Payload) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return classifyWriteError("begin tx upsert raw payloads", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		insertModel := rawPayloadInsertModel{
			Source:      item.Source,
			Endpoint:    item.Endpoint,
			EntityKey:   item.EntityKey,
			Season:      item.Season,
			Round:       item.Round,
			Payload:     item.PayloadJSON,
			PayloadHash: item.PayloadHash,
			FetchedAt:   item.FetchedAt,
		}

		query, args, err := qb.InsertModel("raw_payloads", insertModel, `ON CONFLICT (source, entity_key) WHERE deleted_at IS NULL
DO UPDATE SET
    endpoint = EXCLUDED.endpoint,
    season = EXCLUDED.season,
    round = EXCLUDED.round,
    payload = EXCLUDED.payload,
    payload_hash = EXCLUDED.payload_hash,
    fetched_at = EXCLUDED.fetched_at,
    ingested_at = NOW(),
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert raw payload query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return classifyWriteError(fmt.Sprintf("upsert raw payload source=%s key=%s", item.Source, item.EntityKey), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return classifyWriteError("commit upsert raw payloads tx", err)
	}

	return nil
}

type rawPayloadInsertModel struct {
	Source      string    `db:"source"`
	Endpoint    string    `db:"endpoint"`
	EntityKey   string    `db:"entity_key"`
	Season      int       `db:"season"`
	Round       *int      `db:"round"`
	Payload     string    `db:"payload"`
	PayloadHash string    `db:"payload_hash"`
	FetchedAt   time.Time `db:"fetched_at"`
}
