package postgres

import "time"

type aliasTableModel struct {
	ID           int64      `db:"id"`
	EntityType   string     `db:"entity_type"`
	AliasValue   string     `db:"alias_value"`
	CanonicalRef string     `db:"canonical_ref"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type aliasInsertModel struct {
	EntityType   string `db:"entity_type"`
	AliasValue   string `db:"alias_value"`
	CanonicalRef string `db:"canonical_ref"`
}
