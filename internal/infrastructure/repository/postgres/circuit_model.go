package postgres

import (
	"database/sql"
	"time"
)

type circuitTableModel struct {
	ID         int64           `db:"id"`
	PublicID   string          `db:"public_id"`
	CircuitRef string          `db:"circuit_ref"`
	Name       string          `db:"name"`
	Locality   string          `db:"locality"`
	Country    string          `db:"country"`
	Latitude   sql.NullFloat64 `db:"latitude"`
	Longitude  sql.NullFloat64 `db:"longitude"`
	URL        string          `db:"url"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
	DeletedAt  *time.Time      `db:"deleted_at"`
}

type circuitInsertModel struct {
	PublicID   string   `db:"public_id"`
	CircuitRef string   `db:"circuit_ref"`
	Name       string   `db:"name"`
	Locality   string   `db:"locality"`
	Country    string   `db:"country"`
	Latitude   *float64 `db:"latitude"`
	Longitude  *float64 `db:"longitude"`
	URL        string   `db:"url"`
}
