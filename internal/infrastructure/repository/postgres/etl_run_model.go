package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type etlRunTableModel struct {
	ID             int64         `db:"id"`
	PublicID       string        `db:"public_id"`
	Mode           string        `db:"mode"`
	Seasons        pq.Int64Array `db:"seasons"`
	Status         string        `db:"status"`
	UnitsTotal     int           `db:"units_total"`
	UnitsSucceeded int           `db:"units_succeeded"`
	UnitsFailed    int           `db:"units_failed"`
	ErrorSummary   string        `db:"error_summary"`
	StartedAt      time.Time     `db:"started_at"`
	FinishedAt     sql.NullTime  `db:"finished_at"`
	CreatedAt      time.Time     `db:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at"`
	DeletedAt      *time.Time    `db:"deleted_at"`
}

type etlRunInsertModel struct {
	PublicID       string        `db:"public_id"`
	Mode           string        `db:"mode"`
	Seasons        pq.Int64Array `db:"seasons"`
	Status         string        `db:"status"`
	UnitsTotal     int           `db:"units_total"`
	UnitsSucceeded int           `db:"units_succeeded"`
	UnitsFailed    int           `db:"units_failed"`
	ErrorSummary   string        `db:"error_summary"`
	StartedAt      time.Time     `db:"started_at"`
	FinishedAt     *time.Time    `db:"finished_at"`
}
