package postgres

import (
	"database/sql"
	"time"
)

type resultTableModel struct {
	ID             int64         `db:"id"`
	PublicID       string        `db:"public_id"`
	Season         int           `db:"season"`
	Round          int           `db:"round"`
	DriverRef      string        `db:"driver_ref"`
	ConstructorRef string        `db:"constructor_ref"`
	Grid           int           `db:"grid"`
	Position       sql.NullInt64 `db:"position"`
	PositionText   string        `db:"position_text"`
	PositionOrder  int           `db:"position_order"`
	Points         float64       `db:"points"`
	Laps           int           `db:"laps"`
	Status         string        `db:"status"`
	TimeMillis     sql.NullInt64 `db:"time_millis"`
	FastestLapRank sql.NullInt64 `db:"fastest_lap_rank"`
	EraTag         string        `db:"era_tag"`
	CreatedAt      time.Time     `db:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at"`
	DeletedAt      *time.Time    `db:"deleted_at"`
}

type resultInsertModel struct {
	PublicID       string  `db:"public_id"`
	Season         int     `db:"season"`
	Round          int     `db:"round"`
	DriverRef      string  `db:"driver_ref"`
	ConstructorRef string  `db:"constructor_ref"`
	Grid           int     `db:"grid"`
	Position       *int    `db:"position"`
	PositionText   string  `db:"position_text"`
	PositionOrder  int     `db:"position_order"`
	Points         float64 `db:"points"`
	Laps           int     `db:"laps"`
	Status         string  `db:"status"`
	TimeMillis     *int64  `db:"time_millis"`
	FastestLapRank *int    `db:"fastest_lap_rank"`
	EraTag         string  `db:"era_tag"`
}
