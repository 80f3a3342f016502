package postgres

import "time"

type qualifyingTableModel struct {
	ID             int64      `db:"id"`
	PublicID       string     `db:"public_id"`
	Season         int        `db:"season"`
	Round          int        `db:"round"`
	DriverRef      string     `db:"driver_ref"`
	ConstructorRef string     `db:"constructor_ref"`
	Position       int        `db:"position"`
	Q1             string     `db:"q1"`
	Q2             string     `db:"q2"`
	Q3             string     `db:"q3"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

type qualifyingInsertModel struct {
	PublicID       string `db:"public_id"`
	Season         int    `db:"season"`
	Round          int    `db:"round"`
	DriverRef      string `db:"driver_ref"`
	ConstructorRef string `db:"constructor_ref"`
	Position       int    `db:"position"`
	Q1             string `db:"q1"`
	Q2             string `db:"q2"`
	Q3             string `db:"q3"`
}
