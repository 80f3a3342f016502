package postgres

import "time"

type raceTableModel struct {
	ID         int64      `db:"id"`
	PublicID   string     `db:"public_id"`
	Season     int        `db:"season"`
	Round      int        `db:"round"`
	Name       string     `db:"name"`
	CircuitRef string     `db:"circuit_ref"`
	RaceDate   time.Time  `db:"race_date"`
	StartTime  string     `db:"start_time"`
	URL        string     `db:"url"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

type raceInsertModel struct {
	PublicID   string    `db:"public_id"`
	Season     int       `db:"season"`
	Round      int       `db:"round"`
	Name       string    `db:"name"`
	CircuitRef string    `db:"circuit_ref"`
	RaceDate   time.Time `db:"race_date"`
	StartTime  string    `db:"start_time"`
	URL        string    `db:"url"`
}
