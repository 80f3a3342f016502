package postgres

import "time"

type driverStandingTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Season    int        `db:"season"`
	DriverRef string     `db:"driver_ref"`
	Position  int        `db:"position"`
	Points    float64    `db:"points"`
	Wins      int        `db:"wins"`
	EraTag    string     `db:"era_tag"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type driverStandingInsertModel struct {
	PublicID  string  `db:"public_id"`
	Season    int     `db:"season"`
	DriverRef string  `db:"driver_ref"`
	Position  int     `db:"position"`
	Points    float64 `db:"points"`
	Wins      int     `db:"wins"`
	EraTag    string  `db:"era_tag"`
}

type constructorStandingTableModel struct {
	ID             int64      `db:"id"`
	PublicID       string     `db:"public_id"`
	Season         int        `db:"season"`
	ConstructorRef string     `db:"constructor_ref"`
	Position       int        `db:"position"`
	Points         float64    `db:"points"`
	Wins           int        `db:"wins"`
	EraTag         string     `db:"era_tag"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

type constructorStandingInsertModel struct {
	PublicID       string  `db:"public_id"`
	Season         int     `db:"season"`
	ConstructorRef string  `db:"constructor_ref"`
	Position       int     `db:"position"`
	Points         float64 `db:"points"`
	Wins           int     `db:"wins"`
	EraTag         string  `db:"era_tag"`
}
