package postgres

import (
	"database/sql"
	"time"
)

type driverMetricsTableModel struct {
	ID               int64           `db:"id"`
	PublicID         string          `db:"public_id"`
	Season           int             `db:"season"`
	DriverRef        string          `db:"driver_ref"`
	EraTag           string          `db:"era_tag"`
	RacesEntered     int             `db:"races_entered"`
	RacesFinished    int             `db:"races_finished"`
	Wins             int             `db:"wins"`
	Podiums          int             `db:"podiums"`
	Poles            int             `db:"poles"`
	DNFCount         int             `db:"dnf_count"`
	TotalPoints      float64         `db:"total_points"`
	AvgFinish        sql.NullFloat64 `db:"avg_finish"`
	AvgGrid          sql.NullFloat64 `db:"avg_grid"`
	AvgPointsPerRace float64         `db:"avg_points_per_race"`
	PositionsGained  int             `db:"positions_gained"`
	ConsistencyScore sql.NullFloat64 `db:"consistency_score"`
	CalculatedAt     time.Time       `db:"calculated_at"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
	DeletedAt        *time.Time      `db:"deleted_at"`
}

type driverMetricsInsertModel struct {
	PublicID         string   `db:"public_id"`
	Season           int      `db:"season"`
	DriverRef        string   `db:"driver_ref"`
	EraTag           string   `db:"era_tag"`
	RacesEntered     int      `db:"races_entered"`
	RacesFinished    int      `db:"races_finished"`
	Wins             int      `db:"wins"`
	Podiums          int      `db:"podiums"`
	Poles            int      `db:"poles"`
	DNFCount         int      `db:"dnf_count"`
	TotalPoints      float64  `db:"total_points"`
	AvgFinish        *float64 `db:"avg_finish"`
	AvgGrid          *float64 `db:"avg_grid"`
	AvgPointsPerRace float64  `db:"avg_points_per_race"`
	PositionsGained  int      `db:"positions_gained"`
	ConsistencyScore *float64 `db:"consistency_score"`
}

type constructorMetricsTableModel struct {
	ID               int64           `db:"id"`
	PublicID         string          `db:"public_id"`
	Season           int             `db:"season"`
	ConstructorRef   string          `db:"constructor_ref"`
	EraTag           string          `db:"era_tag"`
	RacesEntered     int             `db:"races_entered"`
	Wins             int             `db:"wins"`
	Podiums          int             `db:"podiums"`
	Poles            int             `db:"poles"`
	OneTwoFinishes   int             `db:"one_two_finishes"`
	DoubleDNFs       int             `db:"double_dnfs"`
	TotalPoints      float64         `db:"total_points"`
	AvgFinish        sql.NullFloat64 `db:"avg_finish"`
	AvgPointsPerRace float64         `db:"avg_points_per_race"`
	ReliabilityRate  sql.NullFloat64 `db:"reliability_rate"`
	CalculatedAt     time.Time       `db:"calculated_at"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
	DeletedAt        *time.Time      `db:"deleted_at"`
}

type constructorMetricsInsertModel struct {
	PublicID         string   `db:"public_id"`
	Season           int      `db:"season"`
	ConstructorRef   string   `db:"constructor_ref"`
	EraTag           string   `db:"era_tag"`
	RacesEntered     int      `db:"races_entered"`
	Wins             int      `db:"wins"`
	Podiums          int      `db:"podiums"`
	Poles            int      `db:"poles"`
	OneTwoFinishes   int      `db:"one_two_finishes"`
	DoubleDNFs       int      `db:"double_dnfs"`
	TotalPoints      float64  `db:"total_points"`
	AvgFinish        *float64 `db:"avg_finish"`
	AvgPointsPerRace float64  `db:"avg_points_per_race"`
	ReliabilityRate  *float64 `db:"reliability_rate"`
}
