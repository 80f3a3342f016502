package postgres

import (
	"database/sql"
	"time"
)

type driverTableModel struct {
	ID          int64         `db:"id"`
	PublicID    string        `db:"public_id"`
	DriverRef   string        `db:"driver_ref"`
	Number      sql.NullInt64 `db:"number"`
	Code        string        `db:"code"`
	GivenName   string        `db:"given_name"`
	FamilyName  string        `db:"family_name"`
	DateOfBirth sql.NullTime  `db:"date_of_birth"`
	Nationality string        `db:"nationality"`
	URL         string        `db:"url"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
	DeletedAt   *time.Time    `db:"deleted_at"`
}

type driverInsertModel struct {
	PublicID    string     `db:"public_id"`
	DriverRef   string     `db:"driver_ref"`
	Number      *int       `db:"number"`
	Code        string     `db:"code"`
	GivenName   string     `db:"given_name"`
	FamilyName  string     `db:"family_name"`
	DateOfBirth *time.Time `db:"date_of_birth"`
	Nationality string     `db:"nationality"`
	URL         string     `db:"url"`
}
