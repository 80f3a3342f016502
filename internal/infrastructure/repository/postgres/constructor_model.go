package postgres

import "time"

type constructorTableModel struct {
	ID             int64      `db:"id"`
	PublicID       string     `db:"public_id"`
	ConstructorRef string     `db:"constructor_ref"`
	Name           string     `db:"name"`
	Nationality    string     `db:"nationality"`
	URL            string     `db:"url"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

type constructorInsertModel struct {
	PublicID       string `db:"public_id"`
	ConstructorRef string `db:"constructor_ref"`
	Name           string `db:"name"`
	Nationality    string `db:"nationality"`
	URL            string `db:"url"`
}
