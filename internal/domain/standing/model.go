package standing

// DriverStanding is one driver's championship position after a season's
// final completed round.
type DriverStanding struct {
	ID        string
	Season    int     `validate:"required,min=1950"`
	DriverRef string  `validate:"required"`
	Position  int     `validate:"required,min=1"`
	Points    float64 `validate:"min=0"`
	Wins      int     `validate:"min=0"`
	EraTag    string  `validate:"required"`
}

// ConstructorStanding is one constructor's championship position after a
// season's final completed round.
type ConstructorStanding struct {
	ID             string
	Season         int     `validate:"required,min=1950"`
	ConstructorRef string  `validate:"required"`
	Position       int     `validate:"required,min=1"`
	Points         float64 `validate:"min=0"`
	Wins           int     `validate:"min=0"`
	EraTag         string  `validate:"required"`
}
