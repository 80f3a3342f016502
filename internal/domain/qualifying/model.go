package qualifying

// Qualifying is one driver's grid-setting session result for one race.
// Q2 and Q3 are empty for drivers eliminated in earlier segments and for
// seasons before the three-segment format.
type Qualifying struct {
	ID             string
	Season         int    `validate:"required,min=1950"`
	Round          int    `validate:"required,min=1"`
	DriverRef      string `validate:"required"`
	ConstructorRef string `validate:"required"`
	Position       int    `validate:"required,min=1"`
	Q1             string
	Q2             string
	Q3             string
}
