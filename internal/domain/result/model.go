package result

// Result is one car's classification in one race. Position is nil when the
// car was not classified (retired, disqualified, did not start).
type Result struct {
	ID             string
	Season         int    `validate:"required,min=1950"`
	Round          int    `validate:"required,min=1"`
	DriverRef      string `validate:"required"`
	ConstructorRef string `validate:"required"`
	Grid           int    `validate:"min=0"`
	Position       *int
	PositionText   string  `validate:"required"`
	PositionOrder  int     `validate:"required,min=1"`
	Points         float64 `validate:"min=0"`
	Laps           int     `validate:"min=0"`
	Status         string
	TimeMillis     *int64
	FastestLapRank *int
	EraTag         string `validate:"required"`
}

// Finished reports whether the car was classified with a numeric position.
func (r Result) Finished() bool {
	return r.Position != nil
}
