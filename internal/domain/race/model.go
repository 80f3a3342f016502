package race

import "time"

// Race is one grand prix on a season's calendar, keyed by season and round.
type Race struct {
	ID         string
	Season     int    `validate:"required,min=1950"`
	Round      int    `validate:"required,min=1"`
	Name       string `validate:"required"`
	CircuitRef string `validate:"required"`
	Date       time.Time
	StartTime  string
	URL        string
}
