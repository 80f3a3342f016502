package metrics

// DriverMetrics is one driver's derived season aggregate. Averages over
// finished races are nil when the driver finished nothing that year, and
// ConsistencyScore is nil below two finishes.
type DriverMetrics struct {
	ID               string
	Season           int
	DriverRef        string
	EraTag           string
	RacesEntered     int
	RacesFinished    int
	Wins             int
	Podiums          int
	Poles            int
	DNFCount         int
	TotalPoints      float64
	AvgFinish        *float64
	AvgGrid          *float64
	AvgPointsPerRace float64
	PositionsGained  int
	ConsistencyScore *float64
}

// ConstructorMetrics is one constructor's derived season aggregate.
// ReliabilityRate is the share of entered cars that finished, in percent,
// and is nil when no cars were entered.
type ConstructorMetrics struct {
	ID               string
	Season           int
	ConstructorRef   string
	EraTag           string
	RacesEntered     int
	Wins             int
	Podiums          int
	Poles            int
	OneTwoFinishes   int
	DoubleDNFs       int
	TotalPoints      float64
	AvgFinish        *float64
	AvgPointsPerRace float64
	ReliabilityRate  *float64
}
