package ergast

// Wire types for the Ergast-compatible API. Every response is wrapped in an
// MRData envelope carrying pagination counters as strings.

type mrDataEnvelope struct {
	MRData mrData `json:"MRData"`
}

type mrData struct {
	Series         string          `json:"series"`
	Limit          string          `json:"limit"`
	Offset         string          `json:"offset"`
	Total          string          `json:"total"`
	RaceTable      *raceTable      `json:"RaceTable"`
	StandingsTable *standingsTable `json:"StandingsTable"`
}

type raceTable struct {
	Season string     `json:"season"`
	Round  string     `json:"round"`
	Races  []raceItem `json:"Races"`
}

type raceItem struct {
	Season            string           `json:"season"`
	Round             string           `json:"round"`
	URL               string           `json:"url"`
	RaceName          string           `json:"raceName"`
	Circuit           circuitItem      `json:"Circuit"`
	Date              string           `json:"date"`
	Time              string           `json:"time"`
	Results           []resultItem     `json:"Results"`
	QualifyingResults []qualifyingItem `json:"QualifyingResults"`
}

type circuitItem struct {
	CircuitID string       `json:"circuitId"`
	URL       string       `json:"url"`
	Name      string       `json:"circuitName"`
	Location  locationItem `json:"Location"`
}

type locationItem struct {
	Lat      string `json:"lat"`
	Long     string `json:"long"`
	Locality string `json:"locality"`
	Country  string `json:"country"`
}

type driverItem struct {
	DriverID        string `json:"driverId"`
	PermanentNumber string `json:"permanentNumber"`
	Code            string `json:"code"`
	URL             string `json:"url"`
	GivenName       string `json:"givenName"`
	FamilyName      string `json:"familyName"`
	DateOfBirth     string `json:"dateOfBirth"`
	Nationality     string `json:"nationality"`
}

type constructorItem struct {
	ConstructorID string `json:"constructorId"`
	URL           string `json:"url"`
	Name          string `json:"name"`
	Nationality   string `json:"nationality"`
}

type resultItem struct {
	Number       string          `json:"number"`
	Position     string          `json:"position"`
	PositionText string          `json:"positionText"`
	Points       string          `json:"points"`
	Driver       driverItem      `json:"Driver"`
	Constructor  constructorItem `json:"Constructor"`
	Grid         string          `json:"grid"`
	Laps         string          `json:"laps"`
	Status       string          `json:"status"`
	Time         *resultTime     `json:"Time"`
	FastestLap   *fastestLapItem `json:"FastestLap"`
}

type resultTime struct {
	Millis string `json:"millis"`
	Time   string `json:"time"`
}

type fastestLapItem struct {
	Rank string `json:"rank"`
	Lap  string `json:"lap"`
}

type qualifyingItem struct {
	Number      string          `json:"number"`
	Position    string          `json:"position"`
	Driver      driverItem      `json:"Driver"`
	Constructor constructorItem `json:"Constructor"`
	Q1          string          `json:"Q1"`
	Q2          string          `json:"Q2"`
	Q3          string          `json:"Q3"`
}

type standingsTable struct {
	Season         string          `json:"season"`
	StandingsLists []standingsList `json:"StandingsLists"`
}

type standingsList struct {
	Season               string                    `json:"season"`
	Round                string                    `json:"round"`
	DriverStandings      []driverStandingItem      `json:"DriverStandings"`
	ConstructorStandings []constructorStandingItem `json:"ConstructorStandings"`
}

type driverStandingItem struct {
	Position     string            `json:"position"`
	PositionText string            `json:"positionText"`
	Points       string            `json:"points"`
	Wins         string            `json:"wins"`
	Driver       driverItem        `json:"Driver"`
	Constructors []constructorItem `json:"Constructors"`
}

type constructorStandingItem struct {
	Position     string          `json:"position"`
	PositionText string          `json:"positionText"`
	Points       string          `json:"points"`
	Wins         string          `json:"wins"`
	Constructor  constructorItem `json:"Constructor"`
}
