package circuit

// Circuit is one track, keyed by the canonical ref (e.g. "monza").
type Circuit struct {
	ID        string
	Ref       string `validate:"required,lowercase"`
	Name      string `validate:"required"`
	Locality  string
	Country   string
	Latitude  *float64
	Longitude *float64
	URL       string
}
