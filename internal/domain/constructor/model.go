package constructor

// Constructor is one team entering cars, keyed by the canonical ref
// (e.g. "ferrari").
type Constructor struct {
	ID          string
	Ref         string `validate:"required,lowercase"`
	Name        string `validate:"required"`
	Nationality string
	URL         string
}
