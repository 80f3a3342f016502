package season

// First is the first world championship season.
const First = 1950

// Season is one world championship year.
type Season struct {
	Year int    `validate:"required,min=1950"`
	URL  string `validate:"omitempty,url"`
}
