package alias

import "strings"

const (
	EntityDriver      = "driver"
	EntityConstructor = "constructor"
	EntityCircuit     = "circuit"
)

// Alias maps a historical or misspelled upstream identifier to the canonical
// ref used across the warehouse, e.g. "alfa" -> "alfa_romeo".
type Alias struct {
	EntityType   string `validate:"required,oneof=driver constructor circuit"`
	Value        string `validate:"required"`
	CanonicalRef string `validate:"required"`
}

// Normalize lowercases and trims an upstream identifier before lookup.
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
