// Package id issues opaque public identifiers for stored entities.
package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator issues public IDs. Entities get one at creation so database
// surrogate keys never leak into logs or downstream systems.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator issues random UUIDv4 strings.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (*RandomGenerator) NewID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("new uuid: %w", err)
	}

	return u.String(), nil
}
