package driver

import (
	"strings"
	"time"
)

// Driver is one competitor, keyed by the canonical ref (e.g. "hamilton").
type Driver struct {
	ID          string
	Ref         string `validate:"required,lowercase"`
	Number      *int
	Code        string
	GivenName   string `validate:"required"`
	FamilyName  string `validate:"required"`
	DateOfBirth *time.Time
	Nationality string
	URL         string
}

func (d Driver) FullName() string {
	return strings.TrimSpace(d.GivenName + " " + d.FamilyName)
}
