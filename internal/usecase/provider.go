package usecase

import (
	"context"

	"github.com/pitwall/f1-stats/internal/domain/rawdata"
)

// StatsProvider fetches motorsport data from the upstream API. Fetches also
// return the verbatim response bodies for raw storage. Implementations wrap
// retryable failures in ErrTransientFetch and report units the upstream does
// not know with ErrNotFound.
type StatsProvider interface {
	FetchSeasonSchedule(ctx context.Context, seasonYear int) ([]ExternalRace, []rawdata.Payload, error)
	FetchRaceResults(ctx context.Context, seasonYear, round int) ([]ExternalResult, []rawdata.Payload, error)
	FetchQualifying(ctx context.Context, seasonYear, round int) ([]ExternalQualifying, []rawdata.Payload, error)
	FetchDriverStandings(ctx context.Context, seasonYear int) ([]ExternalDriverStanding, []rawdata.Payload, error)
	FetchConstructorStandings(ctx context.Context, seasonYear int) ([]ExternalConstructorStanding, []rawdata.Payload, error)
}

// External types mirror the upstream wire format. The upstream serializes
// every number as a string, so coercion is deferred to normalization.

type ExternalRace struct {
	Season  string
	Round   string
	Name    string
	URL     string
	Date    string
	Time    string
	Circuit ExternalCircuit
}

type ExternalCircuit struct {
	Ref      string
	Name     string
	Locality string
	Country  string
	Lat      string
	Long     string
	URL      string
}

type ExternalDriver struct {
	Ref             string
	PermanentNumber string
	Code            string
	GivenName       string
	FamilyName      string
	DateOfBirth     string
	Nationality     string
	URL             string
}

type ExternalConstructor struct {
	Ref         string
	Name        string
	Nationality string
	URL         string
}

type ExternalResult struct {
	Season         string
	Round          string
	Number         string
	Position       string
	PositionText   string
	Points         string
	Grid           string
	Laps           string
	Status         string
	TimeMillis     string
	FastestLapRank string
	Driver         ExternalDriver
	Constructor    ExternalConstructor
}

type ExternalQualifying struct {
	Season      string
	Round       string
	Position    string
	Q1          string
	Q2          string
	Q3          string
	Driver      ExternalDriver
	Constructor ExternalConstructor
}

type ExternalDriverStanding struct {
	Season       string
	Position     string
	PositionText string
	Points       string
	Wins         string
	Driver       ExternalDriver
	Constructors []ExternalConstructor
}

type ExternalConstructorStanding struct {
	Season       string
	Position     string
	PositionText string
	Points       string
	Wins         string
	Constructor  ExternalConstructor
}

// AlertPublisher pushes run outcome notifications to an operator webhook.
type AlertPublisher interface {
	PublishRunAlert(ctx context.Context, alert RunAlert) error
}

type RunAlert struct {
	RunID          string
	Mode           string
	Status         string
	Seasons        []int
	UnitsTotal     int
	UnitsSucceeded int
	UnitsFailed    int
	ErrorSummary   string
}
