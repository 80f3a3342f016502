package etlrun

import (
	"fmt"
	"time"
)

type Mode string

const (
	ModeSeason      Mode = "season"
	ModeIncremental Mode = "incremental"
	ModeBackfill    Mode = "backfill"
)

type Status string

const (
	StatusRunning Status = "RUNNING"
	StatusSuccess Status = "SUCCESS"
	StatusPartial Status = "PARTIAL"
	StatusFailed  Status = "FAILED"
)

// Run records one pipeline invocation and its outcome.
type Run struct {
	ID             string
	Mode           Mode
	Seasons        []int64
	Status         Status
	UnitsTotal     int
	UnitsSucceeded int
	UnitsFailed    int
	ErrorSummary   string
	StartedAt      time.Time
	FinishedAt     *time.Time
}

// UnitState tracks one unit of work through the pipeline stages.
type UnitState string

const (
	UnitPending      UnitState = "PENDING"
	UnitExtracting   UnitState = "EXTRACTING"
	UnitTransforming UnitState = "TRANSFORMING"
	UnitLoading      UnitState = "LOADING"
	UnitDone         UnitState = "DONE"
	UnitFailed       UnitState = "FAILED"
)

var unitTransitions = map[UnitState][]UnitState{
	UnitPending:      {UnitExtracting},
	UnitExtracting:   {UnitTransforming, UnitDone, UnitFailed},
	UnitTransforming: {UnitLoading, UnitFailed},
	UnitLoading:      {UnitDone, UnitFailed},
}

// Transition validates a unit state change and returns the new state.
// EXTRACTING may move straight to DONE when the upstream has no data for the
// unit. DONE and FAILED are terminal.
func Transition(from, to UnitState) (UnitState, error) {
	for _, next := range unitTransitions[from] {
		if next == to {
			return to, nil
		}
	}

	return from, fmt.Errorf("invalid unit transition %s -> %s", from, to)
}
