package rawdata

import "time"

// Payload is one upstream response body kept verbatim for replay and audit.
type Payload struct {
	Source      string
	Endpoint    string
	EntityKey   string
	Season      int
	Round       *int
	PayloadJSON string
	PayloadHash string
	FetchedAt   time.Time
}
