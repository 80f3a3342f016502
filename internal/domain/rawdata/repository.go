package rawdata

import "context"

// Repository persists verbatim upstream payloads for audit and replay.
type Repository interface {
	UpsertMany(ctx context.Context, payloads []Payload) error
}
