package usecase

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("resource not found")
	ErrTransientFetch     = errors.New("transient fetch failure")
	ErrMalformedPayload   = errors.New("malformed upstream payload")
	ErrLoadConflict       = errors.New("load conflict")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
