package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/pitwall/f1-stats/internal/usecase"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

// classifyWriteError maps driver failures onto the loader's error taxonomy so
// callers can tell natural-key conflicts from infrastructure outages.
func classifyWriteError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "23505" || pqErr.Code == "23503":
			return fmt.Errorf("%w: %s: %v", usecase.ErrLoadConflict, op, err)
		case isUnavailableClass(pqErr.Code.Class()):
			return fmt.Errorf("%w: %s: %v", usecase.ErrStorageUnavailable, op, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if isConnectionFailure(err) {
		return fmt.Errorf("%w: %s: %v", usecase.ErrStorageUnavailable, op, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}

// Class 08 is connection exceptions, 53 insufficient resources, 57 operator
// intervention (shutdown), 58 external system errors.
func isUnavailableClass(class pq.ErrorClass) bool {
	switch class {
	case "08", "53", "57", "58":
		return true
	default:
		return false
	}
}

func isConnectionFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "connection refused") ||
		strings.Contains(text, "connection reset") ||
		strings.Contains(text, "broken pipe")
}
