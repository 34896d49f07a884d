package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/Skotchmaster/food_orders/internal/service"
)

// SQLSTATE codes worth another attempt.
var transientCodes = map[string]struct{}{
	"40001": {}, // serialization_failure
	"40P01": {}, // deadlock_detected
	"55P03": {}, // lock_not_available
	"23505": {}, // unique_violation: order_number or a concurrent default location
}

func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		_, ok := transientCodes[pgErr.Code]
		return ok
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		_, ok := transientCodes[string(pqErr.Code)]
		return ok
	}

	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func classify(err error) error {
	if err == nil || errors.Is(err, service.ErrStoreTransient) {
		return err
	}
	if isTransient(err) {
		return fmt.Errorf("%w: %w", service.ErrStoreTransient, err)
	}
	return err
}
