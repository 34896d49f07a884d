package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404

	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrRestaurantInactive = errors.New("restaurant inactive")
	ErrProductSetMismatch = errors.New("product set mismatch")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidLocation    = errors.New("invalid location")

	// ErrStockRaceLost means a conditional decrement matched no row. It is
	// retried and never reaches the caller.
	ErrStockRaceLost = errors.New("stock race lost")

	ErrTimeout  = errors.New("order placement timed out") // 503
	ErrCanceled = errors.New("order placement canceled")  // 499
	ErrStore    = errors.New("store failure")             // 500
)

// ProductError carries the per-line details of a stock or availability failure.
type ProductError struct {
	Err         error
	ProductID   uuid.UUID
	ProductName string
	Available   int64
	Requested   int64
}

func (e *ProductError) Error() string {
	return fmt.Sprintf("%v: product %s (%q) available=%d requested=%d",
		e.Err, e.ProductID, e.ProductName, e.Available, e.Requested)
}

func (e *ProductError) Unwrap() error { return e.Err }

// IsClientError reports whether err must be fixed by the caller and is never
// retried.
func IsClientError(err error) bool {
	for _, target := range []error{
		ErrValidation,
		ErrNotFound,
		ErrRestaurantNotFound,
		ErrRestaurantInactive,
		ErrProductSetMismatch,
		ErrProductUnavailable,
		ErrInsufficientStock,
		ErrInvalidLocation,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func retryable(err error) bool {
	return errors.Is(err, ErrStockRaceLost) || errors.Is(err, ErrStoreTransient)
}
