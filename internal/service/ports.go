package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Skotchmaster/food_orders/internal/models"
)

// ErrStoreTransient is wrapped by Store implementations around failures that
// may succeed on a fresh attempt: deadlocks, serialization failures, lock
// timeouts, busy databases and unique collisions on generated keys.
var ErrStoreTransient = errors.New("transient store error")

// Store is the persistence boundary of the service. Lookups that match no row
// return gorm.ErrRecordNotFound.
type Store interface {
	// InTx runs fn in one database transaction. A non-nil error from fn rolls
	// the transaction back and is returned unchanged.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	GetRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
}

// Tx is the set of reads and writes order placement performs inside one
// transaction.
type Tx interface {
	GetRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	GetProductsForRestaurant(ctx context.Context, restaurantID uuid.UUID, ids []uuid.UUID) ([]models.Product, error)

	// DecrementStock subtracts qty from the product only if at least qty is on
	// hand, and reports whether a row was updated.
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int64) (bool, error)
	GetProductQuantity(ctx context.Context, productID uuid.UUID) (int64, error)

	GetLocation(ctx context.Context, userID, id uuid.UUID) (*models.Location, error)
	ClearDefaultLocations(ctx context.Context, userID uuid.UUID) error
	MarkDefaultLocation(ctx context.Context, loc *models.Location) error
	CreateLocation(ctx context.Context, loc *models.Location) error

	// CreateOrder inserts the order together with its Items.
	CreateOrder(ctx context.Context, order *models.Order) error
}

// Publisher delivers domain events after commit.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}
