package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/food_orders/internal/models"
)

type Options struct {
	RetryAttempts    int
	RetryBaseBackoff time.Duration
	PlacementTimeout time.Duration
	EventsTopic      string
}

func (o Options) withDefaults() Options {
	if o.RetryAttempts < 1 {
		o.RetryAttempts = 3
	}
	if o.RetryBaseBackoff < 0 {
		o.RetryBaseBackoff = 0
	}
	if o.PlacementTimeout <= 0 {
		o.PlacementTimeout = 5 * time.Second
	}
	if o.EventsTopic == "" {
		o.EventsTopic = "order_events"
	}
	return o
}

type OrderService struct {
	Store     Store
	Publisher Publisher
	Opts      Options

	Validator CartValidator
	Ledger    InventoryLedger
	Locations LocationResolver
	Assembler OrderAssembler
}

// NewOrderService wires the placement components around store. pub may be
// nil, in which case no events are published.
func NewOrderService(store Store, pub Publisher, opts Options) *OrderService {
	return &OrderService{
		Store:     store,
		Publisher: pub,
		Opts:      opts.withDefaults(),
	}
}

type PlaceOrderInput struct {
	UserID       uuid.UUID
	RestaurantID uuid.UUID
	PhoneNumber  string
	Notes        string
	Lines        []Line
	Location     LocationInput
}

type RestaurantSummary struct {
	ID   uuid.UUID
	Name string
}

type PlacedOrder struct {
	Order      models.Order
	Restaurant RestaurantSummary
}

func summarize(r *models.Restaurant) RestaurantSummary {
	return RestaurantSummary{ID: r.ID, Name: r.Name}
}

// GetOrder reads an order back for its owner. Orders of other users are
// reported as not found.
func (svc *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*PlacedOrder, error) {
	order, err := svc.Store.GetOrder(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	r, err := svc.Store.GetRestaurant(ctx, order.RestaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &PlacedOrder{Order: *order, Restaurant: RestaurantSummary{ID: order.RestaurantID}}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	return &PlacedOrder{Order: *order, Restaurant: summarize(r)}, nil
}
