package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/food_orders/internal/models"
)

type AssembleInput struct {
	UserID      uuid.UUID
	PhoneNumber string
	Notes       string
	Cart        *ValidatedCart
	Location    *models.Location
	Address     string
}

// OrderAssembler turns a validated cart into a persisted order with
// snapshotted line items.
type OrderAssembler struct {
	Now            func() time.Time
	NewOrderNumber func(time.Time) string
}

func (a OrderAssembler) Assemble(ctx context.Context, tx Tx, in AssembleInput) (*models.Order, error) {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	gen := NewOrderNumber
	if a.NewOrderNumber != nil {
		gen = a.NewOrderNumber
	}

	items := make([]models.OrderItem, 0, len(in.Cart.Lines))
	var total int64
	for i, l := range in.Cart.Lines {
		items = append(items, models.OrderItem{
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			UnitPrice:   l.Product.Price,
			Unit:        l.Product.Unit,
			ImgURL:      l.Product.ImgURL,
			Quantity:    l.Quantity,
			LineTotal:   l.LineTotal,
			Position:    i,
		})
		total += l.LineTotal
	}

	// stores keep microseconds; truncate so the returned order reads back equal
	at := now().UTC().Truncate(time.Microsecond)

	order := &models.Order{
		OrderNumber:     gen(at),
		UserID:          in.UserID,
		RestaurantID:    in.Cart.Restaurant.ID,
		LocationID:      in.Location.ID,
		TotalAmount:     total,
		DeliveryFee:     in.Cart.Restaurant.DeliveryFee,
		Status:          models.OrderStatusPending,
		DeliveryAddress: in.Address,
		PhoneNumber:     in.PhoneNumber,
		Notes:           in.Notes,
		Items:           items,
		CreatedAt:       at,
		UpdatedAt:       at,
	}

	if err := tx.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}
