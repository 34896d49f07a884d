package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/food_orders/internal/models"
)

// Line is one requested (product, quantity) pair.
type Line struct {
	ProductID uuid.UUID
	Quantity  int64
}

type CartLine struct {
	Product   models.Product
	Quantity  int64
	LineTotal int64
}

type ValidatedCart struct {
	Restaurant models.Restaurant
	Lines      []CartLine
	Total      int64
}

// CartValidator checks a cart against current restaurant and product rows.
// It only reads.
type CartValidator struct{}

func (CartValidator) Validate(ctx context.Context, tx Tx, restaurantID uuid.UUID, lines []Line) (*ValidatedCart, error) {
	r, err := tx.GetRestaurant(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRestaurantNotFound, restaurantID)
		}
		return nil, err
	}
	if !r.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrRestaurantInactive, restaurantID)
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}

	products, err := tx.GetProductsForRestaurant(ctx, restaurantID, ids)
	if err != nil {
		return nil, err
	}
	// unknown ids and ids of other restaurants both shrink the result
	if len(products) != len(lines) {
		return nil, fmt.Errorf("%w: requested %d products, %d belong to restaurant %s",
			ErrProductSetMismatch, len(lines), len(products), restaurantID)
	}

	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	cart := &ValidatedCart{Restaurant: *r, Lines: make([]CartLine, 0, len(lines))}
	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %s", ErrProductSetMismatch, l.ProductID)
		}

		// a sold-out product reports stock, a disabled one with stock reports availability
		if !p.IsAvailable && p.Quantity > 0 {
			return nil, &ProductError{Err: ErrProductUnavailable, ProductID: p.ID, ProductName: p.Name, Available: p.Quantity, Requested: l.Quantity}
		}
		if p.Quantity < l.Quantity {
			return nil, &ProductError{Err: ErrInsufficientStock, ProductID: p.ID, ProductName: p.Name, Available: p.Quantity, Requested: l.Quantity}
		}

		lineTotal, ok := mulMinor(p.Price, l.Quantity)
		if !ok || cart.Total > math.MaxInt64-lineTotal {
			return nil, fmt.Errorf("%w: total for product %s overflows", ErrValidation, p.ID)
		}
		cart.Lines = append(cart.Lines, CartLine{Product: p, Quantity: l.Quantity, LineTotal: lineTotal})
		cart.Total += lineTotal
	}

	return cart, nil
}

// mulMinor multiplies two non-negative amounts, reporting false on int64 overflow.
func mulMinor(price, qty int64) (int64, bool) {
	if price < 0 || qty < 0 {
		return 0, false
	}
	hi, lo := bits.Mul64(uint64(price), uint64(qty))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, false
	}
	return int64(lo), true
}
