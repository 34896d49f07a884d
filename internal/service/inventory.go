package service

import (
	"bytes"
	"context"
	"slices"
)

// InventoryLedger is the only writer of product stock during placement.
type InventoryLedger struct{}

// Reserve decrements stock for every line in ascending product id order, so
// two carts sharing products always lock them in the same sequence.
func (InventoryLedger) Reserve(ctx context.Context, tx Tx, lines []CartLine) error {
	ordered := slices.Clone(lines)
	slices.SortFunc(ordered, func(a, b CartLine) int {
		return bytes.Compare(a.Product.ID[:], b.Product.ID[:])
	})

	for _, l := range ordered {
		ok, err := tx.DecrementStock(ctx, l.Product.ID, l.Quantity)
		if err != nil {
			return err
		}
		if ok {
			continue
		}

		available, err := tx.GetProductQuantity(ctx, l.Product.ID)
		if err != nil {
			return err
		}
		return &ProductError{
			Err:         ErrStockRaceLost,
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			Available:   available,
			Requested:   l.Quantity,
		}
	}
	return nil
}
