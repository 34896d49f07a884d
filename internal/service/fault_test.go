package service_test

import (
	"context"

	"github.com/Skotchmaster/food_orders/internal/models"
	"github.com/Skotchmaster/food_orders/internal/service"
)

// faultStore wraps a real store and breaks it in controlled ways.
type faultStore struct {
	service.Store

	createOrderErr error
	stall          bool
	calls          int
}

func (s *faultStore) InTx(ctx context.Context, fn func(tx service.Tx) error) error {
	s.calls++
	return s.Store.InTx(ctx, func(tx service.Tx) error {
		if err := fn(&faultTx{Tx: tx, createOrderErr: s.createOrderErr}); err != nil {
			return err
		}
		if s.stall {
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	})
}

type faultTx struct {
	service.Tx
	createOrderErr error
}

func (t *faultTx) CreateOrder(ctx context.Context, order *models.Order) error {
	if t.createOrderErr != nil {
		return t.createOrderErr
	}
	return t.Tx.CreateOrder(ctx, order)
}
