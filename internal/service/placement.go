package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/food_orders/pkg/logging"
)

type placementState string

const (
	stateValidating placementState = "validating"
	stateReserving  placementState = "reserving"
	statePersisting placementState = "persisting"
	stateCommitted  placementState = "committed"
	stateAborted    placementState = "aborted"
)

const publishTimeout = 3 * time.Second

// PlaceOrder validates the cart, reserves stock, resolves the delivery
// location and writes the order in one transaction. Lost stock races and
// transient store failures restart the whole attempt with backoff; once the
// attempts run out the caller sees ErrInsufficientStock. The call as a whole
// is bounded by Opts.PlacementTimeout.
func (svc *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*PlacedOrder, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	l := logging.FromContext(ctx).With(
		"component", "order.place",
		"user_id", in.UserID,
		"restaurant_id", in.RestaurantID,
	)

	ctx, cancel := context.WithTimeout(ctx, svc.Opts.PlacementTimeout)
	defer cancel()

	var lastErr error
	for attempt := 1; attempt <= svc.Opts.RetryAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepCtx(ctx, backoff(svc.Opts.RetryBaseBackoff, attempt-2)); err != nil {
				l.Warn("place_order_aborted", "state", stateAborted, "attempt", attempt, "reason", "context done during backoff", "ctx_error", err, "error", lastErr)
				return nil, contextFailure(err, lastErr)
			}
		}

		placed, state, err := svc.attempt(ctx, in)
		if err == nil {
			l.Info("place_order_committed", "state", state, "attempt", attempt,
				"order_id", placed.Order.ID, "order_number", placed.Order.OrderNumber)
			svc.publish(ctx, l, placed)
			return placed, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			l.Warn("place_order_aborted", "state", state, "attempt", attempt, "reason", "context done", "ctx_error", ctxErr, "error", err)
			return nil, contextFailure(ctxErr, err)
		}

		if !retryable(err) {
			if IsClientError(err) {
				l.Info("place_order_rejected", "state", state, "attempt", attempt, "error", err)
				return nil, err
			}
			l.Error("place_order_aborted", "state", state, "attempt", attempt, "reason", "store", "error", err)
			return nil, fmt.Errorf("%w: %v", ErrStore, err)
		}

		lastErr = err
		l.Warn("place_order_retry", "state", state, "attempt", attempt, "error", err)
	}

	l.Warn("place_order_aborted", "state", stateAborted, "reason", "retries exhausted", "error", lastErr)
	return nil, exhausted(lastErr)
}

func (svc *OrderService) attempt(ctx context.Context, in PlaceOrderInput) (*PlacedOrder, placementState, error) {
	state := stateValidating
	var placed *PlacedOrder

	err := svc.Store.InTx(ctx, func(tx Tx) error {
		state = stateValidating
		cart, err := svc.Validator.Validate(ctx, tx, in.RestaurantID, in.Lines)
		if err != nil {
			return err
		}

		state = stateReserving
		if err := svc.Ledger.Reserve(ctx, tx, cart.Lines); err != nil {
			return err
		}

		state = statePersisting
		loc, address, err := svc.Locations.Resolve(ctx, tx, in.UserID, in.Location)
		if err != nil {
			return err
		}

		order, err := svc.Assembler.Assemble(ctx, tx, AssembleInput{
			UserID:      in.UserID,
			PhoneNumber: strings.TrimSpace(in.PhoneNumber),
			Notes:       strings.TrimSpace(in.Notes),
			Cart:        cart,
			Location:    loc,
			Address:     address,
		})
		if err != nil {
			return err
		}

		placed = &PlacedOrder{Order: *order, Restaurant: summarize(&cart.Restaurant)}
		return nil
	})
	if err != nil {
		return nil, state, err
	}
	return placed, stateCommitted, nil
}

// publish never fails the placement; the order is already committed.
func (svc *OrderService) publish(ctx context.Context, l *slog.Logger, placed *PlacedOrder) {
	if svc.Publisher == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := svc.Publisher.PublishEvent(pubCtx, svc.Opts.EventsTopic, placed.Order.ID.String(), newOrderPlacedEvent(placed)); err != nil {
		l.Error("publish_event_error", "event", EventOrderPlaced, "order_id", placed.Order.ID, "error", err)
	}
}

func validateInput(in PlaceOrderInput) error {
	if in.UserID == uuid.Nil {
		return fmt.Errorf("%w: user_id required", ErrValidation)
	}
	if in.RestaurantID == uuid.Nil {
		return fmt.Errorf("%w: restaurant_id required", ErrValidation)
	}
	if strings.TrimSpace(in.PhoneNumber) == "" {
		return fmt.Errorf("%w: phone_number required", ErrValidation)
	}
	if len(in.Lines) == 0 {
		return fmt.Errorf("%w: items required", ErrValidation)
	}

	seen := make(map[uuid.UUID]struct{}, len(in.Lines))
	for _, line := range in.Lines {
		if line.ProductID == uuid.Nil {
			return fmt.Errorf("%w: product_id required", ErrValidation)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
		if _, dup := seen[line.ProductID]; dup {
			return fmt.Errorf("%w: product %s listed twice", ErrValidation, line.ProductID)
		}
		seen[line.ProductID] = struct{}{}
	}
	return nil
}

func contextFailure(ctxErr, cause error) error {
	if cause == nil {
		cause = ctxErr
	}
	if errors.Is(ctxErr, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, cause)
	}
	return fmt.Errorf("%w: %w", ErrCanceled, ctxErr)
}

// exhausted reports a lost race the same way as genuine scarcity.
func exhausted(lastErr error) error {
	var pe *ProductError
	if errors.As(lastErr, &pe) {
		return &ProductError{
			Err:         ErrInsufficientStock,
			ProductID:   pe.ProductID,
			ProductName: pe.ProductName,
			Available:   pe.Available,
			Requested:   pe.Requested,
		}
	}
	return fmt.Errorf("%w: retries exhausted: %v", ErrInsufficientStock, lastErr)
}
