package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_orders/internal/idempotency"
	"github.com/Skotchmaster/food_orders/internal/service"
	"github.com/Skotchmaster/food_orders/internal/transport"
	"github.com/Skotchmaster/food_orders/pkg/logging"
	middleware "github.com/Skotchmaster/food_orders/pkg/middleware/auth"
)

const HeaderIdempotencyKey = "Idempotency-Key"

type IdempotencyStore interface {
	Begin(ctx context.Context, userID uuid.UUID, key string) (idempotency.State, uuid.UUID, error)
	Complete(ctx context.Context, userID uuid.UUID, key string, orderID uuid.UUID) error
	Release(ctx context.Context, userID uuid.UUID, key string) error
}

type OrderHTTP struct {
	Svc *service.OrderService
	// Idem is optional; without it Idempotency-Key headers are ignored.
	Idem IdempotencyStore
}

func (h *OrderHTTP) GetID(c echo.Context) (uuid.UUID, error) {
	s, ok := c.Get(middleware.ContextUserID).(string)
	if !ok || s == "" {
		return uuid.Nil, errors.New("unauthorized")
	}

	userID, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.New("unauthorized")
	}

	return userID, nil
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	userID, err := h.GetID(c)
	if err != nil {
		l.Warn("create_order_error", "status", 401, "reason", "unauthorized", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	key := strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey))
	if h.Idem == nil {
		key = ""
	}

	if key != "" {
		state, orderID, err := h.Idem.Begin(ctx, userID, key)
		if err != nil {
			l.Error("create_order_error", "status", 503, "reason", "idempotency store", "error", err)
			return echo.NewHTTPError(http.StatusServiceUnavailable, "try again later")
		}

		switch state {
		case idempotency.StateInFlight:
			l.Warn("create_order_error", "status", 409, "reason", "duplicate in flight", "idempotency_key", key)
			return echo.NewHTTPError(http.StatusConflict, "request with this Idempotency-Key is in progress")
		case idempotency.StateDone:
			placed, err := h.Svc.GetOrder(ctx, userID, orderID)
			if err != nil {
				return orderError(c, l, "create_order_error", err)
			}
			l.Info("create_order_replayed", "order_id", orderID, "idempotency_key", key)
			return c.JSON(http.StatusOK, transport.NewOrderResponse(placed))
		}
	}

	placed, err := h.Svc.PlaceOrder(ctx, req.ToInput(userID))
	if err != nil {
		if key != "" {
			if relErr := h.Idem.Release(context.WithoutCancel(ctx), userID, key); relErr != nil {
				l.Error("idempotency_release_error", "idempotency_key", key, "error", relErr)
			}
		}
		return orderError(c, l, "create_order_error", err)
	}

	if key != "" {
		if err := h.Idem.Complete(context.WithoutCancel(ctx), userID, key, placed.Order.ID); err != nil {
			l.Error("idempotency_complete_error", "idempotency_key", key, "order_id", placed.Order.ID, "error", err)
		}
	}

	l.Info("create_order_success", "order_id", placed.Order.ID, "order_number", placed.Order.OrderNumber)
	return c.JSON(http.StatusCreated, transport.NewOrderResponse(placed))
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	userID, err := h.GetID(c)
	if err != nil {
		l.Warn("get_order_error", "status", 401, "reason", "unauthorized", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_order_error", "status", 400, "reason", "invalid id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	placed, err := h.Svc.GetOrder(ctx, userID, orderID)
	if err != nil {
		return orderError(c, l, "get_order_error", err)
	}

	l.Info("get_order_success", "order_id", orderID)
	return c.JSON(http.StatusOK, transport.NewOrderResponse(placed))
}
