package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_orders/internal/service"
	"github.com/Skotchmaster/food_orders/internal/transport"
)

// statusClientClosedRequest is nginx's code for a client that went away.
const statusClientClosedRequest = 499

// orderError maps a service error onto a response and logs it under event.
// Product-level failures carry the product and quantities in the body.
func orderError(c echo.Context, l *slog.Logger, event string, err error) error {
	var pe *service.ProductError

	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")

	case errors.Is(err, service.ErrInvalidLocation):
		l.Warn(event, "status", 400, "reason", "invalid location", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid location")

	case errors.Is(err, service.ErrRestaurantNotFound):
		l.Warn(event, "status", 404, "reason", "restaurant not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "restaurant not found")

	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", "not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "not found")

	case errors.Is(err, service.ErrRestaurantInactive):
		l.Warn(event, "status", 409, "reason", "restaurant inactive", "error", err)
		return echo.NewHTTPError(http.StatusConflict, "restaurant is not accepting orders")

	case errors.Is(err, service.ErrProductSetMismatch):
		l.Warn(event, "status", 422, "reason", "product set mismatch", "error", err)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "products do not belong to restaurant")

	case errors.As(err, &pe) && errors.Is(err, service.ErrProductUnavailable):
		l.Warn(event, "status", 409, "reason", "product unavailable", "product_id", pe.ProductID, "error", err)
		return c.JSON(http.StatusConflict, transport.NewProductErrorResponse("product unavailable", pe))

	case errors.As(err, &pe) && errors.Is(err, service.ErrInsufficientStock):
		l.Warn(event, "status", 409, "reason", "insufficient stock", "product_id", pe.ProductID, "error", err)
		return c.JSON(http.StatusConflict, transport.NewProductErrorResponse("insufficient stock", pe))

	case errors.Is(err, service.ErrInsufficientStock):
		l.Warn(event, "status", 409, "reason", "insufficient stock", "error", err)
		return echo.NewHTTPError(http.StatusConflict, "insufficient stock")

	case errors.Is(err, service.ErrTimeout):
		l.Error(event, "status", 503, "reason", "timeout", "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "try again later")

	case errors.Is(err, service.ErrCanceled):
		l.Info(event, "status", statusClientClosedRequest, "reason", "canceled", "error", err)
		return echo.NewHTTPError(statusClientClosedRequest, "request canceled")

	default:
		l.Error(event, "status", 500, "reason", "internal error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
