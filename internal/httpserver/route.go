package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/food_orders/pkg/db"
	middleware "github.com/Skotchmaster/food_orders/pkg/middleware/auth"
	"github.com/Skotchmaster/food_orders/pkg/middleware/csrf"
)

type Deps struct {
	OrderHandler *OrderHTTP
	JWTSecret    []byte
	CSRFConfig   csrf.Config
	DB           *gorm.DB
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.DB != nil {
			if err := db.Ping(c.Request().Context(), d.DB); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := middleware.NewAuthMiddleware(d.JWTSecret)

	orders := e.Group("/orders", csrf.Middleware(d.CSRFConfig), authMW.RequireAuth)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("/:id", d.OrderHandler.GetOrder)
}
