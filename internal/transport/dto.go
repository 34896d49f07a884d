package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/food_orders/internal/service"
)

type CreateOrderItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
}

// CreateOrderLocation either references a saved location by id or carries a
// new address.
type CreateOrderLocation struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	Label     string     `json:"label"`
	Address   string     `json:"address"`
	City      string     `json:"city"`
	Lat       *float64   `json:"lat,omitempty"`
	Lng       *float64   `json:"lng,omitempty"`
	IsDefault bool       `json:"is_default"`
}

type CreateOrderRequest struct {
	RestaurantID uuid.UUID           `json:"restaurant_id"`
	PhoneNumber  string              `json:"phone_number"`
	Notes        string              `json:"notes"`
	Items        []CreateOrderItem   `json:"items"`
	Location     CreateOrderLocation `json:"location"`
}

func (r CreateOrderRequest) ToInput(userID uuid.UUID) service.PlaceOrderInput {
	lines := make([]service.Line, 0, len(r.Items))
	for _, it := range r.Items {
		lines = append(lines, service.Line{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return service.PlaceOrderInput{
		UserID:       userID,
		RestaurantID: r.RestaurantID,
		PhoneNumber:  r.PhoneNumber,
		Notes:        r.Notes,
		Lines:        lines,
		Location: service.LocationInput{
			ID:        r.Location.ID,
			Label:     r.Location.Label,
			Address:   r.Location.Address,
			City:      r.Location.City,
			Lat:       r.Location.Lat,
			Lng:       r.Location.Lng,
			IsDefault: r.Location.IsDefault,
		},
	}
}

type RestaurantSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type OrderItemResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	UnitPrice   string    `json:"unit_price"`
	Unit        string    `json:"unit"`
	ImgURL      string    `json:"img_url"`
	Quantity    int64     `json:"quantity"`
	LineTotal   string    `json:"line_total"`
}

type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	Status          string              `json:"status"`
	UserID          uuid.UUID           `json:"user_id"`
	Restaurant      RestaurantSummary   `json:"restaurant"`
	LocationID      uuid.UUID           `json:"location_id"`
	DeliveryAddress string              `json:"delivery_address"`
	PhoneNumber     string              `json:"phone_number"`
	Notes           string              `json:"notes"`
	TotalAmount     string              `json:"total_amount"`
	DeliveryFee     string              `json:"delivery_fee"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
}

// ProductErrorResponse is returned when a single cart line cannot be served.
type ProductErrorResponse struct {
	Error       string    `json:"error"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Available   int64     `json:"available"`
	Requested   int64     `json:"requested"`
}

// FormatMinor renders minor currency units as a two-decimal string, 1350 -> "13.50".
func FormatMinor(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

func NewOrderResponse(p *service.PlacedOrder) OrderResponse {
	items := make([]OrderItemResponse, 0, len(p.Order.Items))
	for _, it := range p.Order.Items {
		items = append(items, OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   FormatMinor(it.UnitPrice),
			Unit:        it.Unit,
			ImgURL:      it.ImgURL,
			Quantity:    it.Quantity,
			LineTotal:   FormatMinor(it.LineTotal),
		})
	}

	return OrderResponse{
		ID:              p.Order.ID,
		OrderNumber:     p.Order.OrderNumber,
		Status:          p.Order.Status,
		UserID:          p.Order.UserID,
		Restaurant:      RestaurantSummary{ID: p.Restaurant.ID, Name: p.Restaurant.Name},
		LocationID:      p.Order.LocationID,
		DeliveryAddress: p.Order.DeliveryAddress,
		PhoneNumber:     p.Order.PhoneNumber,
		Notes:           p.Order.Notes,
		TotalAmount:     FormatMinor(p.Order.TotalAmount),
		DeliveryFee:     FormatMinor(p.Order.DeliveryFee),
		Items:           items,
		CreatedAt:       p.Order.CreatedAt,
	}
}

func NewProductErrorResponse(msg string, pe *service.ProductError) ProductErrorResponse {
	return ProductErrorResponse{
		Error:       msg,
		ProductID:   pe.ProductID,
		ProductName: pe.ProductName,
		Available:   pe.Available,
		Requested:   pe.Requested,
	}
}
