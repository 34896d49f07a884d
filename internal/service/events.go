package service

import "github.com/google/uuid"

const EventOrderPlaced = "order_placed"

type OrderPlacedItem struct {
	ProductID uuid.UUID `json:"productID"`
	Quantity  int64     `json:"quantity"`
	UnitPrice int64     `json:"unitPrice"`
}

type OrderPlacedEvent struct {
	Type         string            `json:"type"`
	OrderID      uuid.UUID         `json:"orderID"`
	OrderNumber  string            `json:"orderNumber"`
	UserID       uuid.UUID         `json:"userID"`
	RestaurantID uuid.UUID         `json:"restaurantID"`
	TotalAmount  int64             `json:"totalAmount"`
	DeliveryFee  int64             `json:"deliveryFee"`
	Items        []OrderPlacedItem `json:"items"`
}

func newOrderPlacedEvent(p *PlacedOrder) OrderPlacedEvent {
	items := make([]OrderPlacedItem, 0, len(p.Order.Items))
	for _, it := range p.Order.Items {
		items = append(items, OrderPlacedItem{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return OrderPlacedEvent{
		Type:         EventOrderPlaced,
		OrderID:      p.Order.ID,
		OrderNumber:  p.Order.OrderNumber,
		UserID:       p.Order.UserID,
		RestaurantID: p.Order.RestaurantID,
		TotalAmount:  p.Order.TotalAmount,
		DeliveryFee:  p.Order.DeliveryFee,
		Items:        items,
	}
}
