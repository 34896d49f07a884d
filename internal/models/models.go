package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const OrderStatusPending = "PENDING"

// Amounts are int64 minor currency units (cents).

type Restaurant struct {
	ID          uuid.UUID `gorm:"primaryKey"          json:"id"`
	Name        string    `gorm:"not null"            json:"name"`
	IsActive    bool      `gorm:"not null"            json:"is_active"`
	DeliveryFee int64     `gorm:"not null"            json:"delivery_fee"`
	CreatedAt   time.Time `                           json:"created_at"`
	UpdatedAt   time.Time `                           json:"updated_at"`
}

type Product struct {
	ID           uuid.UUID `gorm:"primaryKey"                           json:"id"`
	RestaurantID uuid.UUID `gorm:"index;not null"                       json:"restaurant_id"`
	CategoryID   uuid.UUID `gorm:"index"                                json:"category_id"`
	Name         string    `gorm:"not null"                             json:"name"`
	Price        int64     `gorm:"not null;check:price >= 0"            json:"price"`
	Quantity     int64     `gorm:"not null;check:quantity >= 0"         json:"quantity"`
	IsAvailable  bool      `gorm:"not null"                             json:"is_available"`
	Unit         string    `                                            json:"unit"`
	ImgURL       string    `                                            json:"img_url"`
	CreatedAt    time.Time `                                            json:"created_at"`
	UpdatedAt    time.Time `                                            json:"updated_at"`
}

type Location struct {
	ID        uuid.UUID `gorm:"primaryKey"          json:"id"`
	UserID    uuid.UUID `gorm:"index;not null;uniqueIndex:idx_locations_one_default,where:is_default" json:"user_id"`
	Label     string    `gorm:"not null"            json:"label"`
	Address   string    `gorm:"not null"            json:"address"`
	City      string    `gorm:"not null"            json:"city"`
	Lat       *float64  `                           json:"lat,omitempty"`
	Lng       *float64  `                           json:"lng,omitempty"`
	IsDefault bool      `gorm:"not null;index"      json:"is_default"`
	CreatedAt time.Time `                           json:"created_at"`
	UpdatedAt time.Time `                           json:"updated_at"`
}

type Order struct {
	ID              uuid.UUID   `gorm:"primaryKey"                  json:"id"`
	OrderNumber     string      `gorm:"uniqueIndex;not null"        json:"order_number"`
	UserID          uuid.UUID   `gorm:"index;not null"              json:"user_id"`
	RestaurantID    uuid.UUID   `gorm:"index;not null"              json:"restaurant_id"`
	LocationID      uuid.UUID   `gorm:"not null"                    json:"location_id"`
	TotalAmount     int64       `gorm:"not null"                    json:"total_amount"`
	DeliveryFee     int64       `gorm:"not null"                    json:"delivery_fee"`
	Status          string      `gorm:"not null"                    json:"status"`
	DeliveryAddress string      `gorm:"not null"                    json:"delivery_address"`
	PhoneNumber     string      `gorm:"not null"                    json:"phone_number"`
	Notes           string      `                                   json:"notes"`
	Items           []OrderItem `gorm:"foreignKey:OrderID"          json:"items"`
	CreatedAt       time.Time   `                                   json:"created_at"`
	UpdatedAt       time.Time   `                                   json:"updated_at"`
}

// OrderItem is a snapshot of the product at order time; it is never updated.
type OrderItem struct {
	ID          uuid.UUID `gorm:"primaryKey"                  json:"id"`
	OrderID     uuid.UUID `gorm:"index;not null"              json:"order_id"`
	ProductID   uuid.UUID `gorm:"not null"                    json:"product_id"`
	ProductName string    `gorm:"not null"                    json:"product_name"`
	UnitPrice   int64     `gorm:"not null"                    json:"unit_price"`
	Unit        string    `                                   json:"unit"`
	ImgURL      string    `                                   json:"img_url"`
	Quantity    int64     `gorm:"not null;check:quantity > 0" json:"quantity"`
	LineTotal   int64     `gorm:"not null"                    json:"line_total"`
	Position    int       `gorm:"not null"                    json:"position"`
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (l *Location) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (OrderItem) TableName() string {
	return "order_items"
}

// All lists every table owned by the service, in migration order.
func All() []any {
	return []any{&Restaurant{}, &Product{}, &Location{}, &Order{}, &OrderItem{}}
}
