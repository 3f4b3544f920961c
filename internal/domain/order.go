package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the closed set of states an order can be in.
// Transitions are append-only; no history is kept.
type OrderStatus string

const (
	OrderStatusPaid        OrderStatus = "Paid"
	OrderStatusShipped     OrderStatus = "Shipped"
	OrderStatusDelivered   OrderStatus = "Delivered"
	OrderStatusUndelivered OrderStatus = "Undelivered"
	OrderStatusCancelled   OrderStatus = "Cancelled"
)

// IsValid reports whether s is a member of the status enumeration
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered,
		OrderStatusUndelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is an immutable receipt for one checkout. Items are a
// point-in-time snapshot and do not live-join to the catalog.
type Order struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	OrderID       int64       `json:"order_id" db:"order_id"`
	UserID        uuid.UUID   `json:"user_id" db:"user_id"`
	Items         []OrderItem `json:"products"`
	Address       string      `json:"address" db:"address"`
	Status        OrderStatus `json:"status" db:"status"`
	RiderID       *uuid.UUID  `json:"rider_id,omitempty" db:"rider_id"`
	PaymentMethod string      `json:"payment_method" db:"payment_method"`
	TotalAmount   float64     `json:"total_amount" db:"total_amount"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderItem captures one purchased line as it looked at checkout time
type OrderItem struct {
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	VariantID uuid.UUID `json:"variant_id" db:"variant_id"`
	Name      string    `json:"name" db:"name"`
	Brand     string    `json:"brand" db:"brand"`
	Color     string    `json:"color" db:"color"`
	Size      string    `json:"size" db:"size"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
	Images    []string  `json:"images,omitempty"`
}

// OrderSummary is the listing shape for order history views
type OrderSummary struct {
	ID               uuid.UUID   `json:"id"`
	OrderID          int64       `json:"order_id"`
	UserID           uuid.UUID   `json:"user_id"`
	UserName         string      `json:"user_name,omitempty"`
	Address          string      `json:"address"`
	Status           OrderStatus `json:"status"`
	PaymentMethod    string      `json:"payment_method"`
	TotalAmount      float64     `json:"total_amount"`
	ItemCount        int         `json:"item_count"`
	RiderID          *uuid.UUID  `json:"rider_id,omitempty"`
	RiderName        string      `json:"rider_name,omitempty"`
	RiderPhoneNumber string      `json:"rider_phone_number,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
}
