package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the payment state of an order.
type OrderStatus string

const (
	// OrderStatusPending is an order awaiting payment.
	OrderStatusPending OrderStatus = "PENDING"
	// OrderStatusPaid is an order whose payment has settled.
	OrderStatusPaid OrderStatus = "PAID"
	// OrderStatusCancelled is an order that was voided after creation.
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order is the immutable snapshot produced by checkout. Its total is copied
// from the cart at conversion time and never recomputed.
type Order struct {
	ID        uuid.UUID
	Code      string // Human-readable, unique, e.g. "ORD-20260828-7F3K2Q".
	UserID    uuid.UUID
	AddressID *uuid.UUID
	Note      string
	Total     decimal.Decimal
	Status    OrderStatus
	Items     []OrderItem
	CreatedAt time.Time
}

// OrderItem is an immutable snapshot of one cart line, decoupled from any
// later product price change.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Product   *Product
	Qty       int
	UnitPrice decimal.Decimal
	Currency  string
}
