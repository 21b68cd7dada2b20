package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartStatus is the lifecycle state of a cart.
type CartStatus string

const (
	// CartStatusOpen is the single mutable pre-checkout cart a user has.
	CartStatusOpen CartStatus = "OPEN"
	// CartStatusCheckedOut is a cart that has been converted into an order.
	// Checked-out carts are never reopened.
	CartStatusCheckedOut CartStatus = "CHECKED_OUT"
)

// Cart holds a user's priced line items. All money fields are derived by
// recomputation after every mutation, never hand-set.
type Cart struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Status      CartStatus
	Currency    string
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
	Items       []CartItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CartItem is one priced line in a cart. (CartID, ProductID) is unique.
// UnitPrice is captured when the product is first added and is not re-derived
// from the live product price afterwards.
type CartItem struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	ProductID uuid.UUID
	Product   *Product
	Qty       int
	UnitPrice decimal.Decimal
	Currency  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineTotal returns unit price multiplied by quantity.
func (i *CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Qty)))
}
