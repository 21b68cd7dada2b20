package usecase

import (
	"context"
	"time"

	"storefront/internal/util"

	"github.com/google/uuid"
)

// CheckoutInput carries delivery details for converting the open cart into
// an order.
type CheckoutInput struct {
	AddressID *uuid.UUID `json:"addressId"`
	Note      string     `json:"note" validate:"max=1000"`
}

// OrderItemView is a priced line snapshot frozen at checkout time.
type OrderItemView struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	UnitPrice string    `json:"unitPrice"`
	Quantity  int       `json:"quantity"`
	LineTotal string    `json:"lineTotal"`
}

// OrderView is an order with its snapshot lines.
type OrderView struct {
	OrderID   uuid.UUID       `json:"orderId"`
	Code      string          `json:"code"`
	Status    string          `json:"status"`
	Items     []OrderItemView `json:"items"`
	Total     string          `json:"total"`
	AddressID *uuid.UUID      `json:"addressId,omitempty"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// OrderUsecase converts open carts into orders and serves order history.
type OrderUsecase interface {
	// Checkout atomically decrements stock for every cart line, snapshots
	// the lines into an order and closes the cart. Any failed stock
	// decrement aborts the whole checkout.
	Checkout(ctx context.Context, userID uuid.UUID, input *CheckoutInput) (*OrderView, error)

	List(ctx context.Context, userID uuid.UUID, page util.Page) ([]OrderView, int64, error)
	Detail(ctx context.Context, userID, orderID uuid.UUID) (*OrderView, error)
}
