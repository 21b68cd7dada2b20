package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Domain-specific errors for cart persistence.
var (
	// ErrCartNotFound is returned when a user has no open cart.
	ErrCartNotFound = errors.New("cart not found")
	// ErrCartItemNotFound is returned when a cart line is not found.
	ErrCartItemNotFound = errors.New("cart item not found")
	// ErrOpenCartExists is returned when creating a second OPEN cart for the
	// same user; the unique constraint makes concurrent first-access safe
	// and the losing creator retries the lookup.
	ErrOpenCartExists = errors.New("open cart already exists")
	// ErrCartNotOpen is returned when closing a cart that is no longer OPEN.
	ErrCartNotOpen = errors.New("cart is not open")
)

// CartTotals carries the derived money fields written back after recomputation.
type CartTotals struct {
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

// CartRepository defines the standard operations for cart persistence.
type CartRepository interface {
	// FindOpenByUserID retrieves the single OPEN cart for a user with its
	// items preloaded.
	FindOpenByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)

	// Create persists a new OPEN cart with zeroed totals. Returns
	// ErrOpenCartExists when the user already has one.
	Create(ctx context.Context, cart *entity.Cart) error

	// UpsertItem inserts a cart line or, when the (cart, product) pair
	// already exists, atomically increments its quantity in a single
	// statement. The unit price of an existing line is never overwritten.
	UpsertItem(ctx context.Context, item *entity.CartItem) error

	// SetItemQty sets a line's quantity to an exact value.
	SetItemQty(ctx context.Context, cartID, productID uuid.UUID, qty int) error

	// DeleteItem removes one line from a cart. Missing lines are not an error.
	DeleteItem(ctx context.Context, cartID, productID uuid.UUID) error

	// DeleteItems removes all lines from a cart.
	DeleteItems(ctx context.Context, cartID uuid.UUID) error

	// ListItems retrieves all lines of a cart.
	ListItems(ctx context.Context, cartID uuid.UUID) ([]entity.CartItem, error)

	// UpdateTotals writes the recomputed money fields, rounded to 2 decimal
	// places, back onto the cart row.
	UpdateTotals(ctx context.Context, cartID uuid.UUID, totals CartTotals) error

	// MarkCheckedOut transitions an OPEN cart to CHECKED_OUT. The update is
	// guarded by status = OPEN; ErrCartNotOpen is returned when no row
	// matched, so a cart can be converted at most once.
	MarkCheckedOut(ctx context.Context, cartID uuid.UUID) error
}
