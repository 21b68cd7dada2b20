package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// AddItemInput adds (or tops up) a product line in the caller's open cart.
// Quantities below one are clamped to a single unit.
type AddItemInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity"`
}

// SetItemQtyInput overwrites the quantity of an existing line.
// Quantity zero removes the line.
type SetItemQtyInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=0"`
}

// CartItemView is a cart line joined with its product snapshot, priced at
// the product's current price.
type CartItemView struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	UnitPrice string    `json:"unitPrice"`
	Quantity  int       `json:"quantity"`
	LineTotal string    `json:"lineTotal"`
}

// CartView is a materialized open cart with recomputed totals.
type CartView struct {
	CartID      uuid.UUID      `json:"cartId"`
	Status      string         `json:"status"`
	Items       []CartItemView `json:"items"`
	Subtotal    string         `json:"subtotal"`
	Discount    string         `json:"discount"`
	DeliveryFee string         `json:"deliveryFee"`
	Total       string         `json:"total"`
}

// CartUsecase manages the caller's single open cart. Reading implicitly
// creates an empty open cart when none exists.
type CartUsecase interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartView, error)
	AddItem(ctx context.Context, userID uuid.UUID, input *AddItemInput) (*CartView, error)
	SetItemQty(ctx context.Context, userID uuid.UUID, input *SetItemQtyInput) (*CartView, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartView, error)
	Clear(ctx context.Context, userID uuid.UUID) (*CartView, error)

	// OpenCart returns the raw open cart aggregate, creating one if absent.
	OpenCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)
}
