package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WishlistItemView is a saved product with its live catalog snapshot.
type WishlistItemView struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Price     string    `json:"price"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	InStock   bool      `json:"inStock"`
	AddedAt   time.Time `json:"addedAt"`
}

// WishlistUsecase manages a user's saved-for-later products. Remove is
// idempotent; Toggle flips membership and reports the resulting state.
type WishlistUsecase interface {
	List(ctx context.Context, userID uuid.UUID) ([]WishlistItemView, error)

	// Toggle adds the product when absent and removes it when present,
	// returning true when the product ended up on the list.
	Toggle(ctx context.Context, userID, productID uuid.UUID) (bool, error)

	Remove(ctx context.Context, userID, productID uuid.UUID) error
}
