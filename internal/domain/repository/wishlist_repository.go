package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrWishlistItemNotFound is returned when a wishlist entry is not found.
var ErrWishlistItemNotFound = errors.New("wishlist item not found")

// WishlistRepository defines the standard operations for wishlist persistence.
type WishlistRepository interface {
	// ListByUserID retrieves a user's wishlist, newest first, products preloaded.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.WishlistItem, error)

	// Find retrieves one wishlist entry by its unique (user, product) pair.
	Find(ctx context.Context, userID, productID uuid.UUID) (*entity.WishlistItem, error)

	// Create persists a new wishlist entry.
	Create(ctx context.Context, item *entity.WishlistItem) error

	// Delete removes a wishlist entry by its (user, product) pair.
	Delete(ctx context.Context, userID, productID uuid.UUID) error
}
