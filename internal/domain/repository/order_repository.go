package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for order persistence.
var (
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderCodeTaken is returned when the generated order code collides
	// with an existing one; callers regenerate and retry.
	ErrOrderCodeTaken = errors.New("order code already exists")
)

// OrderRepository defines the standard operations for order persistence.
// Orders and their items are immutable once created.
type OrderRepository interface {
	// Create persists an order together with its item snapshots.
	Create(ctx context.Context, order *entity.Order) error

	// ListByUserID retrieves a page of a user's orders, newest first, items
	// preloaded, plus the total count.
	ListByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*entity.Order, int64, error)

	// FindByIDForUser retrieves one order scoped to its owner.
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*entity.Order, error)
}
