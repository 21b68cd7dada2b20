package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrLoginMethodNotFound is returned when no credential matches the lookup.
var ErrLoginMethodNotFound = errors.New("login method not found")

// LoginMethodRepository defines the standard operations for credential persistence.
type LoginMethodRepository interface {
	// Create persists a new login method. The storage enforces uniqueness
	// of the (provider, provider user id) pair.
	Create(ctx context.Context, method *entity.LoginMethod) error

	// FindByProvider retrieves a login method by its provider and provider-specific id.
	FindByProvider(ctx context.Context, provider entity.Provider, providerUserID string) (*entity.LoginMethod, error)

	// ListByUserID retrieves all login methods linked to a user.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]entity.LoginMethod, error)
}
