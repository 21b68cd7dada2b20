package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrSessionNotFound is returned when a refresh session is not found.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository defines the interface for refresh-session persistence.
// Only token digests are ever stored; the ledger compares presented raw
// tokens against digests at the usecase layer.
type SessionRepository interface {
	// Create persists a new refresh session.
	Create(ctx context.Context, session *entity.Session) error

	// FindByID retrieves a session by its unique ID, expired or not.
	// Expiry policy is applied by the caller.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error)

	// ListActive retrieves all non-expired sessions. This backs the
	// documented slow path of validate-by-scan when no session id hint
	// is supplied; cost is linear in the number of live sessions.
	ListActive(ctx context.Context) ([]*entity.Session, error)

	// ListActiveByUserID retrieves all non-expired sessions for one user.
	ListActiveByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Session, error)

	// Delete removes a session by ID. It returns ErrSessionNotFound when no
	// row was deleted, which is how rotation detects a concurrently
	// consumed token.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByUserID removes all sessions for a user (logout everywhere).
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired opportunistically sweeps expired rows. Sweeping is an
	// optimization only: expired rows are already inert at validation time.
	DeleteExpired(ctx context.Context) error
}
