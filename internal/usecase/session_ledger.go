package usecase

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"

	"github.com/google/uuid"
)

// IssuedSession is the result of issuing or rotating a refresh session.
// RawToken is returned to the caller exactly once; the ledger keeps only
// its digest and cannot reproduce it.
type IssuedSession struct {
	SessionID uuid.UUID
	RawToken  string
	ExpiresAt time.Time
}

// SessionLedger owns the set of live refresh sessions: it issues, validates,
// rotates and revokes them. Expired sessions are inert regardless of sweep
// timing.
type SessionLedger interface {
	// Issue creates a session for the user and returns the raw token.
	Issue(ctx context.Context, userID uuid.UUID, userAgent, ip string) (*IssuedSession, error)

	// Validate resolves a presented raw token to its live session. With a
	// session id hint this is a single lookup plus digest compare; without
	// one it degrades to a linear digest scan over all non-expired
	// sessions, which is the documented slow fallback, not an error.
	Validate(ctx context.Context, rawToken string, sessionID *uuid.UUID) (*entity.Session, error)

	// Rotate deletes the matched session and issues a replacement for the
	// same user on the supplied transaction-bound repositories. Running on
	// tx repos makes the replace-on-use atomic: of two concurrent refreshes
	// presenting the same stale token, exactly one wins.
	Rotate(ctx context.Context, repos repository.RepositoryFactory, session *entity.Session, userAgent, ip string) (*IssuedSession, error)

	// Revoke deletes a session by id. Revoking an unknown session is a no-op.
	Revoke(ctx context.Context, sessionID uuid.UUID) error

	// RevokeByToken scans live sessions for the raw token and deletes the
	// match. Unknown tokens are a no-op.
	RevokeByToken(ctx context.Context, rawToken string) error

	// ActiveSessions lists the user's live sessions, newest first.
	ActiveSessions(ctx context.Context, userID uuid.UUID) ([]*entity.Session, error)

	// RevokeAll deletes every session the user owns.
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}
