package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session represents one live refresh-token grant. The raw refresh token is
// handed to the client exactly once at issue time; only its bcrypt digest is
// persisted, so a session can never leak a usable token.
type Session struct {
	ID          uuid.UUID // The unique ID for this session record.
	UserID      uuid.UUID // Links this session to the User it belongs to.
	TokenDigest string    // bcrypt digest of the raw refresh token.
	UserAgent   string    // User agent captured at issue time.
	IP          string    // Client IP captured at issue time.
	ExpiresAt   time.Time // The exact time when this session becomes invalid.
	CreatedAt   time.Time // When this session was created (login or rotation).
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
