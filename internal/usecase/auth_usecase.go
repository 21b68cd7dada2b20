// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterEmailInput defines the data required to register with an email credential.
type RegisterEmailInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"required"`
}

// RegisterPhoneInput defines the data required to register with a phone credential.
type RegisterPhoneInput struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"required"`
}

// LoginInput defines the data required to log in. Identifier may be an
// email, a phone number, or an opaque federated subject id.
type LoginInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
	UserAgent  string `json:"-"`
	IP         string `json:"-"`
}

// RefreshInput defines the data required to rotate a refresh session.
// SessionID is the optional transport-header hint; when absent the ledger
// falls back to the documented linear scan.
type RefreshInput struct {
	RefreshToken string `json:"refreshToken"`
	SessionID    *uuid.UUID
	UserAgent    string
	IP           string
}

// LogoutInput defines the data accepted by logout. Both fields are optional;
// logout never fails so session existence cannot be probed.
type LogoutInput struct {
	SessionID    *uuid.UUID
	RefreshToken string `json:"refreshToken"`
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// TokenPairOutput returns the credentials issued by login and refresh.
type TokenPairOutput struct {
	AccessToken      string
	RefreshToken     string
	SessionID        uuid.UUID
	RefreshExpiresAt time.Time
	User             *entity.User
}

// SessionView is what a user sees of one of their own sessions. The token
// digest never leaves the domain layer.
type SessionView struct {
	SessionID uuid.UUID `json:"sessionId"`
	UserAgent string    `json:"userAgent,omitempty"`
	IP        string    `json:"ip,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer (HTTP handlers) depends on.
type AuthUsecase interface {
	// RegisterByEmail creates a user plus an EMAIL credential in one atomic
	// transaction. The email is normalized to lower case first.
	RegisterByEmail(ctx context.Context, input *RegisterEmailInput) (*RegisterOutput, error)

	// RegisterByPhone creates a PHONE credential in one atomic transaction,
	// reusing an existing user row that already carries the phone number.
	RegisterByPhone(ctx context.Context, input *RegisterPhoneInput) (*RegisterOutput, error)

	// ValidateCredentials resolves the identifier to a user and checks the
	// password. Every failure mode returns the same invalid-credentials
	// error to prevent account enumeration.
	ValidateCredentials(ctx context.Context, identifier, password string) (*entity.User, error)

	// Login validates credentials, signs an access token and issues a
	// refresh session.
	Login(ctx context.Context, input *LoginInput) (*TokenPairOutput, error)

	// Refresh rotates the presented refresh session and re-signs an access
	// token as one atomic unit.
	Refresh(ctx context.Context, input *RefreshInput) (*TokenPairOutput, error)

	// Logout revokes the session by id when given, else by raw-token scan.
	// It always succeeds.
	Logout(ctx context.Context, input *LogoutInput) error

	// Me returns the authenticated user's profile.
	Me(ctx context.Context, userID uuid.UUID) (*entity.User, error)

	// Sessions lists the caller's live refresh sessions.
	Sessions(ctx context.Context, userID uuid.UUID) ([]SessionView, error)

	// LogoutAll revokes every session the caller owns.
	LogoutAll(ctx context.Context, userID uuid.UUID) error
}
