// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const rawTokenBytes = 32

// sessionLedger implements the SessionLedger interface.
type sessionLedger struct {
	sessionRepo repository.SessionRepository
	hasher      service.PasswordHasher
	refreshTTL  time.Duration
	logger      *slog.Logger
}

// NewSessionLedger is the constructor for sessionLedger.
func NewSessionLedger(
	sessionRepo repository.SessionRepository,
	hasher service.PasswordHasher,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.SessionLedger {
	return &sessionLedger{
		sessionRepo: sessionRepo,
		hasher:      hasher,
		refreshTTL:  cfg.RefreshTokenTTLOrDefault(),
		logger:      logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionLedger) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// newRawToken generates an opaque refresh token: 32 random bytes, hex encoded.
func newRawToken() (string, error) {
	buf := make([]byte, rawTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to generate refresh token")
	}

	return hex.EncodeToString(buf), nil
}

// mint creates and persists a session row on the given repository, returning
// the raw token alongside the stored record.
func (srv *sessionLedger) mint(ctx context.Context, repo repository.SessionRepository, userID uuid.UUID, userAgent, ip string) (*usecase.IssuedSession, error) {
	raw, err := newRawToken()
	if err != nil {
		return nil, err
	}

	digest, err := srv.hasher.Hash(raw)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash refresh token")
	}

	now := time.Now()
	session := &entity.Session{
		ID:          uuid.New(),
		UserID:      userID,
		TokenDigest: digest,
		UserAgent:   userAgent,
		IP:          ip,
		ExpiresAt:   now.Add(srv.refreshTTL),
		CreatedAt:   now,
	}

	if err := repo.Create(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to create session")
	}

	return &usecase.IssuedSession{
		SessionID: session.ID,
		RawToken:  raw,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Issue creates a new refresh session for the user. Each issue also sweeps
// expired rows; the sweep is best effort and never fails the login.
func (srv *sessionLedger) Issue(ctx context.Context, userID uuid.UUID, userAgent, ip string) (*usecase.IssuedSession, error) {
	if err := srv.sessionRepo.DeleteExpired(ctx); err != nil {
		srv.log(ctx).Warn("Failed to sweep expired sessions", slog.Any("error", err))
	}

	issued, err := srv.mint(ctx, srv.sessionRepo, userID, userAgent, ip)
	if err != nil {
		srv.log(ctx).Error("Failed to issue session", slog.Any("error", err), slog.Any("user_id", userID))

		return nil, err
	}
	srv.log(ctx).Debug("Issued session", slog.Any("user_id", userID), slog.Any("session_id", issued.SessionID))

	return issued, nil
}

// Validate resolves a raw refresh token to its live session.
func (srv *sessionLedger) Validate(ctx context.Context, rawToken string, sessionID *uuid.UUID) (*entity.Session, error) {
	if rawToken == "" {
		return nil, errors.Wrap(domainerrors.ErrUnauthorized, "missing refresh token")
	}

	if sessionID != nil {
		// Fast path: one lookup plus one digest compare.
		session, err := srv.sessionRepo.FindByID(ctx, *sessionID)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				return nil, errors.Wrap(domainerrors.ErrUnauthorized, "invalid refresh token")
			}

			return nil, errors.Wrap(err, "failed to find session")
		}
		if session.Expired(time.Now()) {
			return nil, errors.Wrap(domainerrors.ErrUnauthorized, "refresh token expired")
		}
		if !srv.hasher.Check(rawToken, session.TokenDigest) {
			return nil, errors.Wrap(domainerrors.ErrUnauthorized, "invalid refresh token")
		}

		return session, nil
	}

	// Slow path: no session hint, so every live digest is a candidate.
	// Linear in the number of active sessions.
	sessions, err := srv.sessionRepo.ListActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list active sessions")
	}
	for _, session := range sessions {
		if srv.hasher.Check(rawToken, session.TokenDigest) {
			return session, nil
		}
	}

	return nil, errors.Wrap(domainerrors.ErrUnauthorized, "invalid refresh token")
}

// Rotate consumes the matched session and mints its replacement on the
// transaction-bound repository. The delete reports rows affected, so of two
// concurrent rotations of the same session exactly one proceeds.
func (srv *sessionLedger) Rotate(ctx context.Context, repos repository.RepositoryFactory, session *entity.Session, userAgent, ip string) (*usecase.IssuedSession, error) {
	sessionRepo := repos.SessionRepo()

	if err := sessionRepo.Delete(ctx, session.ID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUnauthorized, "refresh token already used")
		}

		return nil, errors.Wrap(err, "failed to consume session")
	}

	issued, err := srv.mint(ctx, sessionRepo, session.UserID, userAgent, ip)
	if err != nil {
		return nil, err
	}
	srv.log(ctx).Debug("Rotated session",
		slog.Any("user_id", session.UserID),
		slog.Any("old_session_id", session.ID),
		slog.Any("new_session_id", issued.SessionID))

	return issued, nil
}

// Revoke deletes a session by id. Unknown sessions are treated as already revoked.
func (srv *sessionLedger) Revoke(ctx context.Context, sessionID uuid.UUID) error {
	if err := srv.sessionRepo.Delete(ctx, sessionID); err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		srv.log(ctx).Error("Failed to revoke session", slog.Any("error", err), slog.Any("session_id", sessionID))

		return errors.Wrap(err, "failed to revoke session")
	}

	return nil
}

// RevokeByToken scans live sessions for the raw token and deletes the match.
func (srv *sessionLedger) RevokeByToken(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}

	sessions, err := srv.sessionRepo.ListActive(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to list active sessions")
	}
	for _, session := range sessions {
		if srv.hasher.Check(rawToken, session.TokenDigest) {
			return srv.Revoke(ctx, session.ID)
		}
	}

	return nil
}

// ActiveSessions lists the user's live sessions, newest first.
func (srv *sessionLedger) ActiveSessions(ctx context.Context, userID uuid.UUID) ([]*entity.Session, error) {
	sessions, err := srv.sessionRepo.ListActiveByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list user sessions")
	}

	return sessions, nil
}

// RevokeAll deletes every session the user owns.
func (srv *sessionLedger) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	if err := srv.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		srv.log(ctx).Error("Failed to revoke user sessions", slog.Any("error", err), slog.Any("user_id", userID))

		return errors.Wrap(err, "failed to revoke user sessions")
	}
	srv.log(ctx).Info("Revoked all sessions", slog.Any("user_id", userID))

	return nil
}
