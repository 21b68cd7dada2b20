package impl

import (
	"context"
	"log/slog"
	"strings"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"
	"storefront/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	ledger       usecase.SessionLedger
	tokenService service.TokenService
	hasher       service.PasswordHasher
	phoneRegion  string
	logger       *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(
	txManager repository.TransactionManager,
	ledger usecase.SessionLedger,
	tokenService service.TokenService,
	hasher service.PasswordHasher,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.AuthUsecase {
	phoneRegion := ""
	if cfg.Auth != nil {
		phoneRegion = cfg.Auth.DefaultPhoneRegion
	}

	return &authService{
		txManager:    txManager,
		ledger:       ledger,
		tokenService: tokenService,
		hasher:       hasher,
		phoneRegion:  phoneRegion,
		logger:       logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// normalizeEmail lower-cases and trims an email identifier.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterByEmail creates a user and an EMAIL credential in one transaction.
func (srv *authService) RegisterByEmail(ctx context.Context, input *usecase.RegisterEmailInput) (*usecase.RegisterOutput, error) {
	email := normalizeEmail(input.Email)
	srv.log(ctx).Info("Registering user by email", slog.String("email", email))

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	var user *entity.User

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		loginMethodRepo := repoFactory.LoginMethodRepo()

		// 1. A profile row already carrying the email blocks registration
		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return errors.Wrap(domainerrors.ErrConflict, "email already registered")
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check existing email")
		}

		// 2. Create the user
		user = &entity.User{
			ID:       uuid.New(),
			Email:    email,
			FullName: input.FullName,
			Role:     entity.RoleUser,
			IsActive: true,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return errors.Wrap(err, "failed to create user")
		}

		// 3. Create the credential
		method := &entity.LoginMethod{
			ID:             uuid.New(),
			UserID:         user.ID,
			Provider:       entity.ProviderEmail,
			ProviderUserID: email,
			Email:          email,
			PasswordHash:   passwordHash,
		}
		if err := loginMethodRepo.Create(ctx, method); err != nil {
			return errors.Wrap(err, "failed to create login method")
		}
		user.LoginMethods = []entity.LoginMethod{*method}

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to register by email", slog.Any("error", err), slog.String("email", email))

		return nil, err
	}
	srv.log(ctx).Info("Successfully registered user", slog.Any("user_id", user.ID))

	return &usecase.RegisterOutput{User: user}, nil
}

// RegisterByPhone creates a user and a PHONE credential in one transaction.
func (srv *authService) RegisterByPhone(ctx context.Context, input *usecase.RegisterPhoneInput) (*usecase.RegisterOutput, error) {
	phone, err := util.NormalizePhone(input.Phone, srv.phoneRegion)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "invalid phone number")
	}
	srv.log(ctx).Info("Registering user by phone", slog.String("phone", phone))

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	var user *entity.User

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		loginMethodRepo := repoFactory.LoginMethodRepo()

		// 1. Only an existing PHONE credential is a conflict; a bare profile
		// row carrying the number is reused below
		if _, err := loginMethodRepo.FindByProvider(ctx, entity.ProviderPhone, phone); err == nil {
			return errors.Wrap(domainerrors.ErrConflict, "phone already registered")
		} else if !errors.Is(err, repository.ErrLoginMethodNotFound) {
			return errors.Wrap(err, "failed to check existing credential")
		}

		// 2. Reuse the profile row already carrying the phone, else create one
		existing, err := userRepo.FindByPhone(ctx, phone)
		switch {
		case err == nil:
			user = existing
		case errors.Is(err, repository.ErrUserNotFound):
			user = &entity.User{
				ID:       uuid.New(),
				Phone:    phone,
				FullName: input.FullName,
				Role:     entity.RoleUser,
				IsActive: true,
			}
			if err := userRepo.Create(ctx, user); err != nil {
				return errors.Wrap(err, "failed to create user")
			}
		default:
			return errors.Wrap(err, "failed to check existing phone")
		}

		// 3. Create the credential
		method := &entity.LoginMethod{
			ID:             uuid.New(),
			UserID:         user.ID,
			Provider:       entity.ProviderPhone,
			ProviderUserID: phone,
			Phone:          phone,
			PasswordHash:   passwordHash,
		}
		if err := loginMethodRepo.Create(ctx, method); err != nil {
			return errors.Wrap(err, "failed to create login method")
		}
		user.LoginMethods = append(user.LoginMethods, *method)

		// 4. Mirror the phone onto the profile if it is missing
		if user.Phone == "" {
			user.Phone = phone
			if err := userRepo.Update(ctx, user); err != nil {
				return errors.Wrap(err, "failed to update user")
			}
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to register by phone", slog.Any("error", err), slog.String("phone", phone))

		return nil, err
	}
	srv.log(ctx).Info("Successfully registered user", slog.Any("user_id", user.ID))

	return &usecase.RegisterOutput{User: user}, nil
}

// normalizeIdentifier maps a raw login identifier to its stored form:
// emails are lower-cased, phone-looking inputs are converted to E.164, and
// anything else passes through untouched.
func (srv *authService) normalizeIdentifier(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return strings.ToLower(identifier)
	}
	if phone, err := util.NormalizePhone(identifier, srv.phoneRegion); err == nil {
		return phone
	}

	return identifier
}

// ValidateCredentials resolves an identifier and checks the password.
// Every failure collapses into the same invalid-credentials error so the
// response never reveals whether the account exists.
func (srv *authService) ValidateCredentials(ctx context.Context, identifier, password string) (*entity.User, error) {
	normalized := srv.normalizeIdentifier(identifier)

	var user *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.UserRepo().FindByLoginIdentifier(ctx, normalized)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrInvalidCredentials, "unknown identifier")
			}

			return errors.Wrap(err, "failed to find user")
		}
		user = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	method := user.LoginMethodByIdentifier(normalized)
	if method == nil || method.PasswordHash == "" {
		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "no password credential")
	}
	if !srv.hasher.Check(password, method.PasswordHash) {
		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "password mismatch")
	}
	if !user.IsActive {
		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "user inactive")
	}

	return user, nil
}

// Login validates credentials, then issues the access token and refresh session.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.TokenPairOutput, error) {
	user, err := srv.ValidateCredentials(ctx, input.Identifier, input.Password)
	if err != nil {
		srv.log(ctx).Warn("Login rejected", slog.Any("error", err))

		return nil, err
	}

	accessToken, err := srv.tokenService.SignAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign access token")
	}

	issued, err := srv.ledger.Issue(ctx, user.ID, input.UserAgent, input.IP)
	if err != nil {
		return nil, err
	}
	srv.log(ctx).Info("User logged in", slog.Any("user_id", user.ID), slog.Any("session_id", issued.SessionID))

	return &usecase.TokenPairOutput{
		AccessToken:      accessToken,
		RefreshToken:     issued.RawToken,
		SessionID:        issued.SessionID,
		RefreshExpiresAt: issued.ExpiresAt,
		User:             user,
	}, nil
}

// Refresh rotates the refresh session and re-signs the access token in one
// transaction, so a stale token can never yield a half-issued credential pair.
func (srv *authService) Refresh(ctx context.Context, input *usecase.RefreshInput) (*usecase.TokenPairOutput, error) {
	session, err := srv.ledger.Validate(ctx, input.RefreshToken, input.SessionID)
	if err != nil {
		srv.log(ctx).Warn("Refresh rejected", slog.Any("error", err))

		return nil, err
	}

	var output *usecase.TokenPairOutput

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		// 1. The user behind the session must still be active
		user, err := repoFactory.UserRepo().FindByID(ctx, session.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUnauthorized, "user no longer exists")
			}

			return errors.Wrap(err, "failed to find user")
		}
		if !user.IsActive {
			return errors.Wrap(domainerrors.ErrUnauthorized, "user inactive")
		}

		// 2. Consume the old session and mint its replacement
		issued, err := srv.ledger.Rotate(ctx, repoFactory, session, input.UserAgent, input.IP)
		if err != nil {
			return err
		}

		// 3. Re-sign the access token
		accessToken, err := srv.tokenService.SignAccessToken(user.ID, user.Role)
		if err != nil {
			return errors.Wrap(err, "failed to sign access token")
		}

		output = &usecase.TokenPairOutput{
			AccessToken:      accessToken,
			RefreshToken:     issued.RawToken,
			SessionID:        issued.SessionID,
			RefreshExpiresAt: issued.ExpiresAt,
			User:             user,
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to refresh session", slog.Any("error", err), slog.Any("user_id", session.UserID))

		return nil, err
	}
	srv.log(ctx).Debug("Refreshed session", slog.Any("user_id", session.UserID), slog.Any("session_id", output.SessionID))

	return output, nil
}

// Logout revokes the presented session. It succeeds regardless of whether
// anything matched, so logout cannot be used to probe for live sessions.
func (srv *authService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	if input.SessionID != nil {
		return srv.ledger.Revoke(ctx, *input.SessionID)
	}

	return srv.ledger.RevokeByToken(ctx, input.RefreshToken)
}

// Me returns the authenticated user's profile.
func (srv *authService) Me(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	var user *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.UserRepo().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "user not found")
			}

			return errors.Wrap(err, "failed to find user")
		}
		user = found

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to load profile", slog.Any("error", err), slog.Any("user_id", userID))

		return nil, err
	}

	return user, nil
}

// Sessions lists the caller's live refresh sessions.
func (srv *authService) Sessions(ctx context.Context, userID uuid.UUID) ([]usecase.SessionView, error) {
	sessions, err := srv.ledger.ActiveSessions(ctx, userID)
	if err != nil {
		srv.log(ctx).Error("Failed to list sessions", slog.Any("error", err), slog.Any("user_id", userID))

		return nil, err
	}

	views := make([]usecase.SessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, usecase.SessionView{
			SessionID: session.ID,
			UserAgent: session.UserAgent,
			IP:        session.IP,
			CreatedAt: session.CreatedAt,
			ExpiresAt: session.ExpiresAt,
		})
	}

	return views, nil
}

// LogoutAll revokes every session the caller owns.
func (srv *authService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return srv.ledger.RevokeAll(ctx, userID)
}
