package postgres

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// sessionRepository implements the domain.SessionRepository interface using GORM.
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository is the constructor for sessionRepository.
func NewSessionRepository(db *gorm.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

// Create persists a new refresh session.
func (repo *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	sessionM := fromSessionDomain(session)

	if err := repo.db.WithContext(ctx).Create(sessionM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create session")
	}

	return nil
}

// FindByID retrieves a session by its unique ID, expired or not.
func (repo *sessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	var sessionM model.SessionModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&sessionM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSessionNotFound
		}

		return nil, errors.Wrap(err, "failed to find session by id")
	}

	return toSessionDomain(&sessionM), nil
}

// ListActive retrieves all non-expired sessions.
func (repo *sessionRepository) ListActive(ctx context.Context) ([]*entity.Session, error) {
	var sessionMs []model.SessionModel
	err := repo.db.WithContext(ctx).
		Where("expires_at > ?", time.Now()).
		Find(&sessionMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list active sessions")
	}

	return toSessionDomains(sessionMs), nil
}

// ListActiveByUserID retrieves all non-expired sessions for one user.
func (repo *sessionRepository) ListActiveByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Session, error) {
	var sessionMs []model.SessionModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, time.Now()).
		Find(&sessionMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list active sessions for user")
	}

	return toSessionDomains(sessionMs), nil
}

// Delete removes a session by ID. The rows-affected check is what gives
// rotation its at-most-once guarantee under concurrent refreshes.
func (repo *sessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.SessionModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete session")
	}
	if result.RowsAffected == 0 {
		return repository.ErrSessionNotFound
	}

	return nil
}

// DeleteByUserID removes all sessions for a user.
func (repo *sessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.SessionModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete sessions for user")
	}

	return nil
}

// DeleteExpired opportunistically sweeps expired rows.
func (repo *sessionRepository) DeleteExpired(ctx context.Context) error {
	err := repo.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&model.SessionModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete expired sessions")
	}

	return nil
}

// --- mapping helpers ---

func toSessionDomain(sessionM *model.SessionModel) *entity.Session {
	return &entity.Session{
		ID:          sessionM.ID,
		UserID:      sessionM.UserID,
		TokenDigest: sessionM.TokenDigest,
		UserAgent:   sessionM.UserAgent,
		IP:          sessionM.IP,
		ExpiresAt:   sessionM.ExpiresAt,
		CreatedAt:   sessionM.CreatedAt,
	}
}

func toSessionDomains(sessionMs []model.SessionModel) []*entity.Session {
	sessions := make([]*entity.Session, 0, len(sessionMs))
	for i := range sessionMs {
		sessions = append(sessions, toSessionDomain(&sessionMs[i]))
	}

	return sessions
}

func fromSessionDomain(session *entity.Session) *model.SessionModel {
	return &model.SessionModel{
		ID:          session.ID,
		UserID:      session.UserID,
		TokenDigest: session.TokenDigest,
		UserAgent:   session.UserAgent,
		IP:          session.IP,
		ExpiresAt:   session.ExpiresAt,
		CreatedAt:   session.CreatedAt,
	}
}
