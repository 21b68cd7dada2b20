package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// loginMethodRepository implements the domain.LoginMethodRepository interface using GORM.
type loginMethodRepository struct {
	db *gorm.DB
}

// NewLoginMethodRepository is the constructor for loginMethodRepository.
func NewLoginMethodRepository(db *gorm.DB) repository.LoginMethodRepository {
	return &loginMethodRepository{db: db}
}

// Create persists a new login method. The unique (provider, provider_user_id)
// index enforces one account per normalized identifier.
func (repo *loginMethodRepository) Create(ctx context.Context, method *entity.LoginMethod) error {
	methodM := fromLoginMethodDomain(method)

	if err := repo.db.WithContext(ctx).Create(methodM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("identifier already registered")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create login method")
	}

	method.CreatedAt = methodM.CreatedAt

	return nil
}

// FindByProvider retrieves a login method by its provider and provider-specific id.
func (repo *loginMethodRepository) FindByProvider(ctx context.Context, provider entity.Provider, providerUserID string) (*entity.LoginMethod, error) {
	var methodM model.LoginMethodModel
	err := repo.db.WithContext(ctx).
		Where("provider = ? AND provider_user_id = ?", provider.String(), providerUserID).
		First(&methodM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrLoginMethodNotFound
		}

		return nil, errors.Wrap(err, "failed to find login method")
	}

	return toLoginMethodDomain(&methodM), nil
}

// ListByUserID retrieves all login methods linked to a user.
func (repo *loginMethodRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]entity.LoginMethod, error) {
	var methodMs []model.LoginMethodModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&methodMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list login methods")
	}

	methods := make([]entity.LoginMethod, 0, len(methodMs))
	for i := range methodMs {
		methods = append(methods, *toLoginMethodDomain(&methodMs[i]))
	}

	return methods, nil
}

// --- mapping helpers ---

func toLoginMethodDomain(methodM *model.LoginMethodModel) *entity.LoginMethod {
	return &entity.LoginMethod{
		ID:             methodM.ID,
		UserID:         methodM.UserID,
		Provider:       entity.Provider(methodM.Provider),
		ProviderUserID: methodM.ProviderUserID,
		Email:          strOrEmpty(methodM.Email),
		Phone:          strOrEmpty(methodM.Phone),
		PasswordHash:   methodM.PasswordHash,
		CreatedAt:      methodM.CreatedAt,
	}
}

func fromLoginMethodDomain(method *entity.LoginMethod) *model.LoginMethodModel {
	return &model.LoginMethodModel{
		ID:             method.ID,
		UserID:         method.UserID,
		Provider:       method.Provider.String(),
		ProviderUserID: method.ProviderUserID,
		Email:          strOrNil(method.Email),
		Phone:          strOrNil(method.Phone),
		PasswordHash:   method.PasswordHash,
	}
}
