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

// wishlistRepository implements the domain.WishlistRepository interface using GORM.
type wishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository is the constructor for wishlistRepository.
func NewWishlistRepository(db *gorm.DB) repository.WishlistRepository {
	return &wishlistRepository{db: db}
}

// ListByUserID retrieves a user's wishlist, newest first, products preloaded.
func (repo *wishlistRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.WishlistItem, error) {
	var itemMs []model.WishlistItemModel
	err := repo.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_images.pos ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&itemMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list wishlist items")
	}

	items := make([]*entity.WishlistItem, 0, len(itemMs))
	for i := range itemMs {
		items = append(items, toWishlistItemDomain(&itemMs[i]))
	}

	return items, nil
}

// Find retrieves one wishlist entry by its unique (user, product) pair.
func (repo *wishlistRepository) Find(ctx context.Context, userID, productID uuid.UUID) (*entity.WishlistItem, error) {
	var itemM model.WishlistItemModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&itemM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrWishlistItemNotFound
		}

		return nil, errors.Wrap(err, "failed to find wishlist item")
	}

	return toWishlistItemDomain(&itemM), nil
}

// Create persists a new wishlist entry.
func (repo *wishlistRepository) Create(ctx context.Context, item *entity.WishlistItem) error {
	itemM := &model.WishlistItemModel{
		ID:        item.ID,
		UserID:    item.UserID,
		ProductID: item.ProductID,
	}

	if err := repo.db.WithContext(ctx).Create(itemM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create wishlist item")
	}

	item.CreatedAt = itemM.CreatedAt

	return nil
}

// Delete removes a wishlist entry by its (user, product) pair. Missing
// entries are not an error.
func (repo *wishlistRepository) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.WishlistItemModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete wishlist item")
	}

	return nil
}

// --- mapping helpers ---

func toWishlistItemDomain(itemM *model.WishlistItemModel) *entity.WishlistItem {
	item := &entity.WishlistItem{
		ID:        itemM.ID,
		UserID:    itemM.UserID,
		ProductID: itemM.ProductID,
		CreatedAt: itemM.CreatedAt,
	}
	if itemM.Product != nil {
		item.Product = toProductDomain(itemM.Product)
	}

	return item
}
