package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// wishlistService implements the WishlistUsecase interface.
type wishlistService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// NewWishlistService is the constructor for wishlistService.
func NewWishlistService(
	txManager repository.TransactionManager,
	logger *slog.Logger,
) usecase.WishlistUsecase {
	return &wishlistService{
		txManager: txManager,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *wishlistService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// List returns the user's saved products, newest first.
func (srv *wishlistService) List(ctx context.Context, userID uuid.UUID) ([]usecase.WishlistItemView, error) {
	var views []usecase.WishlistItemView

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		items, err := repoFactory.WishlistRepo().ListByUserID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to list wishlist")
		}

		views = make([]usecase.WishlistItemView, 0, len(items))
		for _, item := range items {
			line := usecase.WishlistItemView{
				ProductID: item.ProductID,
				AddedAt:   item.CreatedAt,
			}
			if item.Product != nil {
				line.Name = item.Product.Name
				line.Slug = item.Product.Slug
				line.Price = item.Product.Price.StringFixed(2)
				line.InStock = item.Product.Stock > 0
				if len(item.Product.Images) > 0 {
					line.ImageURL = item.Product.Images[0].URL
				}
			}
			views = append(views, line)
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to list wishlist", slog.Any("error", err), slog.Any("user_id", userID))

		return nil, err
	}

	return views, nil
}

// Toggle flips a product's wishlist membership and reports the new state.
func (srv *wishlistService) Toggle(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var added bool

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		wishlistRepo := repoFactory.WishlistRepo()

		// 1. The product must exist
		if _, err := repoFactory.ProductRepo().FindByID(ctx, productID); err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "product not found")
			}

			return errors.Wrap(err, "failed to find product")
		}

		// 2. Present means remove, absent means add
		_, err := wishlistRepo.Find(ctx, userID, productID)
		switch {
		case err == nil:
			if err := wishlistRepo.Delete(ctx, userID, productID); err != nil {
				return errors.Wrap(err, "failed to remove wishlist item")
			}
			added = false
		case errors.Is(err, repository.ErrWishlistItemNotFound):
			item := &entity.WishlistItem{
				ID:        uuid.New(),
				UserID:    userID,
				ProductID: productID,
			}
			if err := wishlistRepo.Create(ctx, item); err != nil {
				return errors.Wrap(err, "failed to add wishlist item")
			}
			added = true
		default:
			return errors.Wrap(err, "failed to find wishlist item")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to toggle wishlist item", slog.Any("error", err), slog.Any("user_id", userID), slog.Any("product_id", productID))

		return false, err
	}
	srv.log(ctx).Debug("Toggled wishlist item", slog.Any("user_id", userID), slog.Any("product_id", productID), slog.Bool("added", added))

	return added, nil
}

// Remove deletes a wishlist entry. Removing an absent product is a no-op.
func (srv *wishlistService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.WishlistRepo().Delete(ctx, userID, productID); err != nil && !errors.Is(err, repository.ErrWishlistItemNotFound) {
			return errors.Wrap(err, "failed to remove wishlist item")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to remove wishlist item", slog.Any("error", err), slog.Any("user_id", userID), slog.Any("product_id", productID))

		return err
	}

	return nil
}
