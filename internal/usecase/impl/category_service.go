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

// categoryService implements the CategoryUsecase interface.
type categoryService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// NewCategoryService is the constructor for categoryService.
func NewCategoryService(
	txManager repository.TransactionManager,
	logger *slog.Logger,
) usecase.CategoryUsecase {
	return &categoryService{
		txManager: txManager,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *categoryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// categorySlugTaken reports whether any category already owns the slug.
func categorySlugTaken(categoryRepo repository.CategoryRepository) func(context.Context, string) bool {
	return func(ctx context.Context, slug string) bool {
		categories, err := categoryRepo.List(ctx)
		if err != nil {
			return false
		}
		for _, category := range categories {
			if category.Slug == slug {
				return true
			}
		}

		return false
	}
}

// Create adds a category.
func (srv *categoryService) Create(ctx context.Context, input *usecase.CategoryInput) (*usecase.CategoryView, error) {
	var category *entity.Category

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		categoryRepo := repoFactory.CategoryRepo()

		slug, err := uniqueSlug(ctx, categorySlugTaken(categoryRepo), input.Name)
		if err != nil {
			return err
		}

		category = &entity.Category{
			ID:   uuid.New(),
			Name: input.Name,
			Slug: slug,
		}
		if err := categoryRepo.Create(ctx, category); err != nil {
			return errors.Wrap(err, "failed to create category")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to create category", slog.Any("error", err), slog.String("name", input.Name))

		return nil, err
	}
	srv.log(ctx).Info("Created category", slog.Any("category_id", category.ID), slog.String("slug", category.Slug))

	return newCategoryView(category), nil
}

// Update renames a category, re-deriving its slug.
func (srv *categoryService) Update(ctx context.Context, categoryID uuid.UUID, input *usecase.CategoryInput) (*usecase.CategoryView, error) {
	var category *entity.Category

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		categoryRepo := repoFactory.CategoryRepo()

		found, err := categoryRepo.FindByID(ctx, categoryID)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "category not found")
			}

			return errors.Wrap(err, "failed to find category")
		}
		category = found

		if input.Name != category.Name {
			slug, err := uniqueSlug(ctx, categorySlugTaken(categoryRepo), input.Name)
			if err != nil {
				return err
			}
			category.Name = input.Name
			category.Slug = slug
		}

		if err := categoryRepo.Update(ctx, category); err != nil {
			return errors.Wrap(err, "failed to update category")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to update category", slog.Any("error", err), slog.Any("category_id", categoryID))

		return nil, err
	}

	return newCategoryView(category), nil
}

// Delete removes a category.
func (srv *categoryService) Delete(ctx context.Context, categoryID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.CategoryRepo().Delete(ctx, categoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "category not found")
			}

			return errors.Wrap(err, "failed to delete category")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete category", slog.Any("error", err), slog.Any("category_id", categoryID))

		return err
	}
	srv.log(ctx).Info("Deleted category", slog.Any("category_id", categoryID))

	return nil
}

// List returns all categories ordered by name.
func (srv *categoryService) List(ctx context.Context) ([]usecase.CategoryView, error) {
	var views []usecase.CategoryView

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		categories, err := repoFactory.CategoryRepo().List(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list categories")
		}

		views = make([]usecase.CategoryView, 0, len(categories))
		for _, category := range categories {
			views = append(views, *newCategoryView(category))
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to list categories", slog.Any("error", err))

		return nil, err
	}

	return views, nil
}

// newCategoryView materializes a category into its transport shape.
func newCategoryView(category *entity.Category) *usecase.CategoryView {
	return &usecase.CategoryView{
		CategoryID: category.ID,
		Name:       category.Name,
		Slug:       category.Slug,
	}
}
