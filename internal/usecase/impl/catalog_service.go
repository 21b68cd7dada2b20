package impl

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"
	"storefront/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const slugAttempts = 5

// catalogService implements the ProductUsecase interface.
type catalogService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(
	txManager repository.TransactionManager,
	logger *slog.Logger,
) usecase.ProductUsecase {
	return &catalogService{
		txManager: txManager,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// parsePrice converts a decimal string into a non-negative price.
func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.Wrap(domainerrors.ErrValidationFailed, "price is not a valid decimal")
	}
	if price.IsNegative() {
		return decimal.Zero, errors.Wrap(domainerrors.ErrValidationFailed, "price must not be negative")
	}

	return price.Round(2), nil
}

// uniqueSlug derives a URL slug from the name, appending a short random
// suffix while the base form is taken.
func uniqueSlug(ctx context.Context, taken func(context.Context, string) bool, name string) (string, error) {
	base := util.Slugify(name)
	if base == "" {
		return "", errors.Wrap(domainerrors.ErrValidationFailed, "name does not yield a slug")
	}

	candidate := base
	for attempt := 0; attempt < slugAttempts; attempt++ {
		if !taken(ctx, candidate) {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%04d", base, rand.Intn(10000))
	}

	return "", errors.Wrap(domainerrors.ErrConflict, "could not find a free slug")
}

// productSlugTaken reports whether any product already owns the slug.
func productSlugTaken(productRepo repository.ProductRepository) func(context.Context, string) bool {
	return func(ctx context.Context, slug string) bool {
		_, err := productRepo.FindBySlug(ctx, slug)

		return err == nil
	}
}

// Create adds a product to the catalog.
func (srv *catalogService) Create(ctx context.Context, input *usecase.CreateProductInput) (*usecase.ProductView, error) {
	price, err := parsePrice(input.Price)
	if err != nil {
		return nil, err
	}

	var product *entity.Product

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.ProductRepo()

		// 1. The category must exist
		if _, err := repoFactory.CategoryRepo().FindByID(ctx, input.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "category not found")
			}

			return errors.Wrap(err, "failed to find category")
		}

		// 2. Derive a free slug
		slug, err := uniqueSlug(ctx, productSlugTaken(productRepo), input.Name)
		if err != nil {
			return err
		}

		// 3. Persist the product with its images
		categoryID := input.CategoryID
		product = &entity.Product{
			ID:          uuid.New(),
			Name:        input.Name,
			Slug:        slug,
			Description: input.Description,
			Price:       price,
			Currency:    defaultCurrency,
			Stock:       input.Stock,
			IsActive:    true,
			CategoryID:  &categoryID,
		}
		for pos, url := range input.ImageURLs {
			product.Images = append(product.Images, entity.ProductImage{
				ID:        uuid.New(),
				ProductID: product.ID,
				URL:       url,
				Pos:       pos,
			})
		}
		if err := productRepo.Create(ctx, product); err != nil {
			if errors.Is(err, repository.ErrSlugTaken) {
				return errors.Wrap(domainerrors.ErrConflict, "slug already in use")
			}

			return errors.Wrap(err, "failed to create product")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to create product", slog.Any("error", err), slog.String("name", input.Name))

		return nil, err
	}
	srv.log(ctx).Info("Created product", slog.Any("product_id", product.ID), slog.String("slug", product.Slug))

	return newProductView(product), nil
}

// Update patches a product; nil input fields are left untouched.
func (srv *catalogService) Update(ctx context.Context, productID uuid.UUID, input *usecase.UpdateProductInput) (*usecase.ProductView, error) {
	var price *decimal.Decimal
	if input.Price != nil {
		parsed, err := parsePrice(*input.Price)
		if err != nil {
			return nil, err
		}
		price = &parsed
	}

	var product *entity.Product

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.ProductRepo()

		found, err := productRepo.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "product not found")
			}

			return errors.Wrap(err, "failed to find product")
		}
		product = found

		if input.Name != nil && *input.Name != product.Name {
			slug, err := uniqueSlug(ctx, productSlugTaken(productRepo), *input.Name)
			if err != nil {
				return err
			}
			product.Name = *input.Name
			product.Slug = slug
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if price != nil {
			product.Price = *price
		}
		if input.CategoryID != nil {
			if _, err := repoFactory.CategoryRepo().FindByID(ctx, *input.CategoryID); err != nil {
				if errors.Is(err, repository.ErrCategoryNotFound) {
					return errors.Wrap(domainerrors.ErrNotFound, "category not found")
				}

				return errors.Wrap(err, "failed to find category")
			}
			product.CategoryID = input.CategoryID
		}
		if input.IsActive != nil {
			product.IsActive = *input.IsActive
		}

		if err := productRepo.Update(ctx, product); err != nil {
			return errors.Wrap(err, "failed to update product")
		}

		// Stock moves through its own guarded path so races with checkout
		// cannot resurrect an already spent quantity.
		if input.Stock != nil {
			if err := productRepo.SetStock(ctx, productID, *input.Stock); err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					return errors.Wrap(domainerrors.ErrNotFound, "product not found")
				}
				if errors.Is(err, repository.ErrNegativeStock) {
					return errors.Wrap(domainerrors.ErrValidationFailed, "stock must not be negative")
				}

				return errors.Wrap(err, "failed to set stock")
			}
			product.Stock = *input.Stock
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to update product", slog.Any("error", err), slog.Any("product_id", productID))

		return nil, err
	}

	return newProductView(product), nil
}

// Delete removes a product from the catalog.
func (srv *catalogService) Delete(ctx context.Context, productID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.ProductRepo().Delete(ctx, productID); err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "product not found")
			}

			return errors.Wrap(err, "failed to delete product")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete product", slog.Any("error", err), slog.Any("product_id", productID))

		return err
	}
	srv.log(ctx).Info("Deleted product", slog.Any("product_id", productID))

	return nil
}

// AddImage appends one image to the end of a product's gallery.
func (srv *catalogService) AddImage(ctx context.Context, productID uuid.UUID, input *usecase.AddImageInput) (*usecase.ProductView, error) {
	var product *entity.Product

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.ProductRepo()

		found, err := productRepo.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "product not found")
			}

			return errors.Wrap(err, "failed to find product")
		}

		image := &entity.ProductImage{
			ID:        uuid.New(),
			ProductID: found.ID,
			URL:       input.URL,
			Alt:       input.Alt,
			Pos:       len(found.Images),
		}
		if err := productRepo.AddImage(ctx, image); err != nil {
			return errors.Wrap(err, "failed to add product image")
		}

		found.Images = append(found.Images, *image)
		product = found

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to add product image", slog.Any("error", err), slog.Any("product_id", productID))

		return nil, err
	}
	srv.log(ctx).Info("Added product image", slog.Any("product_id", productID))

	return newProductView(product), nil
}

// RemoveImage drops one image from a product's gallery. Removing an image
// that is already gone is not an error.
func (srv *catalogService) RemoveImage(ctx context.Context, productID uuid.UUID, imageID uuid.UUID) (*usecase.ProductView, error) {
	var product *entity.Product

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.ProductRepo()

		if _, err := productRepo.FindByID(ctx, productID); err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "product not found")
			}

			return errors.Wrap(err, "failed to find product")
		}

		if err := productRepo.DeleteImage(ctx, productID, imageID); err != nil {
			return errors.Wrap(err, "failed to delete product image")
		}

		// Re-read for the fresh gallery
		found, err := productRepo.FindByID(ctx, productID)
		if err != nil {
			return errors.Wrap(err, "failed to reload product")
		}
		product = found

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to remove product image", slog.Any("error", err), slog.Any("product_id", productID))

		return nil, err
	}

	return newProductView(product), nil
}

// List returns a filtered, sorted page of active products.
func (srv *catalogService) List(ctx context.Context, input *usecase.ProductListInput) ([]usecase.ProductView, int64, error) {
	var (
		views []usecase.ProductView
		total int64
	)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		query := repository.ProductQuery{
			Search:     input.Search,
			MinPrice:   input.MinPrice,
			MaxPrice:   input.MaxPrice,
			Sort:       input.Sort,
			Page:       input.Page.Page,
			PageSize:   input.Page.PageSize,
			ActiveOnly: true,
		}

		// Category filter arrives as a slug and is resolved to an id first
		if input.CategorySlug != "" {
			categories, err := repoFactory.CategoryRepo().List(ctx)
			if err != nil {
				return errors.Wrap(err, "failed to list categories")
			}
			for _, category := range categories {
				if category.Slug == input.CategorySlug {
					id := category.ID
					query.CategoryID = &id

					break
				}
			}
			if query.CategoryID == nil {
				return errors.Wrap(domainerrors.ErrNotFound, "category not found")
			}
		}

		products, count, err := repoFactory.ProductRepo().List(ctx, query)
		if err != nil {
			return errors.Wrap(err, "failed to list products")
		}

		total = count
		views = make([]usecase.ProductView, 0, len(products))
		for _, product := range products {
			views = append(views, *newProductView(product))
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to list products", slog.Any("error", err))

		return nil, 0, err
	}

	return views, total, nil
}

// GetBySlug returns one product by its URL slug.
func (srv *catalogService) GetBySlug(ctx context.Context, slug string) (*usecase.ProductView, error) {
	var product *entity.Product

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.ProductRepo().FindBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "product not found")
			}

			return errors.Wrap(err, "failed to find product")
		}
		product = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return newProductView(product), nil
}

// GetByID returns one product by id.
func (srv *catalogService) GetByID(ctx context.Context, productID uuid.UUID) (*usecase.ProductView, error) {
	var product *entity.Product

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.ProductRepo().FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "product not found")
			}

			return errors.Wrap(err, "failed to find product")
		}
		product = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return newProductView(product), nil
}

// newProductView materializes a product into its transport shape.
func newProductView(product *entity.Product) *usecase.ProductView {
	out := &usecase.ProductView{
		ProductID:   product.ID,
		Name:        product.Name,
		Slug:        product.Slug,
		Description: product.Description,
		Price:       product.Price.StringFixed(2),
		Stock:       product.Stock,
		Rating:      product.Rating,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
	}
	if product.CategoryID != nil {
		out.CategoryID = *product.CategoryID
	}
	for i := range product.Images {
		out.ImageURLs = append(out.ImageURLs, product.Images[i].URL)
		out.Images = append(out.Images, usecase.ProductImageView{
			ImageID: product.Images[i].ID,
			URL:     product.Images[i].URL,
			Alt:     product.Images[i].Alt,
			Pos:     product.Images[i].Pos,
		})
	}

	return out
}
