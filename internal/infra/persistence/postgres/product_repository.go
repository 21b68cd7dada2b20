package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// productRepository implements the domain.ProductRepository interface using GORM.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// Create persists a new product with its images.
func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		if isUniqueViolationOn(err, "idx_products_slug") || isUniqueViolationOn(err, "slug") {
			return repository.ErrSlugTaken
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// Update modifies an existing product row. Stock is excluded on purpose:
// it only moves through DecrementStock and SetStock.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":             productM.Name,
			"slug":             productM.Slug,
			"sku":              productM.SKU,
			"brand":            productM.Brand,
			"description":      productM.Description,
			"price":            productM.Price,
			"compare_at_price": productM.CompareAtPrice,
			"currency":         productM.Currency,
			"rating":           productM.Rating,
			"review_count":     productM.ReviewCount,
			"is_active":        productM.IsActive,
			"category_id":      productM.CategoryID,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrSlugTaken
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// Delete removes a product and its images.
func (repo *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductImageModel{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&model.ProductModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repository.ErrProductNotFound
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return repository.ErrProductNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to delete product")
	}

	return nil
}

// FindByID retrieves a product with its images.
func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel
	err := repo.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("pos ASC") }).
		Where("id = ?", id).
		First(&productM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by id")
	}

	return toProductDomain(&productM), nil
}

// FindBySlug retrieves a product by its unique slug.
func (repo *productRepository) FindBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	var productM model.ProductModel
	err := repo.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("pos ASC") }).
		Where("slug = ?", slug).
		First(&productM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by slug")
	}

	return toProductDomain(&productM), nil
}

// List retrieves a filtered, sorted page of products plus the total count.
func (repo *productRepository) List(ctx context.Context, query repository.ProductQuery) ([]*entity.Product, int64, error) {
	tx := repo.db.WithContext(ctx).Model(&model.ProductModel{})

	if query.ActiveOnly {
		tx = tx.Where("is_active = ?", true)
	}
	if query.Search != "" {
		tx = tx.Where("name ILIKE ?", "%"+query.Search+"%")
	}
	if query.CategoryID != nil {
		tx = tx.Where("category_id = ?", *query.CategoryID)
	}
	if query.MinPrice != "" {
		if minPrice, err := decimal.NewFromString(query.MinPrice); err == nil {
			tx = tx.Where("price >= ?", minPrice)
		}
	}
	if query.MaxPrice != "" {
		if maxPrice, err := decimal.NewFromString(query.MaxPrice); err == nil {
			tx = tx.Where("price <= ?", maxPrice)
		}
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count products")
	}

	switch query.Sort {
	case repository.ProductSortPriceAsc:
		tx = tx.Order("price ASC")
	case repository.ProductSortPriceDesc:
		tx = tx.Order("price DESC")
	case repository.ProductSortRating:
		tx = tx.Order("rating DESC, review_count DESC")
	default:
		tx = tx.Order("created_at DESC")
	}

	offset := (query.Page - 1) * query.PageSize
	if offset < 0 {
		offset = 0
	}
	if query.PageSize > 0 {
		tx = tx.Offset(offset).Limit(query.PageSize)
	}

	var productMs []model.ProductModel
	if err := tx.Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("pos ASC") }).
		Find(&productMs).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list products")
	}

	products := make([]*entity.Product, 0, len(productMs))
	for i := range productMs {
		products = append(products, toProductDomain(&productMs[i]))
	}

	return products, total, nil
}

// DecrementStock decrements stock by qty with the sufficiency check folded
// into the UPDATE itself, so two concurrent checkouts can never oversell.
func (repo *productRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to decrement stock")
	}
	if result.RowsAffected == 0 {
		// Zero rows means either the product vanished or its stock was short.
		var count int64
		if err := repo.db.WithContext(ctx).
			Model(&model.ProductModel{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to check product existence")
		}
		if count == 0 {
			return repository.ErrProductNotFound
		}

		return repository.ErrInsufficientStock
	}

	return nil
}

// SetStock overwrites the stock count.
func (repo *productRepository) SetStock(ctx context.Context, id uuid.UUID, stock int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", id).
		Update("stock", stock)
	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return repository.ErrNegativeStock
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to set stock")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// AddImage appends an image to a product.
func (repo *productRepository) AddImage(ctx context.Context, image *entity.ProductImage) error {
	imageM := &model.ProductImageModel{
		ID:        image.ID,
		ProductID: image.ProductID,
		URL:       image.URL,
		Alt:       image.Alt,
		Pos:       image.Pos,
	}
	if err := repo.db.WithContext(ctx).Create(imageM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to add product image")
	}

	return nil
}

// DeleteImage removes one image from a product.
func (repo *productRepository) DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", imageID, productID).
		Delete(&model.ProductImageModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete product image")
	}

	return nil
}

// --- mapping helpers ---

func toProductDomain(productM *model.ProductModel) *entity.Product {
	product := &entity.Product{
		ID:             productM.ID,
		Name:           productM.Name,
		Slug:           productM.Slug,
		SKU:            productM.SKU,
		Brand:          productM.Brand,
		Description:    productM.Description,
		Price:          productM.Price,
		CompareAtPrice: productM.CompareAtPrice,
		Currency:       productM.Currency,
		Stock:          productM.Stock,
		Rating:         productM.Rating,
		ReviewCount:    productM.ReviewCount,
		IsActive:       productM.IsActive,
		CategoryID:     productM.CategoryID,
		CreatedAt:      productM.CreatedAt,
		UpdatedAt:      productM.UpdatedAt,
	}
	for i := range productM.Images {
		imageM := &productM.Images[i]
		product.Images = append(product.Images, entity.ProductImage{
			ID:        imageM.ID,
			ProductID: imageM.ProductID,
			URL:       imageM.URL,
			Alt:       imageM.Alt,
			Pos:       imageM.Pos,
		})
	}

	return product
}

func fromProductDomain(product *entity.Product) *model.ProductModel {
	productM := &model.ProductModel{
		ID:             product.ID,
		Name:           product.Name,
		Slug:           product.Slug,
		SKU:            product.SKU,
		Brand:          product.Brand,
		Description:    product.Description,
		Price:          product.Price.Round(2),
		CompareAtPrice: product.CompareAtPrice,
		Currency:       product.Currency,
		Stock:          product.Stock,
		Rating:         product.Rating,
		ReviewCount:    product.ReviewCount,
		IsActive:       product.IsActive,
		CategoryID:     product.CategoryID,
	}
	for i := range product.Images {
		image := &product.Images[i]
		productM.Images = append(productM.Images, model.ProductImageModel{
			ID:        image.ID,
			ProductID: image.ProductID,
			URL:       image.URL,
			Alt:       image.Alt,
			Pos:       image.Pos,
		})
	}

	return productM
}
