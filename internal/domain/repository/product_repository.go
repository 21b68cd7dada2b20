package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for catalog persistence.
var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrSlugTaken is returned when a product or category slug is already in use.
	ErrSlugTaken = errors.New("slug already in use")
	// ErrInsufficientStock is returned when a guarded stock decrement would
	// drive the stock count negative.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrNegativeStock is returned when a stock overwrite trips the
	// non-negative check constraint.
	ErrNegativeStock = errors.New("stock must not be negative")
)

// ProductSort enumerates the supported product list orderings.
type ProductSort string

const (
	// ProductSortNew orders by creation time, newest first.
	ProductSortNew ProductSort = "new"
	// ProductSortPriceAsc orders by price, cheapest first.
	ProductSortPriceAsc ProductSort = "price_asc"
	// ProductSortPriceDesc orders by price, most expensive first.
	ProductSortPriceDesc ProductSort = "price_desc"
	// ProductSortRating orders by rating then review count, best first.
	ProductSortRating ProductSort = "rating"
)

// ProductQuery carries the filters for a product listing.
type ProductQuery struct {
	Search     string
	CategoryID *uuid.UUID
	MinPrice   string
	MaxPrice   string
	Sort       ProductSort
	Page       int
	PageSize   int
	ActiveOnly bool
}

// ProductRepository defines the standard operations for product persistence.
type ProductRepository interface {
	// Create persists a new product with its images.
	Create(ctx context.Context, product *entity.Product) error

	// Update modifies an existing product.
	Update(ctx context.Context, product *entity.Product) error

	// Delete removes a product.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID retrieves a product with its images.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// FindBySlug retrieves a product by its unique slug.
	FindBySlug(ctx context.Context, slug string) (*entity.Product, error)

	// List retrieves a filtered, sorted page of products plus the total count.
	List(ctx context.Context, query ProductQuery) ([]*entity.Product, int64, error)

	// DecrementStock atomically decrements stock by qty, guarded by a
	// sufficiency check in the same statement. It returns
	// ErrProductNotFound when the product no longer exists and
	// ErrInsufficientStock when stock < qty. Never read-modify-write.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error

	// SetStock overwrites the stock count (admin inventory adjustment).
	// It returns ErrNegativeStock when the new count is below zero.
	SetStock(ctx context.Context, id uuid.UUID, stock int) error

	// AddImage appends an image to a product.
	AddImage(ctx context.Context, image *entity.ProductImage) error

	// DeleteImage removes one image from a product.
	DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error
}
