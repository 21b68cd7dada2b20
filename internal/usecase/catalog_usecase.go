package usecase

import (
	"context"
	"time"

	"storefront/internal/domain/repository"
	"storefront/internal/util"

	"github.com/google/uuid"
)

// CreateProductInput creates a catalog product. Prices travel as decimal
// strings so the JSON layer never touches binary floats.
type CreateProductInput struct {
	Name        string    `json:"name" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	Price       string    `json:"price" validate:"required"`
	Stock       int       `json:"stock" validate:"gte=0"`
	CategoryID  uuid.UUID `json:"categoryId" validate:"required"`
	ImageURLs   []string  `json:"imageUrls" validate:"dive,url"`
}

// UpdateProductInput patches a product. Nil fields are left untouched.
type UpdateProductInput struct {
	Name        *string    `json:"name" validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Price       *string    `json:"price"`
	Stock       *int       `json:"stock" validate:"omitempty,gte=0"`
	CategoryID  *uuid.UUID `json:"categoryId"`
	IsActive    *bool      `json:"isActive"`
}

// AddImageInput appends one image to a product's gallery.
type AddImageInput struct {
	URL string `json:"url" validate:"required,url"`
	Alt string `json:"alt" validate:"max=200"`
}

// ProductListInput is the browse query: free-text search, category and price
// band filters, and a sort key.
type ProductListInput struct {
	Search       string
	CategorySlug string
	MinPrice     string
	MaxPrice     string
	Sort         repository.ProductSort
	Page         util.Page
}

// ProductImageView is one gallery entry, id included so admins can target
// removals.
type ProductImageView struct {
	ImageID uuid.UUID `json:"imageId"`
	URL     string    `json:"url"`
	Alt     string    `json:"alt,omitempty"`
	Pos     int       `json:"pos"`
}

// ProductView is the public product shape.
type ProductView struct {
	ProductID   uuid.UUID          `json:"productId"`
	Name        string             `json:"name"`
	Slug        string             `json:"slug"`
	Description string             `json:"description,omitempty"`
	Price       string             `json:"price"`
	Stock       int                `json:"stock"`
	Rating      float64            `json:"rating"`
	IsActive    bool               `json:"isActive"`
	CategoryID  uuid.UUID          `json:"categoryId"`
	ImageURLs   []string           `json:"imageUrls,omitempty"`
	Images      []ProductImageView `json:"images,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// CategoryInput creates or renames a category.
type CategoryInput struct {
	Name string `json:"name" validate:"required,max=120"`
}

// CategoryView is the public category shape.
type CategoryView struct {
	CategoryID uuid.UUID `json:"categoryId"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
}

// ProductUsecase serves the public catalog and the admin product operations.
type ProductUsecase interface {
	Create(ctx context.Context, input *CreateProductInput) (*ProductView, error)
	Update(ctx context.Context, productID uuid.UUID, input *UpdateProductInput) (*ProductView, error)
	Delete(ctx context.Context, productID uuid.UUID) error

	AddImage(ctx context.Context, productID uuid.UUID, input *AddImageInput) (*ProductView, error)
	RemoveImage(ctx context.Context, productID uuid.UUID, imageID uuid.UUID) (*ProductView, error)

	List(ctx context.Context, input *ProductListInput) ([]ProductView, int64, error)
	GetBySlug(ctx context.Context, slug string) (*ProductView, error)
	GetByID(ctx context.Context, productID uuid.UUID) (*ProductView, error)
}

// CategoryUsecase manages the category tree (flat, for now).
type CategoryUsecase interface {
	Create(ctx context.Context, input *CategoryInput) (*CategoryView, error)
	Update(ctx context.Context, categoryID uuid.UUID, input *CategoryInput) (*CategoryView, error)
	Delete(ctx context.Context, categoryID uuid.UUID) error
	List(ctx context.Context) ([]CategoryView, error)
}
