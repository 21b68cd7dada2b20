package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is a node in the catalog tree.
type Category struct {
	ID        uuid.UUID
	Name      string
	Slug      string // Unique, URL-safe.
	ParentID  *uuid.UUID
	Children  []Category
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Product is a sellable catalog item. Stock is the only field in this core
// that is mutated concurrently; the checkout engine decrements it with a
// guarded atomic update and it never goes negative.
type Product struct {
	ID             uuid.UUID
	Name           string
	Slug           string // Unique, URL-safe.
	SKU            string
	Brand          string
	Description    string
	Price          decimal.Decimal // Current list price, 2 decimal places.
	CompareAtPrice *decimal.Decimal
	Currency       string
	Stock          int
	Rating         float64
	ReviewCount    int
	IsActive       bool
	CategoryID     *uuid.UUID
	Images         []ProductImage
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProductImage is an ordered image attached to a product.
type ProductImage struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	URL       string
	Alt       string
	Pos       int
}

// WishlistItem marks a product a user has saved. (UserID, ProductID) is unique.
type WishlistItem struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Product   *Product
	CreatedAt time.Time
}
