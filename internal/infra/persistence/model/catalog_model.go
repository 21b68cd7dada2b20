package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryModel mirrors the 'categories' table.
type CategoryModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name      string     `gorm:"type:varchar(120);not null"`
	Slug      string     `gorm:"type:varchar(140);not null;uniqueIndex"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Children []CategoryModel `gorm:"foreignKey:ParentID"`
}

// TableName explicitly sets the table name for GORM.
func (CategoryModel) TableName() string {
	return "categories"
}

// ProductModel mirrors the 'products' table. Money columns are numeric(12,2);
// the stock check constraint backs the guarded atomic decrement.
type ProductModel struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name           string           `gorm:"type:varchar(200);not null"`
	Slug           string           `gorm:"type:varchar(220);not null;uniqueIndex"`
	SKU            string           `gorm:"column:sku;type:varchar(64)"`
	Brand          string           `gorm:"type:varchar(120)"`
	Description    string           `gorm:"type:text"`
	Price          decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	CompareAtPrice *decimal.Decimal `gorm:"type:numeric(12,2)"`
	Currency       string           `gorm:"type:varchar(3);not null;default:'USD'"`
	Stock          int              `gorm:"not null;default:0;check:stock >= 0"`
	Rating         float64          `gorm:"not null;default:0"`
	ReviewCount    int              `gorm:"not null;default:0"`
	IsActive       bool             `gorm:"not null;default:true;index"`
	CategoryID     *uuid.UUID       `gorm:"type:uuid;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Images []ProductImageModel `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

// ProductImageModel mirrors the 'product_images' table.
type ProductImageModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL       string    `gorm:"column:url;type:varchar(500);not null"`
	Alt       string    `gorm:"type:varchar(200)"`
	Pos       int       `gorm:"not null;default:0"`
}

// TableName explicitly sets the table name for GORM.
func (ProductImageModel) TableName() string {
	return "product_images"
}

// WishlistItemModel mirrors the 'wishlist_items' table.
type WishlistItemModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_items_user_product"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_items_user_product"`
	CreatedAt time.Time

	Product *ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (WishlistItemModel) TableName() string {
	return "wishlist_items"
}
