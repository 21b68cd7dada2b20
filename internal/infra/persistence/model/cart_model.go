package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartModel mirrors the 'carts' table. The partial unique index permits at
// most one OPEN cart per user while leaving checked-out history unconstrained.
type CartModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_carts_user_open,where:status = 'OPEN'"`
	Status      string          `gorm:"type:varchar(20);not null;default:'OPEN'"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'USD'"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Discount    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	DeliveryFee decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Total       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []CartItemModel `gorm:"foreignKey:CartID"`
}

// TableName explicitly sets the table name for GORM.
func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel mirrors the 'cart_items' table. The (cart_id, product_id)
// unique index is what makes the add-item upsert a single atomic statement.
type CartItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	CartID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	Qty       int             `gorm:"not null;check:qty >= 1"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency  string          `gorm:"type:varchar(3);not null;default:'USD'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Product *ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (CartItemModel) TableName() string {
	return "cart_items"
}

// OrderModel mirrors the 'orders' table. The unique code index arbitrates
// generated-code collisions; callers regenerate on conflict.
type OrderModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	Code      string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	AddressID *uuid.UUID      `gorm:"type:uuid"`
	Note      string          `gorm:"type:text"`
	Total     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status    string          `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedAt time.Time

	Items []OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel mirrors the 'order_items' table. Rows are immutable price
// snapshots taken at checkout.
type OrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Qty       int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency  string          `gorm:"type:varchar(3);not null;default:'USD'"`

	Product *ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}
