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
	"gorm.io/gorm/clause"
)

// cartRepository implements the domain.CartRepository interface using GORM.
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository is the constructor for cartRepository.
func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

// FindOpenByUserID retrieves the single OPEN cart for a user with its items
// preloaded.
func (repo *cartRepository) FindOpenByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	var cartM model.CartModel
	err := repo.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		Preload("Items.Product").
		Preload("Items.Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_images.pos ASC")
		}).
		Where("user_id = ? AND status = ?", userID, string(entity.CartStatusOpen)).
		First(&cartM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartNotFound
		}

		return nil, errors.Wrap(err, "failed to find open cart")
	}

	return toCartDomain(&cartM), nil
}

// Create persists a new OPEN cart with zeroed totals. The partial unique
// index on (user_id) WHERE status = 'OPEN' arbitrates concurrent creators.
func (repo *cartRepository) Create(ctx context.Context, cart *entity.Cart) error {
	cartM := fromCartDomain(cart)

	if err := repo.db.WithContext(ctx).Create(cartM).Error; err != nil {
		if isUniqueViolationOn(err, "idx_carts_user_open") {
			return repository.ErrOpenCartExists
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create cart")
	}

	cart.CreatedAt = cartM.CreatedAt
	cart.UpdatedAt = cartM.UpdatedAt

	return nil
}

// UpsertItem inserts a cart line or atomically increments the quantity of the
// existing (cart, product) line in a single statement. The stored unit price
// of an existing line wins over the incoming one.
func (repo *cartRepository) UpsertItem(ctx context.Context, item *entity.CartItem) error {
	itemM := fromCartItemDomain(item)

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"qty":        gorm.Expr("cart_items.qty + EXCLUDED.qty"),
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).
		Create(itemM).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert cart item")
	}

	return nil
}

// SetItemQty sets a line's quantity to an exact value.
func (repo *cartRepository) SetItemQty(ctx context.Context, cartID, productID uuid.UUID, qty int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CartItemModel{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Update("qty", qty)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to set cart item quantity")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCartItemNotFound
	}

	return nil
}

// DeleteItem removes one line from a cart. Missing lines are not an error.
func (repo *cartRepository) DeleteItem(ctx context.Context, cartID, productID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&model.CartItemModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete cart item")
	}

	return nil
}

// DeleteItems removes all lines from a cart.
func (repo *cartRepository) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.CartItemModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear cart items")
	}

	return nil
}

// ListItems retrieves all lines of a cart with products preloaded.
func (repo *cartRepository) ListItems(ctx context.Context, cartID uuid.UUID) ([]entity.CartItem, error) {
	var itemMs []model.CartItemModel
	err := repo.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_images.pos ASC")
		}).
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&itemMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cart items")
	}

	items := make([]entity.CartItem, 0, len(itemMs))
	for i := range itemMs {
		items = append(items, *toCartItemDomain(&itemMs[i]))
	}

	return items, nil
}

// UpdateTotals writes the recomputed money fields back onto the cart row.
func (repo *cartRepository) UpdateTotals(ctx context.Context, cartID uuid.UUID, totals repository.CartTotals) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CartModel{}).
		Where("id = ?", cartID).
		Updates(map[string]any{
			"subtotal":     totals.Subtotal,
			"discount":     totals.Discount,
			"delivery_fee": totals.DeliveryFee,
			"total":        totals.Total,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update cart totals")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCartNotFound
	}

	return nil
}

// MarkCheckedOut transitions an OPEN cart to CHECKED_OUT. The status guard
// in the WHERE clause means a cart converts at most once.
func (repo *cartRepository) MarkCheckedOut(ctx context.Context, cartID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CartModel{}).
		Where("id = ? AND status = ?", cartID, string(entity.CartStatusOpen)).
		Update("status", string(entity.CartStatusCheckedOut))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to mark cart checked out")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCartNotOpen
	}

	return nil
}

// --- mapping helpers ---

func toCartDomain(cartM *model.CartModel) *entity.Cart {
	cart := &entity.Cart{
		ID:          cartM.ID,
		UserID:      cartM.UserID,
		Status:      entity.CartStatus(cartM.Status),
		Currency:    cartM.Currency,
		Subtotal:    cartM.Subtotal,
		Discount:    cartM.Discount,
		DeliveryFee: cartM.DeliveryFee,
		Total:       cartM.Total,
		CreatedAt:   cartM.CreatedAt,
		UpdatedAt:   cartM.UpdatedAt,
	}
	for i := range cartM.Items {
		cart.Items = append(cart.Items, *toCartItemDomain(&cartM.Items[i]))
	}

	return cart
}

func fromCartDomain(cart *entity.Cart) *model.CartModel {
	return &model.CartModel{
		ID:          cart.ID,
		UserID:      cart.UserID,
		Status:      string(cart.Status),
		Currency:    cart.Currency,
		Subtotal:    cart.Subtotal,
		Discount:    cart.Discount,
		DeliveryFee: cart.DeliveryFee,
		Total:       cart.Total,
	}
}

func toCartItemDomain(itemM *model.CartItemModel) *entity.CartItem {
	item := &entity.CartItem{
		ID:        itemM.ID,
		CartID:    itemM.CartID,
		ProductID: itemM.ProductID,
		Qty:       itemM.Qty,
		UnitPrice: itemM.UnitPrice,
		Currency:  itemM.Currency,
		CreatedAt: itemM.CreatedAt,
		UpdatedAt: itemM.UpdatedAt,
	}
	if itemM.Product != nil {
		item.Product = toProductDomain(itemM.Product)
	}

	return item
}

func fromCartItemDomain(item *entity.CartItem) *model.CartItemModel {
	return &model.CartItemModel{
		ID:        item.ID,
		CartID:    item.CartID,
		ProductID: item.ProductID,
		Qty:       item.Qty,
		UnitPrice: item.UnitPrice,
		Currency:  item.Currency,
	}
}
