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
)

// orderRepository implements the domain.OrderRepository interface using GORM.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// Create persists an order together with its item snapshots. A collision on
// the generated code surfaces as ErrOrderCodeTaken so the caller regenerates.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isUniqueViolationOn(err, "idx_orders_code") {
			return repository.ErrOrderCodeTaken
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.CreatedAt = orderM.CreatedAt

	return nil
}

// ListByUserID retrieves a page of a user's orders, newest first, plus the
// total count for pagination.
func (repo *orderRepository) ListByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*entity.Order, int64, error) {
	query := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count orders")
	}

	var orderMs []model.OrderModel
	err := query.
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_images.pos ASC")
		}).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orderMs).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list orders")
	}

	orders := make([]*entity.Order, 0, len(orderMs))
	for i := range orderMs {
		orders = append(orders, toOrderDomain(&orderMs[i]))
	}

	return orders, total, nil
}

// FindByIDForUser retrieves one order scoped to its owner, so a user can
// never read another user's order.
func (repo *orderRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_images.pos ASC")
		}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&orderM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	return toOrderDomain(&orderM), nil
}

// --- mapping helpers ---

func toOrderDomain(orderM *model.OrderModel) *entity.Order {
	order := &entity.Order{
		ID:        orderM.ID,
		Code:      orderM.Code,
		UserID:    orderM.UserID,
		AddressID: orderM.AddressID,
		Note:      orderM.Note,
		Total:     orderM.Total,
		Status:    entity.OrderStatus(orderM.Status),
		CreatedAt: orderM.CreatedAt,
	}
	for i := range orderM.Items {
		order.Items = append(order.Items, *toOrderItemDomain(&orderM.Items[i]))
	}

	return order
}

func toOrderItemDomain(itemM *model.OrderItemModel) *entity.OrderItem {
	item := &entity.OrderItem{
		ID:        itemM.ID,
		OrderID:   itemM.OrderID,
		ProductID: itemM.ProductID,
		Qty:       itemM.Qty,
		UnitPrice: itemM.UnitPrice,
		Currency:  itemM.Currency,
	}
	if itemM.Product != nil {
		item.Product = toProductDomain(itemM.Product)
	}

	return item
}

func fromOrderDomain(order *entity.Order) *model.OrderModel {
	orderM := &model.OrderModel{
		ID:        order.ID,
		Code:      order.Code,
		UserID:    order.UserID,
		AddressID: order.AddressID,
		Note:      order.Note,
		Total:     order.Total,
		Status:    string(order.Status),
	}
	for i := range order.Items {
		item := &order.Items[i]
		orderM.Items = append(orderM.Items, model.OrderItemModel{
			ID:        item.ID,
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
			Currency:  item.Currency,
		})
	}

	return orderM
}
