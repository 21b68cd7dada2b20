package impl

import (
	"context"
	"log/slog"
	"time"

	"storefront/config"
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

const defaultOrderCodeAttempts = 3

// checkoutService implements the OrderUsecase interface.
type checkoutService struct {
	txManager       repository.TransactionManager
	codePrefix      string
	codeMaxAttempts int
	logger          *slog.Logger
}

// NewCheckoutService is the constructor for checkoutService.
func NewCheckoutService(
	txManager repository.TransactionManager,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.OrderUsecase {
	prefix := ""
	attempts := defaultOrderCodeAttempts
	if cfg.Orders != nil {
		prefix = cfg.Orders.CodePrefix
		if cfg.Orders.CodeMaxAttempts > 0 {
			attempts = cfg.Orders.CodeMaxAttempts
		}
	}

	return &checkoutService{
		txManager:       txManager,
		codePrefix:      prefix,
		codeMaxAttempts: attempts,
		logger:          logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *checkoutService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Checkout converts the user's open cart into an order in one transaction:
// every line's stock is decremented with a guarded atomic update, the lines
// are snapshotted into order items, and the cart is closed. Any failure
// rolls the whole conversion back.
func (srv *checkoutService) Checkout(ctx context.Context, userID uuid.UUID, input *usecase.CheckoutInput) (*usecase.OrderView, error) {
	srv.log(ctx).Info("Checking out cart", slog.Any("user_id", userID))

	var order *entity.Order

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()
		productRepo := repoFactory.ProductRepo()
		orderRepo := repoFactory.OrderRepo()

		// 1. There must be a non-empty open cart
		cart, err := cartRepo.FindOpenByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrCartNotFound) {
				return errors.Wrap(domainerrors.ErrInvalidState, "cart is empty")
			}

			return errors.Wrap(err, "failed to find open cart")
		}
		items, err := cartRepo.ListItems(ctx, cart.ID)
		if err != nil {
			return errors.Wrap(err, "failed to list cart items")
		}
		if len(items) == 0 {
			return errors.Wrap(domainerrors.ErrInvalidState, "cart is empty")
		}

		// 2. Decrement stock per line; sufficiency is checked inside the
		// same UPDATE statement, never read-modify-write
		for i := range items {
			if err := productRepo.DecrementStock(ctx, items[i].ProductID, items[i].Qty); err != nil {
				switch {
				case errors.Is(err, repository.ErrProductNotFound):
					return errors.Wrap(domainerrors.ErrNotFound, "product no longer exists")
				case errors.Is(err, repository.ErrInsufficientStock):
					return errors.Wrap(domainerrors.ErrInsufficientStock, "not enough stock")
				default:
					return errors.Wrap(err, "failed to decrement stock")
				}
			}
		}

		// 3. Snapshot the cart into an immutable order
		order = &entity.Order{
			ID:        uuid.New(),
			UserID:    userID,
			AddressID: input.AddressID,
			Note:      input.Note,
			Total:     cart.Total,
			Status:    entity.OrderStatusPending,
			CreatedAt: time.Now(),
		}
		for i := range items {
			order.Items = append(order.Items, entity.OrderItem{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ProductID: items[i].ProductID,
				Product:   items[i].Product,
				Qty:       items[i].Qty,
				UnitPrice: items[i].UnitPrice,
				Currency:  items[i].Currency,
			})
		}

		// 4. Persist with a fresh code per attempt; the unique constraint
		// is the arbiter on collision
		if err := srv.createWithCode(ctx, orderRepo, order); err != nil {
			return err
		}

		// 5. Close the cart; guarded by status = OPEN so it converts once
		if err := cartRepo.MarkCheckedOut(ctx, cart.ID); err != nil {
			if errors.Is(err, repository.ErrCartNotOpen) {
				return errors.Wrap(domainerrors.ErrInvalidState, "cart already checked out")
			}

			return errors.Wrap(err, "failed to close cart")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Checkout failed", slog.Any("error", err), slog.Any("user_id", userID))

		return nil, err
	}
	srv.log(ctx).Info("Checkout complete", slog.Any("user_id", userID), slog.String("order_code", order.Code))

	return newOrderView(order), nil
}

// createWithCode persists the order, regenerating its code a bounded number
// of times when the unique constraint reports a collision.
func (srv *checkoutService) createWithCode(ctx context.Context, orderRepo repository.OrderRepository, order *entity.Order) error {
	for attempt := 0; attempt < srv.codeMaxAttempts; attempt++ {
		code, err := util.NewOrderCode(srv.codePrefix, time.Now())
		if err != nil {
			return err
		}
		order.Code = code

		err = orderRepo.Create(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrOrderCodeTaken) {
			return errors.Wrap(err, "failed to create order")
		}
		srv.log(ctx).Warn("Order code collision, regenerating", slog.String("order_code", code))
	}

	return errors.Wrap(domainerrors.ErrInternalError, "exhausted order code attempts")
}

// List returns a page of the user's orders, newest first.
func (srv *checkoutService) List(ctx context.Context, userID uuid.UUID, page util.Page) ([]usecase.OrderView, int64, error) {
	var (
		views []usecase.OrderView
		total int64
	)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orders, count, err := repoFactory.OrderRepo().ListByUserID(ctx, userID, page.Offset, page.PageSize)
		if err != nil {
			return errors.Wrap(err, "failed to list orders")
		}

		total = count
		views = make([]usecase.OrderView, 0, len(orders))
		for _, order := range orders {
			views = append(views, *newOrderView(order))
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to list orders", slog.Any("error", err), slog.Any("user_id", userID))

		return nil, 0, err
	}

	return views, total, nil
}

// Detail returns one order scoped to its owner.
func (srv *checkoutService) Detail(ctx context.Context, userID, orderID uuid.UUID) (*usecase.OrderView, error) {
	var order *entity.Order

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.OrderRepo().FindByIDForUser(ctx, orderID, userID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "order not found")
			}

			return errors.Wrap(err, "failed to find order")
		}
		order = found

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to load order", slog.Any("error", err), slog.Any("user_id", userID), slog.Any("order_id", orderID))

		return nil, err
	}

	return newOrderView(order), nil
}

// newOrderView materializes an order into its transport shape.
func newOrderView(order *entity.Order) *usecase.OrderView {
	out := &usecase.OrderView{
		OrderID:   order.ID,
		Code:      order.Code,
		Status:    string(order.Status),
		Items:     make([]usecase.OrderItemView, 0, len(order.Items)),
		Total:     order.Total.StringFixed(2),
		AddressID: order.AddressID,
		Note:      order.Note,
		CreatedAt: order.CreatedAt,
	}
	for i := range order.Items {
		item := &order.Items[i]
		line := usecase.OrderItemView{
			ProductID: item.ProductID,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Quantity:  item.Qty,
			LineTotal: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Qty))).StringFixed(2),
		}
		if item.Product != nil {
			line.Name = item.Product.Name
			if len(item.Product.Images) > 0 {
				line.ImageURL = item.Product.Images[0].URL
			}
		}
		out.Items = append(out.Items, line)
	}

	return out
}
