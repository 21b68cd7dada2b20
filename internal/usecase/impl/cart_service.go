package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const defaultCurrency = "USD"

// cartService implements the CartUsecase interface.
type cartService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(
	txManager repository.TransactionManager,
	logger *slog.Logger,
) usecase.CartUsecase {
	return &cartService{
		txManager: txManager,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// openCart finds the user's OPEN cart or lazily creates one. A concurrent
// creator losing the unique-constraint race falls back to the winner's row.
func openCart(ctx context.Context, cartRepo repository.CartRepository, userID uuid.UUID) (*entity.Cart, error) {
	cart, err := cartRepo.FindOpenByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrCartNotFound) {
		return nil, errors.Wrap(err, "failed to find open cart")
	}

	cart = &entity.Cart{
		ID:       uuid.New(),
		UserID:   userID,
		Status:   entity.CartStatusOpen,
		Currency: defaultCurrency,
	}
	if err := cartRepo.Create(ctx, cart); err != nil {
		if errors.Is(err, repository.ErrOpenCartExists) {
			cart, err = cartRepo.FindOpenByUserID(ctx, userID)
			if err != nil {
				return nil, errors.Wrap(err, "failed to find open cart after lost race")
			}

			return cart, nil
		}

		return nil, errors.Wrap(err, "failed to create cart")
	}

	return cart, nil
}

// recomputeTotals re-derives all money fields from the current lines and
// persists them. Money fields are never hand-set anywhere else.
func recomputeTotals(ctx context.Context, cartRepo repository.CartRepository, cart *entity.Cart) error {
	items, err := cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return errors.Wrap(err, "failed to list cart items")
	}

	subtotal := decimal.Zero
	for i := range items {
		subtotal = subtotal.Add(items[i].LineTotal())
	}

	totals := repository.CartTotals{
		Subtotal:    subtotal.Round(2),
		Discount:    cart.Discount.Round(2),
		DeliveryFee: cart.DeliveryFee.Round(2),
	}
	totals.Total = totals.Subtotal.Sub(totals.Discount).Add(totals.DeliveryFee)

	if err := cartRepo.UpdateTotals(ctx, cart.ID, totals); err != nil {
		return errors.Wrap(err, "failed to update cart totals")
	}

	cart.Items = items
	cart.Subtotal = totals.Subtotal
	cart.Discount = totals.Discount
	cart.DeliveryFee = totals.DeliveryFee
	cart.Total = totals.Total

	return nil
}

// view materializes a cart into its transport shape.
func newCartView(cart *entity.Cart) *usecase.CartView {
	out := &usecase.CartView{
		CartID:      cart.ID,
		Status:      string(cart.Status),
		Items:       make([]usecase.CartItemView, 0, len(cart.Items)),
		Subtotal:    cart.Subtotal.StringFixed(2),
		Discount:    cart.Discount.StringFixed(2),
		DeliveryFee: cart.DeliveryFee.StringFixed(2),
		Total:       cart.Total.StringFixed(2),
	}
	for i := range cart.Items {
		item := &cart.Items[i]
		line := usecase.CartItemView{
			ProductID: item.ProductID,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Quantity:  item.Qty,
			LineTotal: item.LineTotal().StringFixed(2),
		}
		if item.Product != nil {
			line.Name = item.Product.Name
			line.Slug = item.Product.Slug
			if len(item.Product.Images) > 0 {
				line.ImageURL = item.Product.Images[0].URL
			}
		}
		out.Items = append(out.Items, line)
	}

	return out
}

// OpenCart returns the user's open cart aggregate, creating one if absent.
func (srv *cartService) OpenCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	var cart *entity.Cart

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := openCart(ctx, repoFactory.CartRepo(), userID)
		if err != nil {
			return err
		}
		cart = found

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to open cart", slog.Any("error", err), slog.Any("user_id", userID))

		return nil, err
	}

	return cart, nil
}

// Get returns the user's open cart, lazily creating an empty one.
func (srv *cartService) Get(ctx context.Context, userID uuid.UUID) (*usecase.CartView, error) {
	cart, err := srv.OpenCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	return newCartView(cart), nil
}

// AddItem adds a product line or tops up an existing one atomically.
func (srv *cartService) AddItem(ctx context.Context, userID uuid.UUID, input *usecase.AddItemInput) (*usecase.CartView, error) {
	// Non-positive quantities are clamped to a single unit rather than rejected.
	qty := input.Quantity
	if qty < 1 {
		qty = 1
	}

	var cart *entity.Cart

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()

		// 1. The product must exist and still be sellable
		product, err := repoFactory.ProductRepo().FindByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "product not found")
			}

			return errors.Wrap(err, "failed to find product")
		}
		if !product.IsActive {
			return errors.Wrap(domainerrors.ErrNotFound, "product not available")
		}

		// 2. Resolve the open cart
		cart, err = openCart(ctx, cartRepo, userID)
		if err != nil {
			return err
		}

		// 3. Upsert the line; an existing line keeps its original unit price
		item := &entity.CartItem{
			ID:        uuid.New(),
			CartID:    cart.ID,
			ProductID: product.ID,
			Qty:       qty,
			UnitPrice: product.Price,
			Currency:  product.Currency,
		}
		if err := cartRepo.UpsertItem(ctx, item); err != nil {
			return errors.Wrap(err, "failed to upsert cart item")
		}

		// 4. Re-derive money fields
		return recomputeTotals(ctx, cartRepo, cart)
	})

	if err != nil {
		srv.log(ctx).Error("Failed to add cart item", slog.Any("error", err), slog.Any("user_id", userID), slog.Any("product_id", input.ProductID))

		return nil, err
	}
	srv.log(ctx).Debug("Added cart item", slog.Any("user_id", userID), slog.Any("product_id", input.ProductID), slog.Int("qty", qty))

	return newCartView(cart), nil
}

// SetItemQty overwrites a line's quantity; zero removes the line.
func (srv *cartService) SetItemQty(ctx context.Context, userID uuid.UUID, input *usecase.SetItemQtyInput) (*usecase.CartView, error) {
	if input.Quantity < 0 {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "quantity must not be negative")
	}

	var cart *entity.Cart

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()

		var err error
		cart, err = openCart(ctx, cartRepo, userID)
		if err != nil {
			return err
		}

		if input.Quantity == 0 {
			err = cartRepo.DeleteItem(ctx, cart.ID, input.ProductID)
		} else {
			err = cartRepo.SetItemQty(ctx, cart.ID, input.ProductID, input.Quantity)
		}
		if err != nil {
			if errors.Is(err, repository.ErrCartItemNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "cart item not found")
			}

			return errors.Wrap(err, "failed to update cart item")
		}

		return recomputeTotals(ctx, cartRepo, cart)
	})

	if err != nil {
		srv.log(ctx).Error("Failed to set cart item quantity", slog.Any("error", err), slog.Any("user_id", userID), slog.Any("product_id", input.ProductID))

		return nil, err
	}

	return newCartView(cart), nil
}

// RemoveItem deletes one line from the open cart.
func (srv *cartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*usecase.CartView, error) {
	var cart *entity.Cart

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()

		var err error
		cart, err = openCart(ctx, cartRepo, userID)
		if err != nil {
			return err
		}

		if err := cartRepo.DeleteItem(ctx, cart.ID, productID); err != nil {
			return errors.Wrap(err, "failed to delete cart item")
		}

		return recomputeTotals(ctx, cartRepo, cart)
	})

	if err != nil {
		srv.log(ctx).Error("Failed to remove cart item", slog.Any("error", err), slog.Any("user_id", userID), slog.Any("product_id", productID))

		return nil, err
	}

	return newCartView(cart), nil
}

// Clear deletes every line from the open cart, zeroing its totals.
func (srv *cartService) Clear(ctx context.Context, userID uuid.UUID) (*usecase.CartView, error) {
	var cart *entity.Cart

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()

		var err error
		cart, err = openCart(ctx, cartRepo, userID)
		if err != nil {
			return err
		}

		if err := cartRepo.DeleteItems(ctx, cart.ID); err != nil {
			return errors.Wrap(err, "failed to clear cart")
		}

		return recomputeTotals(ctx, cartRepo, cart)
	})

	if err != nil {
		srv.log(ctx).Error("Failed to clear cart", slog.Any("error", err), slog.Any("user_id", userID))

		return nil, err
	}

	return newCartView(cart), nil
}
