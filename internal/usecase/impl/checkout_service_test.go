package impl

import (
	"context"
	"strings"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"
	"storefront/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkoutFixtures holds all test dependencies for checkout tests.
type checkoutFixtures struct {
	orders  usecase.OrderUsecase
	carts   usecase.CartUsecase
	factory *fakeFactory
}

func createTestCheckoutService(t *testing.T) checkoutFixtures {
	t.Helper()

	factory := newFakeFactory()
	logger := newDiscardLogger()

	return checkoutFixtures{
		orders:  NewCheckoutService(factory, newTestConfig(), logger),
		carts:   NewCartService(factory, logger),
		factory: factory,
	}
}

func TestCheckoutService_Checkout_Success(t *testing.T) {
	fx := createTestCheckoutService(t)
	userID := uuid.New()
	widget := seedProduct(t, fx.factory, "widget", "19.99", 10)
	gadget := seedProduct(t, fx.factory, "gadget", "5.01", 4)

	_, err := fx.carts.AddItem(context.Background(), userID, &usecase.AddItemInput{ProductID: widget.ID, Quantity: 3})
	require.NoError(t, err)
	_, err = fx.carts.AddItem(context.Background(), userID, &usecase.AddItemInput{ProductID: gadget.ID, Quantity: 4})
	require.NoError(t, err)

	order, err := fx.orders.Checkout(context.Background(), userID, &usecase.CheckoutInput{Note: "leave at door"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.Code, "ORD-"))
	assert.Equal(t, string(entity.OrderStatusPending), order.Status)
	assert.Equal(t, "80.01", order.Total)
	assert.Equal(t, "leave at door", order.Note)
	require.Len(t, order.Items, 2)

	// Stock was decremented by exactly the ordered quantities.
	reloaded, err := fx.factory.ProductRepo().FindByID(context.Background(), widget.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, reloaded.Stock)
	reloaded, err = fx.factory.ProductRepo().FindByID(context.Background(), gadget.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Stock)

	// The cart was closed; the next read starts a fresh empty one.
	cart, err := fx.carts.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, "0.00", cart.Total)
}

func TestCheckoutService_Checkout_EmptyCart(t *testing.T) {
	fx := createTestCheckoutService(t)
	userID := uuid.New()

	// No cart at all.
	_, err := fx.orders.Checkout(context.Background(), userID, &usecase.CheckoutInput{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidState))

	// An open cart with no lines is just as empty.
	_, err = fx.carts.Get(context.Background(), userID)
	require.NoError(t, err)
	_, err = fx.orders.Checkout(context.Background(), userID, &usecase.CheckoutInput{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidState))
}

func TestCheckoutService_Checkout_InsufficientStock(t *testing.T) {
	fx := createTestCheckoutService(t)
	userID := uuid.New()
	scarce := seedProduct(t, fx.factory, "scarce", "9.99", 2)

	_, err := fx.carts.AddItem(context.Background(), userID, &usecase.AddItemInput{ProductID: scarce.ID, Quantity: 3})
	require.NoError(t, err)

	_, err = fx.orders.Checkout(context.Background(), userID, &usecase.CheckoutInput{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientStock))

	// No order was created and the cart stayed open.
	_, total, err := fx.orders.List(context.Background(), userID, util.ParsePage(1, 20))
	require.NoError(t, err)
	assert.Zero(t, total)

	cart, err := fx.carts.Get(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
}

func TestCheckoutService_Checkout_AllOrNothingAcrossLines(t *testing.T) {
	fx := createTestCheckoutService(t)
	userID := uuid.New()
	plenty := seedProduct(t, fx.factory, "plenty", "10.00", 50)
	scarce := seedProduct(t, fx.factory, "scarce", "9.99", 1)

	_, err := fx.carts.AddItem(context.Background(), userID, &usecase.AddItemInput{ProductID: plenty.ID, Quantity: 5})
	require.NoError(t, err)
	_, err = fx.carts.AddItem(context.Background(), userID, &usecase.AddItemInput{ProductID: scarce.ID, Quantity: 3})
	require.NoError(t, err)

	_, err = fx.orders.Checkout(context.Background(), userID, &usecase.CheckoutInput{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientStock))

	// The first line's decrement was rolled back with the rest of the
	// transaction; neither product lost stock.
	reloaded, err := fx.factory.ProductRepo().FindByID(context.Background(), plenty.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, reloaded.Stock)
	reloaded, err = fx.factory.ProductRepo().FindByID(context.Background(), scarce.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Stock)

	// The cart survived with both lines and stayed open.
	cart, err := fx.carts.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.CartStatusOpen), cart.Status)
	assert.Len(t, cart.Items, 2)

	_, total, err := fx.orders.List(context.Background(), userID, util.ParsePage(1, 20))
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCheckoutService_Checkout_VanishedProduct(t *testing.T) {
	fx := createTestCheckoutService(t)
	userID := uuid.New()
	doomed := seedProduct(t, fx.factory, "doomed", "3.00", 5)

	_, err := fx.carts.AddItem(context.Background(), userID, &usecase.AddItemInput{ProductID: doomed.ID, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, fx.factory.ProductRepo().Delete(context.Background(), doomed.ID))

	_, err = fx.orders.Checkout(context.Background(), userID, &usecase.CheckoutInput{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestCheckoutService_ListAndDetail(t *testing.T) {
	fx := createTestCheckoutService(t)
	userID := uuid.New()
	product := seedProduct(t, fx.factory, "widget", "19.99", 100)

	_, err := fx.carts.AddItem(context.Background(), userID, &usecase.AddItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	first, err := fx.orders.Checkout(context.Background(), userID, &usecase.CheckoutInput{})
	require.NoError(t, err)

	_, err = fx.carts.AddItem(context.Background(), userID, &usecase.AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = fx.orders.Checkout(context.Background(), userID, &usecase.CheckoutInput{})
	require.NoError(t, err)

	orders, total, err := fx.orders.List(context.Background(), userID, util.ParsePage(1, 20))
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, orders, 2)

	detail, err := fx.orders.Detail(context.Background(), userID, first.OrderID)
	require.NoError(t, err)
	assert.Equal(t, first.Code, detail.Code)

	// Orders are scoped to their owner.
	_, err = fx.orders.Detail(context.Background(), uuid.New(), first.OrderID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}
