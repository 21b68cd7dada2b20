package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cartFixtures holds all test dependencies for cart service tests.
type cartFixtures struct {
	service usecase.CartUsecase
	factory *fakeFactory
}

func createTestCartService(t *testing.T) cartFixtures {
	t.Helper()

	factory := newFakeFactory()
	service := NewCartService(factory, newDiscardLogger())

	return cartFixtures{service: service, factory: factory}
}

func seedProduct(t *testing.T, factory *fakeFactory, name, price string, stock int) *entity.Product {
	t.Helper()

	parsed, err := decimal.NewFromString(price)
	require.NoError(t, err)

	product := &entity.Product{
		ID:       uuid.New(),
		Name:     name,
		Slug:     name,
		Price:    parsed,
		Currency: "USD",
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, factory.ProductRepo().Create(context.Background(), product))

	return product
}

func TestCartService_Get_LazilyCreatesEmptyCart(t *testing.T) {
	fx := createTestCartService(t)
	userID := uuid.New()

	cart, err := fx.service.Get(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, string(entity.CartStatusOpen), cart.Status)
	assert.Empty(t, cart.Items)
	assert.Equal(t, "0.00", cart.Subtotal)
	assert.Equal(t, "0.00", cart.Total)

	// A second read resolves to the same cart, not a new one.
	again, err := fx.service.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, cart.CartID, again.CartID)
}

func TestCartService_AddItem_AccumulatesQuantity(t *testing.T) {
	fx := createTestCartService(t)
	userID := uuid.New()
	product := seedProduct(t, fx.factory, "widget", "19.99", 100)

	_, err := fx.service.AddItem(context.Background(), userID, &usecase.AddItemInput{
		ProductID: product.ID,
		Quantity:  2,
	})
	require.NoError(t, err)

	cart, err := fx.service.AddItem(context.Background(), userID, &usecase.AddItemInput{
		ProductID: product.ID,
		Quantity:  3,
	})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, "19.99", cart.Items[0].UnitPrice)
	assert.Equal(t, "99.95", cart.Items[0].LineTotal)
	assert.Equal(t, "99.95", cart.Subtotal)
	assert.Equal(t, "99.95", cart.Total)
}

func TestCartService_AddItem_UnknownOrInactiveProduct(t *testing.T) {
	fx := createTestCartService(t)
	userID := uuid.New()

	_, err := fx.service.AddItem(context.Background(), userID, &usecase.AddItemInput{
		ProductID: uuid.New(),
		Quantity:  1,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))

	inactive := seedProduct(t, fx.factory, "retired", "5.00", 10)
	inactive.IsActive = false
	require.NoError(t, fx.factory.ProductRepo().Update(context.Background(), inactive))

	_, err = fx.service.AddItem(context.Background(), userID, &usecase.AddItemInput{
		ProductID: inactive.ID,
		Quantity:  1,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestCartService_AddItem_ClampsNonPositiveQuantityToOne(t *testing.T) {
	fx := createTestCartService(t)
	userID := uuid.New()
	product := seedProduct(t, fx.factory, "widget", "19.99", 100)

	cart, err := fx.service.AddItem(context.Background(), userID, &usecase.AddItemInput{
		ProductID: product.ID,
		Quantity:  0,
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, "19.99", cart.Subtotal)

	// Negative quantities clamp too, topping the line up by one unit.
	cart, err = fx.service.AddItem(context.Background(), userID, &usecase.AddItemInput{
		ProductID: product.ID,
		Quantity:  -5,
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCartService_SetItemQty(t *testing.T) {
	fx := createTestCartService(t)
	userID := uuid.New()
	product := seedProduct(t, fx.factory, "widget", "10.00", 100)

	_, err := fx.service.AddItem(context.Background(), userID, &usecase.AddItemInput{
		ProductID: product.ID,
		Quantity:  2,
	})
	require.NoError(t, err)

	cart, err := fx.service.SetItemQty(context.Background(), userID, &usecase.SetItemQtyInput{
		ProductID: product.ID,
		Quantity:  7,
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 7, cart.Items[0].Quantity)
	assert.Equal(t, "70.00", cart.Total)

	// Quantity zero deletes the line and zeroes the totals.
	cart, err = fx.service.SetItemQty(context.Background(), userID, &usecase.SetItemQtyInput{
		ProductID: product.ID,
		Quantity:  0,
	})
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, "0.00", cart.Total)
}

func TestCartService_SetItemQty_MissingLine(t *testing.T) {
	fx := createTestCartService(t)

	_, err := fx.service.SetItemQty(context.Background(), uuid.New(), &usecase.SetItemQtyInput{
		ProductID: uuid.New(),
		Quantity:  3,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestCartService_RemoveItemAndClear(t *testing.T) {
	fx := createTestCartService(t)
	userID := uuid.New()
	first := seedProduct(t, fx.factory, "first", "1.50", 10)
	second := seedProduct(t, fx.factory, "second", "2.25", 10)

	_, err := fx.service.AddItem(context.Background(), userID, &usecase.AddItemInput{ProductID: first.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = fx.service.AddItem(context.Background(), userID, &usecase.AddItemInput{ProductID: second.ID, Quantity: 4})
	require.NoError(t, err)

	cart, err := fx.service.RemoveItem(context.Background(), userID, first.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "9.00", cart.Total)

	cart, err = fx.service.Clear(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, "0.00", cart.Subtotal)
	assert.Equal(t, "0.00", cart.Total)
}
