package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByIDs(ctx context.Context, ids []string) (map[string]PricedProduct, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]PricedProduct), args.Error(1)
}

func catalog() map[string]PricedProduct {
	return map[string]PricedProduct{
		"prod-a": {ID: "prod-a", Name: "Philadelphia Roll", Price: 450, StockQuantity: 100, IsActive: true},
		"prod-b": {ID: "prod-b", Name: "Spicy Tuna", Price: 120, StockQuantity: 5, IsActive: true},
		"prod-c": {ID: "prod-c", Name: "Retired Roll", Price: 200, StockQuantity: 10, IsActive: false},
	}
}

func TestDeliveryFeeFor(t *testing.T) {
	assert.Equal(t, float64(FlatDeliveryFee), DeliveryFeeFor(999.99))
	assert.Equal(t, 0.0, DeliveryFeeFor(1000))
	assert.Equal(t, 0.0, DeliveryFeeFor(2500))
}

func TestComputeTotals(t *testing.T) {
	t.Run("BelowThreshold", func(t *testing.T) {
		totals := ComputeTotals(800, 0, 3)
		assert.Equal(t, 800.0, totals.Subtotal)
		assert.Equal(t, 150.0, totals.DeliveryFee)
		assert.Equal(t, 950.0, totals.Total)
	})

	t.Run("AtThreshold", func(t *testing.T) {
		totals := ComputeTotals(1000, 0, 2)
		assert.Zero(t, totals.DeliveryFee)
		assert.Equal(t, 1000.0, totals.Total)
	})

	t.Run("WithDiscount", func(t *testing.T) {
		totals := ComputeTotals(1200, 100, 4)
		assert.Equal(t, totals.Subtotal+totals.DeliveryFee-totals.Discount, totals.Total)
		assert.Equal(t, 1100.0, totals.Total)
	})
}

func TestEffectiveQuantity(t *testing.T) {
	assert.Equal(t, 3, effectiveQuantity(3, 10))
	assert.Equal(t, 5, effectiveQuantity(10, 5), "requested above stock clamps to stock")
	assert.Equal(t, 0, effectiveQuantity(2, 0))
	assert.Equal(t, 0, effectiveQuantity(-1, 10))
}

func TestService_Quote(t *testing.T) {
	ctx := context.Background()

	t.Run("ClampsAndDrops", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		repo.On("GetByIDs", ctx, mock.Anything).Return(catalog(), nil)

		cart, err := svc.Quote(ctx, []ItemInput{
			{ProductID: "prod-a", Quantity: 1},
			{ProductID: "prod-b", Quantity: 10},
			{ProductID: "prod-c", Quantity: 2},
			{ProductID: "ghost", Quantity: 1},
		})
		require.NoError(t, err)

		require.Len(t, cart.Items, 2, "inactive and unknown products are dropped")
		assert.Equal(t, 1, cart.Items[0].Quantity)
		assert.Equal(t, 5, cart.Items[1].Quantity, "quantity clamps to available stock")
		assert.Equal(t, 450.0+5*120.0, cart.Total)
	})

	t.Run("Empty", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		cart, err := svc.Quote(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
		assert.Zero(t, cart.Total)
		repo.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
	})
}

func TestService_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("AllValid", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		repo.On("GetByIDs", ctx, mock.Anything).Return(catalog(), nil)

		valid, lineErrors, err := svc.Validate(ctx, []ItemInput{
			{ProductID: "prod-a", Quantity: 2},
			{ProductID: "prod-b", Quantity: 5},
		})
		require.NoError(t, err)
		assert.Empty(t, lineErrors)
		assert.Len(t, valid, 2)
	})

	t.Run("CollectsErrors", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		repo.On("GetByIDs", ctx, mock.Anything).Return(catalog(), nil)

		valid, lineErrors, err := svc.Validate(ctx, []ItemInput{
			{ProductID: "ghost", Quantity: 1},
			{ProductID: "prod-c", Quantity: 1},
			{ProductID: "prod-b", Quantity: 10},
			{ProductID: "prod-a", Quantity: 1},
		})
		require.NoError(t, err)
		assert.Len(t, valid, 1, "only the in-stock active line survives")
		require.Len(t, lineErrors, 3)
		assert.Equal(t, "Product not found", lineErrors[0].Message)
		assert.Equal(t, "Product is not available", lineErrors[1].Message)
		assert.Contains(t, lineErrors[2].Message, "Available: 5")
		assert.Equal(t, "Spicy Tuna", lineErrors[2].ProductName)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		_, lineErrors, err := svc.Validate(ctx, nil)
		require.NoError(t, err)
		require.Len(t, lineErrors, 1)
		assert.Equal(t, "Cart is empty", lineErrors[0].Message)
	})
}

func TestService_GetTotals(t *testing.T) {
	ctx := context.Background()

	// Spec scenario: productA price=450 stock=100, productB price=120 stock=5,
	// requested (1, 10) -> effective (1, 5), subtotal 1050, free delivery.
	t.Run("FreeDeliveryScenario", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		repo.On("GetByIDs", ctx, mock.Anything).Return(catalog(), nil)

		totals, err := svc.GetTotals(ctx, []ItemInput{
			{ProductID: "prod-a", Quantity: 1},
			{ProductID: "prod-b", Quantity: 10},
		})
		require.NoError(t, err)

		assert.Equal(t, 1050.0, totals.Subtotal)
		assert.Zero(t, totals.DeliveryFee)
		assert.Equal(t, 1050.0, totals.Total)
		assert.Equal(t, 6, totals.ItemCount)
	})

	t.Run("DeliveryCharged", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		repo.On("GetByIDs", ctx, mock.Anything).Return(catalog(), nil)

		totals, err := svc.GetTotals(ctx, []ItemInput{{ProductID: "prod-b", Quantity: 2}})
		require.NoError(t, err)

		assert.Equal(t, 240.0, totals.Subtotal)
		assert.Equal(t, 150.0, totals.DeliveryFee)
		assert.Equal(t, 390.0, totals.Total)
	})

	t.Run("Empty", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		totals, err := svc.GetTotals(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, totals.Total)
		assert.Zero(t, totals.DeliveryFee)
	})
}
