package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"meal_storefront/internal/domain/apperr"
	"meal_storefront/internal/domain/cart"
	"meal_storefront/internal/domain/catalog"
	domain "meal_storefront/internal/domain/pricing"
	"meal_storefront/pkg/logger"
)

type MockDeliveryAreaRepository struct {
	mock.Mock
}

func (m *MockDeliveryAreaRepository) FindArea(ctx context.Context, city, neighborhood string) (*catalog.DeliveryArea, error) {
	args := m.Called(ctx, city, neighborhood)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.DeliveryArea), args.Error(1)
}

var fallback = decimal.RequireFromString("9.90")

func batel() catalog.Address {
	return catalog.Address{ID: "a-1", City: "Curitiba", Neighborhood: "Batel"}
}

func TestCalculator_ResolveDeliveryFee_Matched(t *testing.T) {
	repo := new(MockDeliveryAreaRepository)
	repo.On("FindArea", mock.Anything, "Curitiba", "Batel").
		Return(&catalog.DeliveryArea{City: "Curitiba", Neighborhood: "Batel", Price: decimal.RequireFromString("5.90")}, nil)
	calc := NewCalculator(repo, fallback, logger.NewNop())

	fee, err := calc.ResolveDeliveryFee(context.Background(), batel())

	require.NoError(t, err)
	amount, ok := fee.Amount()
	assert.True(t, ok)
	assert.Equal(t, "5.90", amount.StringFixed(2))
}

func TestCalculator_ResolveDeliveryFee_FreeDelivery(t *testing.T) {
	repo := new(MockDeliveryAreaRepository)
	repo.On("FindArea", mock.Anything, "Curitiba", "Batel").
		Return(&catalog.DeliveryArea{Price: decimal.Zero}, nil)
	calc := NewCalculator(repo, fallback, logger.NewNop())

	fee, err := calc.ResolveDeliveryFee(context.Background(), batel())

	require.NoError(t, err)
	amount, ok := fee.Amount()
	assert.True(t, ok)
	assert.True(t, amount.IsZero())
}

func TestCalculator_ResolveDeliveryFee_Fallback(t *testing.T) {
	repo := new(MockDeliveryAreaRepository)
	repo.On("FindArea", mock.Anything, mock.Anything, mock.Anything).Return(nil, catalog.ErrAreaNotFound)
	calc := NewCalculator(repo, fallback, logger.NewNop())

	fee, err := calc.ResolveDeliveryFee(context.Background(), batel())

	require.NoError(t, err)
	amount, _ := fee.Amount()
	assert.True(t, amount.Equal(fallback))
}

func TestCalculator_ResolveDeliveryFee_Unresolved(t *testing.T) {
	repo := new(MockDeliveryAreaRepository)
	repo.On("FindArea", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
	calc := NewCalculator(repo, fallback, logger.NewNop())

	fee, err := calc.ResolveDeliveryFee(context.Background(), batel())
	assert.False(t, fee.IsResolved())
	assert.ErrorIs(t, err, domain.ErrFeeUnresolved)
	assert.Equal(t, apperr.KindResolution, apperr.KindOf(err))

	fee, err = calc.ResolveDeliveryFee(context.Background(), catalog.Address{City: "Curitiba"})
	assert.False(t, fee.IsResolved())
	assert.ErrorIs(t, err, domain.ErrFeeUnresolved)
}

func TestCalculator_Price(t *testing.T) {
	repo := new(MockDeliveryAreaRepository)
	repo.On("FindArea", mock.Anything, "Curitiba", "Batel").
		Return(&catalog.DeliveryArea{Price: decimal.RequireFromString("5.90")}, nil)
	calc := NewCalculator(repo, fallback, logger.NewNop())
	items := []cart.LineItem{
		{UnitPrice: decimal.RequireFromString("29.90"), Quantity: 1},
		{UnitPrice: decimal.RequireFromString("15.00"), Quantity: 2},
	}

	b, err := calc.Price(context.Background(), items, batel())

	require.NoError(t, err)
	assert.Equal(t, "59.90", domain.Display(calc.ComputeSubtotal(items)))
	assert.Equal(t, "65.80", domain.Display(b.Total.Amount))
	assert.True(t, b.IsFinal())
}

func TestCalculator_ComputeTotal(t *testing.T) {
	calc := NewCalculator(new(MockDeliveryAreaRepository), fallback, logger.NewNop())

	assert.False(t, calc.ComputeTotal(decimal.NewFromInt(25), domain.Unresolved()).Final)
	free := calc.ComputeTotal(decimal.NewFromInt(25), domain.Resolved(decimal.Zero))
	assert.True(t, free.Final)
	assert.True(t, free.Amount.Equal(decimal.NewFromInt(25)))
}
