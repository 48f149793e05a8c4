package handler

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"meal_storefront/internal/application/checkout"
	"meal_storefront/internal/application/reorder"
	"meal_storefront/internal/domain/catalog"
	"meal_storefront/internal/domain/customization"
	"meal_storefront/internal/domain/order"
	"meal_storefront/internal/domain/suggestion"
)

// memoryKV backs real cart stores in handler tests.
type memoryKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: map[string][]byte{}}
}

func (m *memoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindProduct(ctx context.Context, id string) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

type MockCustomizer struct {
	mock.Mock
}

func (m *MockCustomizer) Groups(ctx context.Context, productID string) ([]customization.SubstitutionGroup, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]customization.SubstitutionGroup), args.Error(1)
}

func (m *MockCustomizer) Customize(ctx context.Context, productID, notes string, state customization.State) (string, customization.Annotation, error) {
	args := m.Called(ctx, productID, notes, state)
	return args.String(0), args.Get(1).(customization.Annotation), args.Error(2)
}

type MockPaymentMethods struct {
	mock.Mock
}

func (m *MockPaymentMethods) Enabled(ctx context.Context) ([]catalog.PaymentMethod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.PaymentMethod), args.Error(1)
}

type MockCheckout struct {
	mock.Mock
}

func (m *MockCheckout) Prepare(ctx context.Context, cmd checkout.PrepareCommand) (*checkout.Preparation, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Preparation), args.Error(1)
}

func (m *MockCheckout) Submit(ctx context.Context, draft order.Draft) (*order.Order, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockReorderer struct {
	mock.Mock
}

func (m *MockReorderer) Rebuild(ctx context.Context, userID, orderID, addressID string) (*reorder.Result, error) {
	args := m.Called(ctx, userID, orderID, addressID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reorder.Result), args.Error(1)
}

func (m *MockReorderer) History(ctx context.Context, userID string, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockSuggestions struct {
	mock.Mock
}

func (m *MockSuggestions) ForUser(ctx context.Context, userID string, limit int) ([]suggestion.Suggestion, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]suggestion.Suggestion), args.Error(1)
}

func (m *MockSuggestions) AlongWith(ctx context.Context, productID string, limit int) ([]suggestion.Suggestion, error) {
	args := m.Called(ctx, productID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]suggestion.Suggestion), args.Error(1)
}
