package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meal_storefront/internal/domain/cart"
	"meal_storefront/internal/domain/catalog"
	domain "meal_storefront/internal/domain/order"
	"meal_storefront/internal/domain/pricing"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedProduct(t *testing.T, pool *pgxpool.Pool, name, price string, stock int) string {
	t.Helper()
	id := uuid.NewString()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO products (id, name, price, stock, is_active) VALUES ($1, $2, $3, $4, TRUE)`,
		id, name, dec(price), stock)
	require.NoError(t, err)
	return id
}

func newOrder(t *testing.T, userID string, lines ...cart.LineItem) *domain.Order {
	t.Helper()
	o, err := domain.NewOrder(uuid.NewString(), userID, "a-1", "pix", lines,
		pricing.NewBreakdown(lines, pricing.Resolved(dec("5.90"))))
	require.NoError(t, err)
	return o
}

func TestOrderRepository_CreateAndFind(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewOrderRepository(pool, true)
	catalogRepo := NewCatalogRepository(pool)

	p1 := seedProduct(t, pool, "Feijoada", "29.90", 5)
	p2 := seedProduct(t, pool, "Pastel", "15.00", 5)
	userID := uuid.NewString()
	o := newOrder(t, userID,
		cart.LineItem{ProductID: p1, Title: "Feijoada", UnitPrice: dec("29.90"), Quantity: 1},
		cart.LineItem{ProductID: p2, Title: "Pastel", UnitPrice: dec("15.00"), Quantity: 2, Notes: "no onion"},
	)

	require.NoError(t, repo.Create(ctx, o))

	got, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.True(t, got.Total.Equal(dec("65.80")))
	require.Len(t, got.Items, 2)
	assert.Equal(t, "no onion", got.Items[1].Notes)

	product, err := catalogRepo.FindProduct(ctx, p2)
	require.NoError(t, err)
	assert.Equal(t, 3, product.Stock)

	list, err := repo.ListByUser(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Items, 2)
}

func TestOrderRepository_StockConflictRollsBack(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewOrderRepository(pool, true)

	p1 := seedProduct(t, pool, "Feijoada", "29.90", 5)
	p2 := seedProduct(t, pool, "Pastel", "15.00", 1)
	o := newOrder(t, uuid.NewString(),
		cart.LineItem{ProductID: p1, UnitPrice: dec("29.90"), Quantity: 1},
		cart.LineItem{ProductID: p2, UnitPrice: dec("15.00"), Quantity: 2},
	)

	err := repo.Create(ctx, o)

	require.ErrorIs(t, err, domain.ErrStockConflict)
	_, err = repo.FindByID(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	product, err := NewCatalogRepository(pool).FindProduct(ctx, p1)
	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock)
}

func TestOrderRepository_FindByID_NotFound(t *testing.T) {
	pool := testPool(t)

	_, err := NewOrderRepository(pool, false).FindByID(context.Background(), uuid.NewString())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogRepository_FindArea_Normalized(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	city := "Curitiba " + uuid.NewString()[:8]
	_, err := pool.Exec(ctx,
		`INSERT INTO delivery_areas (city, neighborhood, price) VALUES ($1, $2, $3)`,
		city, "Batel", dec("0"))
	require.NoError(t, err)
	repo := NewCatalogRepository(pool)

	area, err := repo.FindArea(ctx, "  "+city+" ", "BATEL")

	require.NoError(t, err)
	assert.True(t, area.Price.IsZero())

	_, err = repo.FindArea(ctx, city, "Centro")
	assert.ErrorIs(t, err, catalog.ErrAreaNotFound)
}

func TestCatalogRepository_FindAddress_Ownership(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	id := uuid.NewString()
	_, err := pool.Exec(ctx,
		`INSERT INTO addresses (id, user_id, city, neighborhood) VALUES ($1, 'u-1', 'Curitiba', 'Batel')`, id)
	require.NoError(t, err)
	repo := NewCatalogRepository(pool)

	addr, err := repo.FindAddress(ctx, "u-1", id)
	require.NoError(t, err)
	assert.True(t, addr.Locatable())

	_, err = repo.FindAddress(ctx, "u-2", id)
	assert.ErrorIs(t, err, catalog.ErrAddressNotFound)
}

func TestKVStore_RoundTrip(t *testing.T) {
	pool := testPool(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	store := NewKVStore(pool)
	key := "session:" + uuid.NewString() + ":cart"

	_, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, key, []byte(`[]`)))
	require.NoError(t, store.Set(ctx, key, []byte(`[{"productId":"p-1"}]`)))

	value, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"productId":"p-1"}]`, string(value))
}
