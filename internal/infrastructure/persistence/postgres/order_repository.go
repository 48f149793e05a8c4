package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "meal_storefront/internal/domain/order"
)

type OrderRepository struct {
	pool *pgxpool.Pool
	// decrementStock guards and decrements products.stock in the order
	// transaction. Off when products live behind the REST catalog.
	decrementStock bool
}

func NewOrderRepository(pool *pgxpool.Pool, decrementStock bool) *OrderRepository {
	return &OrderRepository{pool: pool, decrementStock: decrementStock}
}

// Create writes the header, every item row and the stock decrements in one
// transaction. A product whose stock dropped below the ordered quantity
// aborts the whole write with ErrStockConflict.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return fmt.Errorf("order is nil")
	}

	const insertOrder = `
		INSERT INTO orders (id, user_id, address_id, payment_method, subtotal, delivery_fee, total, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	const insertItem = `
		INSERT INTO order_items (order_id, product_id, title, quantity, price, notes)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	const decrement = `
		UPDATE products SET stock = stock - $2
		WHERE id = $1 AND stock >= $2;
	`

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, insertOrder,
		order.ID,
		order.UserID,
		order.AddressID,
		order.PaymentMethod,
		order.Subtotal,
		order.DeliveryFee,
		order.Total,
		string(order.Status),
		order.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	batch := &pgx.Batch{}
	for _, it := range order.Items {
		batch.Queue(insertItem, order.ID, it.ProductID, it.Title, it.Quantity, it.Price, it.Notes)
	}
	var stockIDs []string
	if r.decrementStock {
		quantities, ids := quantitiesByProduct(order.Items)
		for _, id := range ids {
			batch.Queue(decrement, id, quantities[id])
		}
		stockIDs = ids
	}

	br := tx.SendBatch(ctx, batch)
	for range order.Items {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	for _, id := range stockIDs {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return fmt.Errorf("decrement stock: %w", err)
		}
		if tag.RowsAffected() == 0 {
			br.Close()
			return fmt.Errorf("%w: product %s", domain.ErrStockConflict, id)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	const query = `
		SELECT id, user_id, address_id, payment_method, subtotal, delivery_fee, total, status, created_at
		FROM orders
		WHERE id = $1;
	`
	o, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}

	items, err := r.items(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

// ListByUser returns the newest orders of userID first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Order, error) {
	const query = `
		SELECT id, user_id, address_id, payment_method, subtotal, delivery_fee, total, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2;
	`
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	var ids []string
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Items = items[o.ID]
	}
	return orders, nil
}

func (r *OrderRepository) items(ctx context.Context, orderIDs []string) (map[string][]domain.Item, error) {
	const query = `
		SELECT order_id, product_id, title, quantity, price, notes
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id;
	`
	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.Item, len(orderIDs))
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.OrderID, &it.ProductID, &it.Title, &it.Quantity, &it.Price, &it.Notes); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var status string
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.AddressID,
		&o.PaymentMethod,
		&o.Subtotal,
		&o.DeliveryFee,
		&o.Total,
		&status,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = domain.Status(status)
	return &o, nil
}

// quantitiesByProduct sums quantities of lines sharing a product (the same
// dish with different notes) and returns ids in first-seen order.
func quantitiesByProduct(items []domain.Item) (map[string]int, []string) {
	quantities := make(map[string]int, len(items))
	var ids []string
	for _, it := range items {
		if _, ok := quantities[it.ProductID]; !ok {
			ids = append(ids, it.ProductID)
		}
		quantities[it.ProductID] += it.Quantity
	}
	return quantities, ids
}
