package graph

import (
	"context"
	"fmt"

	"meal_storefront/internal/domain/order"
	"meal_storefront/internal/domain/suggestion"
)

type queryRunner interface {
	ExecuteWrite(ctx context.Context, query string, params map[string]any) error
	ExecuteRead(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

// PurchaseGraph stores (:User)-[:PLACED]->(:Order)-[:CONTAINS]->(:Product).
// Frequencies are counted at read time so replaying an order is harmless.
type PurchaseGraph struct {
	client queryRunner
}

func NewPurchaseGraph(client *Client) *PurchaseGraph {
	return &PurchaseGraph{client: client}
}

func (g *PurchaseGraph) RecordOrder(ctx context.Context, o *order.Order) error {
	const query = `
		MERGE (u:User {id: $userId})
		MERGE (o:Order {id: $orderId})
		SET o.total = $total, o.created_at = datetime($createdAt)
		MERGE (u)-[:PLACED]->(o)
		WITH o
		UNWIND $items AS item
		MERGE (p:Product {id: item.productId})
		SET p.title = item.title
		MERGE (o)-[c:CONTAINS]->(p)
		SET c.quantity = item.quantity
	`
	items := make([]map[string]any, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, map[string]any{
			"productId": it.ProductID,
			"title":     it.Title,
			"quantity":  int64(it.Quantity),
		})
	}

	params := map[string]any{
		"userId":    o.UserID,
		"orderId":   o.ID,
		"total":     o.Total.String(),
		"createdAt": o.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
		"items":     items,
	}
	if err := g.client.ExecuteWrite(ctx, query, params); err != nil {
		return fmt.Errorf("record order %s: %w", o.ID, err)
	}
	return nil
}

// FrequentProducts answers "what does this user order most often?".
func (g *PurchaseGraph) FrequentProducts(ctx context.Context, userID string, limit int) ([]suggestion.Suggestion, error) {
	const query = `
		MATCH (:User {id: $userId})-[:PLACED]->(o:Order)-[c:CONTAINS]->(p:Product)
		WITH p, count(DISTINCT o) AS orders, sum(c.quantity) AS quantity
		RETURN p.id AS product_id, p.title AS title, orders, quantity
		ORDER BY orders DESC, quantity DESC, product_id
		LIMIT $limit
	`
	rows, err := g.client.ExecuteRead(ctx, query, map[string]any{"userId": userID, "limit": int64(limit)})
	if err != nil {
		return nil, fmt.Errorf("frequent products: %w", err)
	}

	out := make([]suggestion.Suggestion, 0, len(rows))
	for _, row := range rows {
		orders := asInt64(row["orders"])
		out = append(out, suggestion.Suggestion{
			ProductID:   asString(row["product_id"]),
			Title:       asString(row["title"]),
			Score:       float64(orders),
			Explanation: fmt.Sprintf("You've ordered this %d times", orders),
			Strategy:    suggestion.StrategyUserFrequency,
		})
	}
	return out, nil
}

// CoOrderedProducts answers "what is usually ordered together with this product?".
func (g *PurchaseGraph) CoOrderedProducts(ctx context.Context, productID string, limit int) ([]suggestion.Suggestion, error) {
	const query = `
		MATCH (:Product {id: $productId})<-[:CONTAINS]-(o:Order)-[:CONTAINS]->(co:Product)
		WHERE co.id <> $productId
		WITH co, count(DISTINCT o) AS together
		RETURN co.id AS product_id, co.title AS title, together
		ORDER BY together DESC, product_id
		LIMIT $limit
	`
	rows, err := g.client.ExecuteRead(ctx, query, map[string]any{"productId": productID, "limit": int64(limit)})
	if err != nil {
		return nil, fmt.Errorf("co-ordered products: %w", err)
	}

	out := make([]suggestion.Suggestion, 0, len(rows))
	for _, row := range rows {
		together := asInt64(row["together"])
		out = append(out, suggestion.Suggestion{
			ProductID:   asString(row["product_id"]),
			Title:       asString(row["title"]),
			Score:       float64(together),
			Explanation: fmt.Sprintf("Ordered together %d times", together),
			Strategy:    suggestion.StrategyCoOrdered,
		})
	}
	return out, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	default:
		return 0
	}
}
