package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"meal_storefront/internal/config"
)

// Client wraps the Neo4j driver with the read and write helpers we use.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
}

func NewClient(cfg config.Neo4jConfig) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify Neo4j connectivity: %w", err)
	}

	return &Client{
		driver:   driver,
		database: cfg.Database,
	}, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// ExecuteWrite runs a write query routed to the writers.
func (c *Client) ExecuteWrite(ctx context.Context, query string, params map[string]any) error {
	_, err := neo4j.ExecuteQuery(
		ctx,
		c.driver,
		query,
		params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.database),
		neo4j.ExecuteQueryWithWritersRouting())
	if err != nil {
		return fmt.Errorf("failed to execute write query: %w", err)
	}
	return nil
}

// ExecuteRead runs a read query and returns each record as a map.
func (c *Client) ExecuteRead(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	result, err := neo4j.ExecuteQuery(
		ctx,
		c.driver,
		query,
		params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.database),
		neo4j.ExecuteQueryWithReadersRouting())
	if err != nil {
		return nil, fmt.Errorf("failed to execute read query: %w", err)
	}

	rows := make([]map[string]any, 0, len(result.Records))
	for _, record := range result.Records {
		rows = append(rows, record.AsMap())
	}
	return rows, nil
}

// Health checks the database connection health
func (c *Client) Health(ctx context.Context) error {
	_, err := c.ExecuteRead(ctx, "RETURN 1", nil)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}
