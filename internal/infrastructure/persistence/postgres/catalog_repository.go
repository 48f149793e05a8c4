package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"meal_storefront/internal/domain/catalog"
	"meal_storefront/internal/domain/customization"
)

// CatalogRepository reads products, delivery areas, addresses, payment
// methods and substitution groups straight from the database.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) FindProduct(ctx context.Context, id string) (*catalog.Product, error) {
	const query = `
		SELECT id, name, price, image_url, stock, is_active, allows_customization
		FROM products
		WHERE id = $1;
	`
	var p catalog.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.ImageURL,
		&p.Stock,
		&p.IsActive,
		&p.AllowsCustomization,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, catalog.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &p, nil
}

// FindArea matches city and neighborhood ignoring case and repeated spaces.
func (r *CatalogRepository) FindArea(ctx context.Context, city, neighborhood string) (*catalog.DeliveryArea, error) {
	const query = `
		SELECT city, neighborhood, price
		FROM delivery_areas
		WHERE lower(regexp_replace(btrim(city), '\s+', ' ', 'g')) = $1
		  AND lower(regexp_replace(btrim(neighborhood), '\s+', ' ', 'g')) = $2
		LIMIT 1;
	`
	var a catalog.DeliveryArea
	err := r.pool.QueryRow(ctx, query, catalog.NormalizePlace(city), catalog.NormalizePlace(neighborhood)).
		Scan(&a.City, &a.Neighborhood, &a.Price)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, catalog.ErrAreaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find delivery area: %w", err)
	}
	return &a, nil
}

func (r *CatalogRepository) FindAddress(ctx context.Context, userID, addressID string) (*catalog.Address, error) {
	const query = `
		SELECT id, user_id, street, number, complement, neighborhood, city, state, zip_code
		FROM addresses
		WHERE id = $1 AND user_id = $2;
	`
	var a catalog.Address
	err := r.pool.QueryRow(ctx, query, addressID, userID).Scan(
		&a.ID,
		&a.UserID,
		&a.Street,
		&a.Number,
		&a.Complement,
		&a.Neighborhood,
		&a.City,
		&a.State,
		&a.ZipCode,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, catalog.ErrAddressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find address: %w", err)
	}
	return &a, nil
}

func (r *CatalogRepository) ListPaymentMethods(ctx context.Context) (map[string]catalog.PaymentMethod, error) {
	const query = `SELECT key, title, enabled, description FROM payment_methods;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	defer rows.Close()

	methods := make(map[string]catalog.PaymentMethod)
	for rows.Next() {
		var m catalog.PaymentMethod
		if err := rows.Scan(&m.Key, &m.Title, &m.Enabled, &m.Description); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		methods[m.Key] = m
	}
	return methods, rows.Err()
}

// ListGroups returns every group of productID with its alternatives, active
// or not, in display order.
func (r *CatalogRepository) ListGroups(ctx context.Context, productID string) ([]customization.SubstitutionGroup, error) {
	const groupsQuery = `
		SELECT g.id, g.product_id, g.default_food_id, f.name, g.active
		FROM substitution_groups g
		JOIN foods f ON f.id = g.default_food_id
		WHERE g.product_id = $1
		ORDER BY g.position, g.id;
	`
	const alternativesQuery = `
		SELECT a.group_id, f.id, f.name, f.active
		FROM substitution_alternatives a
		JOIN substitution_groups g ON g.id = a.group_id
		JOIN foods f ON f.id = a.food_id
		WHERE g.product_id = $1
		ORDER BY a.position, f.id;
	`

	rows, err := r.pool.Query(ctx, groupsQuery, productID)
	if err != nil {
		return nil, fmt.Errorf("list substitution groups: %w", err)
	}
	groups, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (customization.SubstitutionGroup, error) {
		var g customization.SubstitutionGroup
		err := row.Scan(&g.ID, &g.ProductID, &g.DefaultFoodID, &g.DefaultFoodName, &g.Active)
		return g, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan substitution group: %w", err)
	}
	if len(groups) == 0 {
		return groups, nil
	}

	index := make(map[string]int, len(groups))
	for i, g := range groups {
		index[g.ID] = i
	}

	rows, err = r.pool.Query(ctx, alternativesQuery, productID)
	if err != nil {
		return nil, fmt.Errorf("list substitution alternatives: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var groupID string
		var food customization.Food
		if err := rows.Scan(&groupID, &food.ID, &food.Name, &food.Active); err != nil {
			return nil, fmt.Errorf("scan substitution alternative: %w", err)
		}
		if i, ok := index[groupID]; ok {
			groups[i].Alternatives = append(groups[i].Alternatives, food)
		}
	}
	return groups, rows.Err()
}
