package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"meal_storefront/internal/config"
	"meal_storefront/internal/domain/catalog"
	"meal_storefront/internal/domain/customization"
	"meal_storefront/internal/infrastructure/http/restclient"
	"meal_storefront/pkg/logger"
)

// Client reads the catalog from the storefront backend's PostgREST-style API.
type Client struct {
	http   *restclient.Client
	base   *url.URL
	apiKey string
	logger logger.Logger
}

func NewClient(cfg config.CatalogConfig, log logger.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("catalog base url is empty")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid catalog base url: %w", err)
	}

	return &Client{
		http: restclient.NewClient(restclient.Config{
			Timeout:          cfg.Timeout(),
			RetryMaxAttempts: cfg.RetryAttempts,
			RetryBackoff:     cfg.RetryBackoff(),
		}),
		base:   base,
		apiKey: cfg.APIKey,
		logger: log,
	}, nil
}

func (c *Client) FindProduct(ctx context.Context, id string) (*catalog.Product, error) {
	q := url.Values{}
	q.Set("select", "id,name,price,image_url,stock,is_active,allows_customization")
	q.Set("id", "eq."+id)
	q.Set("limit", "1")

	var rows []catalog.Product
	if err := c.get(ctx, "products", q, &rows); err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if len(rows) == 0 {
		return nil, catalog.ErrProductNotFound
	}
	return &rows[0], nil
}

// FindArea fetches the areas of the city and matches the neighborhood
// ignoring case and repeated spaces.
func (c *Client) FindArea(ctx context.Context, city, neighborhood string) (*catalog.DeliveryArea, error) {
	q := url.Values{}
	q.Set("select", "city,neighborhood,price")
	q.Set("city", "ilike."+strings.TrimSpace(city))

	var rows []catalog.DeliveryArea
	if err := c.get(ctx, "delivery_areas", q, &rows); err != nil {
		return nil, fmt.Errorf("find delivery area: %w", err)
	}

	wantCity, wantNeighborhood := catalog.NormalizePlace(city), catalog.NormalizePlace(neighborhood)
	for i := range rows {
		if catalog.NormalizePlace(rows[i].City) == wantCity &&
			catalog.NormalizePlace(rows[i].Neighborhood) == wantNeighborhood {
			return &rows[i], nil
		}
	}
	return nil, catalog.ErrAreaNotFound
}

func (c *Client) FindAddress(ctx context.Context, userID, addressID string) (*catalog.Address, error) {
	q := url.Values{}
	q.Set("select", "id,user_id,street,number,complement,neighborhood,city,state,zip_code")
	q.Set("id", "eq."+addressID)
	q.Set("user_id", "eq."+userID)
	q.Set("limit", "1")

	var rows []catalog.Address
	if err := c.get(ctx, "addresses", q, &rows); err != nil {
		return nil, fmt.Errorf("find address: %w", err)
	}
	if len(rows) == 0 {
		return nil, catalog.ErrAddressNotFound
	}
	return &rows[0], nil
}

func (c *Client) ListPaymentMethods(ctx context.Context) (map[string]catalog.PaymentMethod, error) {
	q := url.Values{}
	q.Set("select", "key,title,enabled,description")

	var rows []catalog.PaymentMethod
	if err := c.get(ctx, "payment_methods", q, &rows); err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	methods := make(map[string]catalog.PaymentMethod, len(rows))
	for _, m := range rows {
		methods[m.Key] = m
	}
	return methods, nil
}

type groupRow struct {
	ID            string `json:"id"`
	ProductID     string `json:"product_id"`
	DefaultFoodID string `json:"default_food_id"`
	Active        bool   `json:"active"`
	Position      int    `json:"position"`
	DefaultFood   struct {
		Name string `json:"name"`
	} `json:"default_food"`
	Alternatives []struct {
		Position int                `json:"position"`
		Food     customization.Food `json:"food"`
	} `json:"alternatives"`
}

func (c *Client) ListGroups(ctx context.Context, productID string) ([]customization.SubstitutionGroup, error) {
	q := url.Values{}
	q.Set("select", "id,product_id,default_food_id,active,position,"+
		"default_food:foods!default_food_id(name),"+
		"alternatives:substitution_alternatives(position,food:foods(id,name,active))")
	q.Set("product_id", "eq."+productID)
	q.Set("order", "position.asc,id.asc")

	var rows []groupRow
	if err := c.get(ctx, "substitution_groups", q, &rows); err != nil {
		return nil, fmt.Errorf("list substitution groups: %w", err)
	}

	groups := make([]customization.SubstitutionGroup, 0, len(rows))
	for _, row := range rows {
		alternatives := row.Alternatives
		sort.SliceStable(alternatives, func(i, j int) bool {
			return alternatives[i].Position < alternatives[j].Position
		})
		g := customization.SubstitutionGroup{
			ID:              row.ID,
			ProductID:       row.ProductID,
			DefaultFoodID:   row.DefaultFoodID,
			DefaultFoodName: row.DefaultFood.Name,
			Active:          row.Active,
		}
		for _, a := range alternatives {
			g.Alternatives = append(g.Alternatives, a.Food)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func (c *Client) get(ctx context.Context, table string, q url.Values, out any) error {
	u := *c.base
	u.Path = fmt.Sprintf("%s/rest/v1/%s", c.base.Path, table)
	u.RawQuery = q.Encode()

	resp, err := c.http.Get(ctx, u.String(), c.headers())
	if err != nil {
		c.logger.WithContext(ctx).Warn("catalog api call failed",
			logger.String("table", table),
			logger.Error(err),
		)
		return err
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	return nil
}

func (c *Client) headers() map[string]string {
	h := map[string]string{"Accept": "application/json"}
	if c.apiKey != "" {
		h["apikey"] = c.apiKey
		h["Authorization"] = "Bearer " + c.apiKey
	}
	return h
}
