package suggestion

import (
	"context"
	"errors"
	"fmt"

	"meal_storefront/internal/domain/apperr"
	"meal_storefront/internal/domain/catalog"
	"meal_storefront/internal/domain/order"
	"meal_storefront/internal/domain/repository"
	domain "meal_storefront/internal/domain/suggestion"
	"meal_storefront/pkg/logger"
)

const defaultLimit = 5

// Service projects placed orders into the purchase graph and serves
// reorder suggestions limited to products that can be ordered now.
type Service struct {
	graph    repository.PurchaseGraph
	products repository.ProductRepository
	logger   logger.Logger
}

func NewService(graph repository.PurchaseGraph, products repository.ProductRepository, log logger.Logger) *Service {
	return &Service{graph: graph, products: products, logger: log}
}

// HandleOrderPlaced records o in the purchase graph.
func (s *Service) HandleOrderPlaced(ctx context.Context, o *order.Order) error {
	if err := s.graph.RecordOrder(ctx, o); err != nil {
		return err
	}
	s.logger.WithContext(ctx).Info("order projected",
		logger.String("order_id", o.ID),
		logger.String("user_id", o.UserID),
		logger.Int("items", len(o.Items)),
	)
	return nil
}

// ForUser returns the products userID orders most, skipping those that
// are inactive or out of stock.
func (s *Service) ForUser(ctx context.Context, userID string, limit int) ([]domain.Suggestion, error) {
	limit = normalizeLimit(limit)
	candidates, err := s.graph.FrequentProducts(ctx, userID, limit*2)
	if err != nil {
		return nil, apperr.Resolution(fmt.Errorf("suggestions for user: %w", err),
			"We could not load your suggestions right now")
	}
	return s.orderable(ctx, candidates, limit), nil
}

// AlongWith returns products usually ordered together with productID.
func (s *Service) AlongWith(ctx context.Context, productID string, limit int) ([]domain.Suggestion, error) {
	limit = normalizeLimit(limit)
	candidates, err := s.graph.CoOrderedProducts(ctx, productID, limit*2)
	if err != nil {
		return nil, apperr.Resolution(fmt.Errorf("suggestions for product: %w", err),
			"We could not load your suggestions right now")
	}
	return s.orderable(ctx, candidates, limit), nil
}

func (s *Service) orderable(ctx context.Context, candidates []domain.Suggestion, limit int) []domain.Suggestion {
	out := make([]domain.Suggestion, 0, limit)
	for _, c := range candidates {
		if len(out) == limit {
			break
		}
		p, err := s.products.FindProduct(ctx, c.ProductID)
		if errors.Is(err, catalog.ErrProductNotFound) {
			continue
		}
		if err != nil {
			s.logger.WithContext(ctx).Warn("suggestion product lookup failed",
				logger.String("product_id", c.ProductID),
				logger.Error(err),
			)
			continue
		}
		if !p.IsActive || p.Stock <= 0 {
			continue
		}
		c.Title = p.Name
		out = append(out, c)
	}
	return out
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 50 {
		return defaultLimit
	}
	return limit
}
