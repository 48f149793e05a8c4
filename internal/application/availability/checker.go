package availability

import (
	"context"
	"errors"
	"time"

	domain "meal_storefront/internal/domain/availability"
	"meal_storefront/internal/domain/cart"
	"meal_storefront/internal/domain/catalog"
	"meal_storefront/internal/domain/repository"
	"meal_storefront/pkg/fanout"
	"meal_storefront/pkg/logger"
)

// Checker reconciles lines against live product state.
type Checker struct {
	pool   *fanout.Pool[cart.LineItem, *catalog.Product]
	logger logger.Logger
}

type Options struct {
	Workers       int
	LookupTimeout time.Duration
}

func NewChecker(products repository.ProductRepository, opts Options, log logger.Logger) *Checker {
	lookup := func(ctx context.Context, item cart.LineItem) (*catalog.Product, error) {
		return products.FindProduct(ctx, item.ProductID)
	}
	return &Checker{
		pool:   fanout.NewPool(opts.Workers, opts.LookupTimeout, lookup),
		logger: log,
	}
}

// Check looks up every line concurrently and partitions them. It never fails
// as a whole: a lookup error or timeout marks only that line CheckFailed.
// Every input line ends up in exactly one of the two partitions. Stock is
// compared against the quantity summed over all lines of a product, so a
// dish added both plain and customized is checked as one request.
func (c *Checker) Check(ctx context.Context, items []cart.LineItem) domain.Partition {
	partition := domain.Partition{
		Available:   make([]domain.Available, 0, len(items)),
		Unavailable: make([]domain.Unavailable, 0),
	}
	if len(items) == 0 {
		return partition
	}

	log := c.logger.WithContext(ctx)
	results := c.pool.Run(ctx, items)
	requested := requestedByProduct(items)

	for i, res := range results {
		item := items[i]
		switch {
		case errors.Is(res.Err, catalog.ErrProductNotFound), res.Err == nil && res.Value == nil:
			partition.Unavailable = append(partition.Unavailable, domain.NotFound(item))
		case res.Err != nil:
			log.Warn("availability lookup failed",
				logger.String("product_id", item.ProductID),
				logger.Duration("elapsed", res.Duration),
				logger.Error(res.Err),
			)
			partition.Unavailable = append(partition.Unavailable, domain.CheckFailed(item))
		case !res.Value.IsActive:
			partition.Unavailable = append(partition.Unavailable, domain.Inactive(item))
		case res.Value.Stock < requested[item.ProductID]:
			partition.Unavailable = append(partition.Unavailable,
				domain.InsufficientStock(item, requested[item.ProductID], res.Value.Stock))
		default:
			partition.Available = append(partition.Available, domain.Available{Item: item, Product: *res.Value})
		}
	}

	if !partition.AllAvailable() {
		log.Info("some items are unavailable",
			logger.Int("available", len(partition.Available)),
			logger.Int("unavailable", len(partition.Unavailable)),
		)
	}
	return partition
}

func requestedByProduct(items []cart.LineItem) map[string]int {
	out := make(map[string]int, len(items))
	for _, item := range items {
		out[item.ProductID] += item.Quantity
	}
	return out
}
