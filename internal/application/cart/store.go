package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"meal_storefront/internal/domain/apperr"
	domain "meal_storefront/internal/domain/cart"
	"meal_storefront/internal/domain/repository"
	"meal_storefront/pkg/logger"
)

// Store is the ordered line collection of one browsing session. Every
// mutation is written through to storage before it becomes visible; a failed
// write leaves the in-memory lines unchanged.
type Store struct {
	mu      sync.Mutex
	storage repository.KeyValueStore
	items   []domain.LineItem
	logger  logger.Logger
}

// Open rehydrates a store from its persisted snapshot, migrating legacy
// records once.
func Open(ctx context.Context, storage repository.KeyValueStore, log logger.Logger) (*Store, error) {
	s := &Store{
		storage: storage,
		logger:  log,
	}

	data, ok, err := storage.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if !ok || len(data) == 0 {
		return s, nil
	}

	items, migrated, err := decodeSnapshot(data)
	if err != nil {
		// A corrupt snapshot must not lock the customer out of the store.
		log.Warn("discarding unreadable cart snapshot", logger.Error(err))
		return s, nil
	}

	merged := mergeByKey(items)
	if len(merged) != len(items) {
		migrated = true
	}
	s.items = merged

	if migrated {
		log.Info("migrated legacy cart snapshot", logger.Int("lines", len(merged)))
		if err := s.persist(ctx, merged); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AddItem merges into the line with the same identity key or appends a new one.
func (s *Store) AddItem(ctx context.Context, item domain.LineItem, quantity int) error {
	if quantity < 1 {
		return apperr.Input(domain.ErrInvalidQuantity, "Quantity must be at least 1")
	}
	if item.ProductID == "" {
		return apperr.Input(domain.ErrMissingProduct, "Choose a product to add")
	}
	if item.UnitPrice.IsNegative() {
		return apperr.Input(domain.ErrInvalidPrice, "Invalid product price")
	}
	item.IdentityKey = domain.IdentityKey(item.ProductID, item.Notes)

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot()
	if idx := indexOf(next, item.IdentityKey); idx >= 0 {
		next[idx].Quantity += quantity
	} else {
		next = append(next, item.WithQuantity(quantity))
	}
	return s.commit(ctx, next)
}

// RemoveItem drops the line; unknown keys are ignored.
func (s *Store) RemoveItem(ctx context.Context, identityKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.items, identityKey)
	if idx < 0 {
		return nil
	}
	next := s.snapshot()
	next = append(next[:idx], next[idx+1:]...)
	return s.commit(ctx, next)
}

// UpdateQuantity sets the quantity of a line. Zero is allowed and keeps the
// line so the caller can offer removal.
func (s *Store) UpdateQuantity(ctx context.Context, identityKey string, quantity int) error {
	if quantity < 0 {
		return apperr.Input(domain.ErrNegativeQuantity, "Quantity cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.items, identityKey)
	if idx < 0 {
		return apperr.Input(domain.ErrItemNotInCart, "This item is no longer in your cart")
	}
	next := s.snapshot()
	next[idx].Quantity = quantity
	return s.commit(ctx, next)
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(ctx, []domain.LineItem{})
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

// Total is recomputed from the lines on every call.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.Total(s.items)
}

// Count is the number of lines, not units.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

func (s *Store) snapshot() []domain.LineItem {
	out := make([]domain.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// commit must be called with mu held.
func (s *Store) commit(ctx context.Context, next []domain.LineItem) error {
	if err := s.persist(ctx, next); err != nil {
		s.logger.Error("persist cart failed", logger.Error(err))
		return err
	}
	s.items = next
	return nil
}

func (s *Store) persist(ctx context.Context, items []domain.LineItem) error {
	data, err := encodeSnapshot(items)
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

func indexOf(items []domain.LineItem, identityKey string) int {
	for i, it := range items {
		if it.IdentityKey == identityKey {
			return i
		}
	}
	return -1
}

func mergeByKey(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, 0, len(items))
	for _, it := range items {
		if idx := indexOf(out, it.IdentityKey); idx >= 0 {
			out[idx].Quantity += it.Quantity
			continue
		}
		out = append(out, it)
	}
	return out
}
