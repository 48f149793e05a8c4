package payment

import (
	"context"
	"fmt"
	"sort"

	"meal_storefront/internal/domain/catalog"
	"meal_storefront/internal/domain/repository"
)

type Service struct {
	repo repository.PaymentMethodRepository
}

func NewService(repo repository.PaymentMethodRepository) *Service {
	return &Service{repo: repo}
}

// Enabled returns the methods customers may choose, sorted by key.
func (s *Service) Enabled(ctx context.Context) ([]catalog.PaymentMethod, error) {
	all, err := s.repo.ListPaymentMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}

	out := make([]catalog.PaymentMethod, 0, len(all))
	for key, m := range all {
		if !m.Enabled {
			continue
		}
		m.Key = key
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *Service) IsEnabled(ctx context.Context, key string) (bool, error) {
	all, err := s.repo.ListPaymentMethods(ctx)
	if err != nil {
		return false, fmt.Errorf("list payment methods: %w", err)
	}
	m, ok := all[key]
	return ok && m.Enabled, nil
}
