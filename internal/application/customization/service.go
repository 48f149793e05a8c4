package customization

import (
	"context"
	"errors"
	"fmt"

	"meal_storefront/internal/domain/apperr"
	domain "meal_storefront/internal/domain/customization"
	"meal_storefront/internal/domain/repository"
	"meal_storefront/pkg/logger"
)

type Service struct {
	groups repository.SubstitutionRepository
	logger logger.Logger
}

func NewService(groups repository.SubstitutionRepository, log logger.Logger) *Service {
	return &Service{groups: groups, logger: log}
}

// Groups returns the active substitution groups of a product.
func (s *Service) Groups(ctx context.Context, productID string) ([]domain.SubstitutionGroup, error) {
	groups, err := s.groups.ListGroups(ctx, productID)
	if err != nil {
		s.logger.WithContext(ctx).Warn("load substitution groups failed",
			logger.String("product_id", productID),
			logger.Error(err),
		)
		return nil, apperr.Resolution(fmt.Errorf("list groups: %w", err),
			"We could not load the options for this dish, please try again")
	}
	return domain.ActiveGroups(groups), nil
}

// Customize validates state for productID and returns notes with the
// resulting annotation appended. The returned notes feed the line's
// identity key. A product without active groups needs no decision.
func (s *Service) Customize(ctx context.Context, productID, notes string, state domain.State) (string, domain.Annotation, error) {
	groups, err := s.Groups(ctx, productID)
	if err != nil {
		return "", domain.Annotation{}, err
	}
	if len(groups) == 0 {
		if _, ok := state.(domain.Activated); !ok {
			return domain.ApplyToNotes(notes, domain.Annotation{}), domain.Annotation{}, nil
		}
	}
	annotation, err := domain.Validate(state, groups)
	if err != nil {
		return "", domain.Annotation{}, apperr.Input(err, message(err))
	}
	return domain.ApplyToNotes(notes, annotation), annotation, nil
}

func message(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoDecision):
		return "Choose to customize the dish or keep the original recipe"
	case errors.Is(err, domain.ErrIncompleteSelections):
		return "Pick an option for every ingredient"
	case errors.Is(err, domain.ErrNoChangeMade):
		return "Change at least one ingredient or keep the original recipe"
	case errors.Is(err, domain.ErrUnknownFood):
		return "One of the selected options is no longer available"
	default:
		return "Check your customization and try again"
	}
}
