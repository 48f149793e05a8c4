package customization

import "fmt"

// Validate checks the customer's customization against the product's groups
// and returns the annotation to store on the cart line.
//
// Rules, in order: KeptDefault is always accepted with an empty annotation;
// Uninitialized is rejected; Activated needs a valid selection for every
// active group and at least one selection different from its default.
func Validate(state State, groups []SubstitutionGroup) (Annotation, error) {
	switch s := state.(type) {
	case KeptDefault:
		return Annotation{}, nil
	case Activated:
		return validateActivated(s, ActiveGroups(groups))
	default:
		return Annotation{}, ErrNoDecision
	}
}

func validateActivated(state Activated, groups []SubstitutionGroup) (Annotation, error) {
	for _, g := range groups {
		if state.Selections[g.ID] == "" {
			return Annotation{}, fmt.Errorf("%w: %s", ErrIncompleteSelections, g.Name())
		}
	}

	var annotation Annotation
	for _, g := range groups {
		selected := state.Selections[g.ID]
		name, ok := g.FoodName(selected)
		if !ok {
			return Annotation{}, fmt.Errorf("%w: %s", ErrUnknownFood, g.Name())
		}
		if selected != g.DefaultFoodID {
			annotation.Substitutions = append(annotation.Substitutions, Substitution{
				Group:  g.Name(),
				Chosen: name,
			})
		}
	}

	// With one group its selection must differ; with more, any one may.
	if len(annotation.Substitutions) == 0 {
		return Annotation{}, ErrNoChangeMade
	}
	return annotation, nil
}
