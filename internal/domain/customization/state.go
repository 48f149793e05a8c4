package customization

// State is the customer's decision about substituting foods in one product.
// It is one of Uninitialized, KeptDefault or Activated.
type State interface {
	isState()
}

// Uninitialized means the customer has not chosen yet.
type Uninitialized struct{}

// KeptDefault means the customer explicitly kept the recipe as is.
type KeptDefault struct{}

// Activated carries one selected food per substitution group, keyed by group id.
type Activated struct {
	Selections map[string]string
}

func (Uninitialized) isState() {}
func (KeptDefault) isState() {}
func (Activated) isState() {}

// Activate starts customization with every active group set to its default food.
func Activate(groups []SubstitutionGroup) Activated {
	selections := make(map[string]string, len(groups))
	for _, g := range ActiveGroups(groups) {
		selections[g.ID] = g.DefaultFoodID
	}
	return Activated{Selections: selections}
}

// Select returns a copy of a with groupID set to foodID.
func (a Activated) Select(groupID, foodID string) Activated {
	selections := make(map[string]string, len(a.Selections)+1)
	for k, v := range a.Selections {
		selections[k] = v
	}
	selections[groupID] = foodID
	return Activated{Selections: selections}
}
