package customization

// Food is an alternative offered in a substitution group.
type Food struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// SubstitutionGroup is a default food of a product plus what may replace it.
type SubstitutionGroup struct {
	ID              string `json:"id"`
	ProductID       string `json:"product_id"`
	DefaultFoodID   string `json:"default_food_id"`
	DefaultFoodName string `json:"default_food_name"`
	Alternatives    []Food `json:"alternatives"`
	Active          bool   `json:"active"`
}

// Name is how the group is labelled to the customer.
func (g SubstitutionGroup) Name() string {
	return g.DefaultFoodName
}

// FoodName resolves foodID against the default and the alternatives.
func (g SubstitutionGroup) FoodName(foodID string) (string, bool) {
	if foodID == g.DefaultFoodID {
		return g.DefaultFoodName, true
	}
	for _, alt := range g.Alternatives {
		if alt.ID == foodID {
			return alt.Name, true
		}
	}
	return "", false
}

// ActiveGroups keeps active groups and, inside them, active alternatives.
func ActiveGroups(groups []SubstitutionGroup) []SubstitutionGroup {
	out := make([]SubstitutionGroup, 0, len(groups))
	for _, g := range groups {
		if !g.Active {
			continue
		}
		alts := make([]Food, 0, len(g.Alternatives))
		for _, alt := range g.Alternatives {
			if alt.Active {
				alts = append(alts, alt)
			}
		}
		g.Alternatives = alts
		out = append(out, g)
	}
	return out
}
