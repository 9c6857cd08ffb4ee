package classify

import "pennywise/internal/core"

// Rule maps a group of categories to a tier, escalating once the amount
// exceeds Threshold (minor units).
type Rule struct {
	Name       string
	Categories []string
	Threshold  int64
	AtOrBelow  core.Tier
	Above      core.Tier
}

func (r Rule) tier(amount int64) core.Tier {
	if amount > r.Threshold {
		return r.Above
	}
	return r.AtOrBelow
}

func (r Rule) matches(category string) bool {
	for _, c := range r.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// RuleTable is the deterministic fallback policy used when the external
// categorizer cannot answer. The first matching rule wins; Default applies to
// categories no rule lists.
type RuleTable struct {
	Rules   []Rule
	Default Rule
}

// DefaultRuleTable returns the stock policy. Thresholds are in paise.
func DefaultRuleTable() RuleTable {
	return RuleTable{
		Rules: []Rule{
			{
				Name: "necessary-leaning",
				Categories: []string{
					core.CategoryGroceries, core.CategoryUtilities, core.CategoryHousing,
					core.CategoryHealth, core.CategoryTransportation, core.CategoryBills,
					core.CategoryEducation,
				},
				Threshold: 5000_00,
				AtOrBelow: core.Necessary,
				Above:     core.Avoidable,
			},
			{
				Name: "context-dependent",
				Categories: []string{
					core.CategoryFoodAndDrinks, core.CategoryPersonalCare, core.CategoryInvestment,
				},
				Threshold: 1000_00,
				AtOrBelow: core.Necessary,
				Above:     core.Avoidable,
			},
			{
				Name: "discretionary-leaning",
				Categories: []string{
					core.CategoryEntertainment, core.CategoryShopping, core.CategoryTravel,
					core.CategoryGifts,
				},
				Threshold: 2000_00,
				AtOrBelow: core.Avoidable,
				Above:     core.Unnecessary,
			},
		},
		Default: Rule{
			Name:      "uncategorized",
			Threshold: 3000_00,
			AtOrBelow: core.Avoidable,
			Above:     core.Unnecessary,
		},
	}
}

// Classify applies the table to a category label and amount.
func (t RuleTable) Classify(category string, amount int64) core.Tier {
	category = core.NormalizeCategory(category)
	for _, r := range t.Rules {
		if r.matches(category) {
			return r.tier(amount)
		}
	}
	return t.Default.tier(amount)
}
