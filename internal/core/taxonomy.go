package core

import "strings"

// Category suggestions understood by the categorizer.
const (
	CategoryFoodAndDrinks  = "food_and_drinks"
	CategoryGroceries      = "groceries"
	CategoryShopping       = "shopping"
	CategoryEntertainment  = "entertainment"
	CategoryTransportation = "transportation"
	CategoryHealth         = "health"
	CategoryUtilities      = "utilities"
	CategoryHousing        = "housing"
	CategoryEducation      = "education"
	CategoryTravel         = "travel"
	CategoryPersonalCare   = "personal_care"
	CategoryGifts          = "gifts"
	CategoryInvestment     = "investment"
	CategoryBills          = "bills"
	CategoryOther          = "other"
)

// Taxonomy is the fixed category suggestion set, in display order.
var Taxonomy = []string{
	CategoryFoodAndDrinks,
	CategoryGroceries,
	CategoryShopping,
	CategoryEntertainment,
	CategoryTransportation,
	CategoryHealth,
	CategoryUtilities,
	CategoryHousing,
	CategoryEducation,
	CategoryTravel,
	CategoryPersonalCare,
	CategoryGifts,
	CategoryInvestment,
	CategoryBills,
	CategoryOther,
}

// NormalizeCategory maps labels such as "Food & Drinks" or "personal care"
// to their slug form. Unknown labels are returned trimmed and lower-cased.
func NormalizeCategory(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
	return s
}

// IsTaxonomyCategory reports whether s normalizes to a known category.
func IsTaxonomyCategory(s string) bool {
	n := NormalizeCategory(s)
	for _, c := range Taxonomy {
		if c == n {
			return true
		}
	}
	return false
}
