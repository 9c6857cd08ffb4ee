package classify

import (
	"regexp"
	"strings"

	"pennywise/internal/core"
)

// KeywordRule assigns Category when Pattern matches an expense name.
type KeywordRule struct {
	Category string
	Pattern  *regexp.Regexp
}

func kw(category string, words ...string) KeywordRule {
	return KeywordRule{
		Category: category,
		Pattern:  regexp.MustCompile(`(?i)\b(` + strings.Join(words, "|") + `)\b`),
	}
}

// DefaultKeywords is evaluated in order, so more specific groups come first.
var DefaultKeywords = []KeywordRule{
	kw(core.CategoryGroceries, "grocery", "groceries", "supermarket", "vegetables?", "fruits?", "milk", "bigbasket", "blinkit", "zepto", "dmart", "kirana"),
	kw(core.CategoryUtilities, "electricity", "water bill", "gas", "internet", "wifi", "broadband", "recharge"),
	kw(core.CategoryTransportation, "uber", "ola", "rapido", "taxi", "cab", "bus", "metro", "train", "petrol", "diesel", "fuel", "parking", "toll"),
	kw(core.CategoryFoodAndDrinks, "restaurant", "cafe", "coffee", "tea", "lunch", "dinner", "breakfast", "pizza", "burger", "swiggy", "zomato", "snacks?", "drinks?", "food"),
	kw(core.CategoryHousing, "rent", "maintenance", "society", "plumber", "electrician", "furniture"),
	kw(core.CategoryHealth, "doctor", "hospital", "medicines?", "pharmacy", "clinic", "dental", "gym"),
	kw(core.CategoryEducation, "course", "tuition", "books?", "school", "college", "exam", "udemy", "coursera"),
	kw(core.CategoryEntertainment, "movies?", "cinema", "netflix", "hotstar", "spotify", "concert", "games?", "bookmyshow", "tickets?"),
	kw(core.CategoryShopping, "amazon", "flipkart", "myntra", "clothes", "shoes", "shirt", "electronics", "gadgets?", "mall"),
	kw(core.CategoryTravel, "flights?", "hotel", "trip", "vacation", "holiday", "airbnb", "irctc", "makemytrip"),
	kw(core.CategoryPersonalCare, "salon", "haircut", "spa", "cosmetics", "skincare", "grooming", "parlour"),
	kw(core.CategoryGifts, "gifts?", "birthday", "wedding", "present", "donation"),
	kw(core.CategoryInvestment, "sip", "mutual funds?", "stocks?", "shares", "fixed deposit", "ppf", "gold", "crypto", "zerodha", "groww"),
	kw(core.CategoryBills, "bill", "emi", "credit card", "insurance"),
}

// MatchKeywords returns the first category whose pattern matches name, or
// core.CategoryOther.
func MatchKeywords(rules []KeywordRule, name string) string {
	for _, r := range rules {
		if r.Pattern.MatchString(name) {
			return r.Category
		}
	}
	return core.CategoryOther
}
