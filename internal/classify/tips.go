package classify

import (
	"fmt"
	"sort"

	"pennywise/internal/core"
)

// CategorySpend is one line of a spending summary.
type CategorySpend struct {
	Category string
	Amount   int64
}

// SpendingSummary is what the tip generator sees about a period.
type SpendingSummary struct {
	Total       int64
	Avoidable   int64
	Unnecessary int64
	ByCategory  []CategorySpend
}

// TopCategory returns the category with the largest spend, or "" when empty.
func (s SpendingSummary) TopCategory() (CategorySpend, bool) {
	if len(s.ByCategory) == 0 {
		return CategorySpend{}, false
	}
	sorted := append([]CategorySpend(nil), s.ByCategory...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Amount > sorted[j].Amount })
	return sorted[0], true
}

var tipTemplates = map[string][3]string{
	core.CategoryFoodAndDrinks: {
		"You spent %s on food and drinks. Cooking at home twice more a week could cut this noticeably.",
		"Set a weekly eating-out budget and track it against your food delivery orders.",
		"Carry snacks and a water bottle to avoid impulse cafe purchases.",
	},
	core.CategoryShopping: {
		"Shopping came to %s. Try a 48-hour wait before any non-essential purchase.",
		"Unsubscribe from sale newsletters to reduce impulse buys.",
		"Keep a wishlist and buy only the items that are still on it a month later.",
	},
	core.CategoryEntertainment: {
		"Entertainment cost %s. Review streaming subscriptions and keep only the ones you use weekly.",
		"Look for free community events and weekday discounts for movies.",
		"Share family plans for music and video services.",
	},
	core.CategoryTravel: {
		"Travel spending reached %s. Booking earlier and travelling off-peak lowers fares.",
		"Set aside a fixed monthly amount for trips instead of paying for them at once.",
		"Compare homestays and trains before defaulting to hotels and flights.",
	},
	core.CategoryTransportation: {
		"Transport cost %s. Combine errands into one trip and consider public transit passes.",
		"Carpool for regular commutes where you can.",
		"Keep tyres inflated and service your vehicle on schedule to save fuel.",
	},
	core.CategoryGroceries: {
		"Groceries came to %s. Plan meals for the week and shop from a list.",
		"Buy staples in bulk and compare unit prices.",
		"Check what you already have before ordering from quick-commerce apps.",
	},
}

var genericTips = [3]string{
	"Your top spending category was %s. Set a weekly limit for it and review it every Sunday.",
	"Move a fixed amount to savings on payday before spending anything else.",
	"Review avoidable and unnecessary expenses each week; half of them is your savings target.",
}

// FallbackTips produces three template tips keyed by the top spending category.
func FallbackTips(s SpendingSummary) []string {
	top, ok := s.TopCategory()
	if !ok {
		return []string{
			"Start logging every expense for a week to see where your money goes.",
			genericTips[1],
			genericTips[2],
		}
	}
	if t, found := tipTemplates[core.NormalizeCategory(top.Category)]; found {
		return []string{fmt.Sprintf(t[0], core.FormatRupees(top.Amount)), t[1], t[2]}
	}
	return []string{fmt.Sprintf(genericTips[0], top.Category), genericTips[1], genericTips[2]}
}
