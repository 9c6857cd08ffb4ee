package gemini

import (
	"strings"
	"testing"

	"pennywise/internal/classify"
	"pennywise/internal/core"

	genai "google.golang.org/api/generativelanguage/v1beta"
)

func TestParseCategory(t *testing.T) {
	cases := map[string]string{
		"Entertainment":              "entertainment",
		"Category: Food & Drinks.":   "food_and_drinks",
		"**personal care**\nbecause": "personal_care",
		"  Groceries  ":              "groceries",
	}
	for in, want := range cases {
		if got := parseCategory(in); got != want {
			t.Errorf("parseCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseTier(t *testing.T) {
	cases := map[string]string{
		"Unnecessary":                    "unnecessary",
		"avoidable":                      "avoidable",
		"**Necessary.**":                 "necessary",
		"It's a luxury":                  "It's a luxury",
		"Tier: UNNECESSARY\nbecause":     "unnecessary",
		"This is necessary.":             "This is necessary.",
		"This is not necessary.":         "This is not necessary.",
		"Not unnecessary, but avoidable": "Not unnecessary, but avoidable",
		"I can't tell whether it is avoidable or unnecessary.": "I can't tell whether it is avoidable or unnecessary.",
	}
	for in, want := range cases {
		if got := parseTier(in); got != want {
			t.Errorf("parseTier(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseTierRejectsProse(t *testing.T) {
	for _, in := range []string{
		"This is not necessary.",
		"avoidable or unnecessary",
		"Tier: probably avoidable",
	} {
		if _, ok := core.ParseTier(parseTier(in)); ok {
			t.Errorf("parseTier(%q) produced a tier, want rejection", in)
		}
	}
}

func TestParseTips(t *testing.T) {
	out := "1. Cook at home\n\n- Cancel unused subscriptions\n* Walk short distances\n"
	tips := parseTips(out)
	want := []string{"Cook at home", "Cancel unused subscriptions", "Walk short distances"}
	if len(tips) != len(want) {
		t.Fatalf("got %v", tips)
	}
	for i := range want {
		if tips[i] != want[i] {
			t.Errorf("tip %d = %q, want %q", i, tips[i], want[i])
		}
	}
}

func TestResponseText(t *testing.T) {
	if responseText(nil) != "" {
		t.Fatal("nil response should be empty")
	}
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{}},
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "food"}, {Text: "_and_drinks "}}}},
		},
	}
	if got := responseText(resp); got != "food_and_drinks" {
		t.Fatalf("got %q", got)
	}
}

func TestTipsPromptIncludesCategories(t *testing.T) {
	p := tipsPrompt(classify.SpendingSummary{
		Total:      1500_00,
		ByCategory: []classify.CategorySpend{{Category: "shopping", Amount: 1500_00}},
	})
	if !strings.Contains(p, "- shopping: ₹1,500.00") {
		t.Fatalf("prompt missing category line: %s", p)
	}
}
