package gemini

import (
	"fmt"
	"strings"

	"pennywise/internal/classify"
	"pennywise/internal/core"
)

func categoryPrompt(text string) string {
	return fmt.Sprintf(`Categorize this expense into exactly one of these categories: %s.
Expense: %q
Respond with the category name only.`, strings.Join(core.Taxonomy, ", "), text)
}

func tierPrompt(name, category string, amount int64) string {
	return fmt.Sprintf(`Classify this expense for an Indian household budget as one of: necessary, avoidable, unnecessary.
Name: %q
Category: %s
Amount: %s
Respond with the single word only.`, name, category, core.FormatRupees(amount))
}

func tipsPrompt(s classify.SpendingSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total spent: %s\n", core.FormatRupees(s.Total))
	fmt.Fprintf(&b, "Avoidable: %s\n", core.FormatRupees(s.Avoidable))
	fmt.Fprintf(&b, "Unnecessary: %s\n", core.FormatRupees(s.Unnecessary))
	for _, c := range s.ByCategory {
		fmt.Fprintf(&b, "- %s: %s\n", c.Category, core.FormatRupees(c.Amount))
	}
	return "Give exactly three short, practical money saving tips for this spending.\n" +
		b.String() +
		"Respond with one tip per line and no numbering."
}

// parseCategory extracts a category label from free text such as
// "Category: Food & Drinks." and normalizes it. Unknown labels are returned
// as-is so the caller can reject them.
func parseCategory(out string) string {
	line := firstLine(out)
	if i := strings.Index(line, ":"); i >= 0 {
		line = line[i+1:]
	}
	line = strings.Trim(line, " \t*.\"'`")
	return core.NormalizeCategory(line)
}

// parseTier accepts a reply whose first line is exactly one tier label,
// optionally as "Tier: <label>" and wrapped in markdown or punctuation.
// Anything else is returned trimmed so the caller falls back.
func parseTier(out string) string {
	line := firstLine(out)
	label := strings.Trim(line, " \t*.!\"'`")
	if i := strings.Index(label, ":"); i >= 0 && strings.EqualFold(strings.TrimSpace(label[:i]), "tier") {
		label = strings.Trim(label[i+1:], " \t*.!\"'`")
	}
	if t, ok := core.ParseTier(label); ok {
		return string(t)
	}
	return strings.TrimSpace(line)
}

func parseTips(out string) []string {
	var tips []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•0123456789.) ")
		line = strings.TrimSpace(line)
		if line != "" {
			tips = append(tips, line)
		}
	}
	return tips
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
