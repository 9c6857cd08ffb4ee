// Package classify assigns categories and necessity tiers to expenses.
//
// An external categorizer is tried first with a bounded timeout. Any error,
// timeout or unexpected label falls back to deterministic keyword and rule
// tables; callers never see categorizer failures.
package classify

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"pennywise/internal/core"
)

// Categorizer is the external AI categorization service.
type Categorizer interface {
	Categorize(ctx context.Context, text string) (string, error)
	ClassifyTier(ctx context.Context, name, category string, amount int64) (string, error)
	SuggestSavingsTips(ctx context.Context, summary SpendingSummary) ([]string, error)
}

// Source reports which path produced a decision.
type Source string

const (
	SourceExternal Source = "external"
	SourceFallback Source = "fallback"
)

// Config holds engine configuration.
type Config struct {
	Timeout  time.Duration
	Rules    RuleTable
	Keywords []KeywordRule
}

// DefaultConfig returns the stock rule tables and a 5s categorizer timeout.
func DefaultConfig() Config {
	return Config{
		Timeout:  5 * time.Second,
		Rules:    DefaultRuleTable(),
		Keywords: DefaultKeywords,
	}
}

// Engine classifies expenses. A nil external categorizer is allowed and means
// the rule tables are always used.
type Engine struct {
	external Categorizer
	config   Config
}

func NewEngine(external Categorizer, config Config) *Engine {
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if len(config.Rules.Rules) == 0 && config.Rules.Default.AtOrBelow == "" {
		config.Rules = DefaultRuleTable()
	}
	if config.Keywords == nil {
		config.Keywords = DefaultKeywords
	}
	return &Engine{external: external, config: config}
}

// TierDecision is a tier plus the path that produced it.
type TierDecision struct {
	Tier   core.Tier
	Source Source
}

// Classify returns the necessity tier for an expense.
func (e *Engine) Classify(ctx context.Context, name, category string, amount int64) core.Tier {
	return e.ClassifyDecision(ctx, name, category, amount).Tier
}

func (e *Engine) ClassifyDecision(ctx context.Context, name, category string, amount int64) TierDecision {
	if e.external != nil {
		cctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
		label, err := e.external.ClassifyTier(cctx, name, category, amount)
		cancel()
		if err == nil {
			if tier, ok := core.ParseTier(label); ok {
				return TierDecision{Tier: tier, Source: SourceExternal}
			}
			slog.WarnContext(ctx, "Categorizer returned unexpected tier, using rules",
				"label", label, "category", category)
		} else {
			slog.WarnContext(ctx, "Categorizer tier call failed, using rules",
				"error", err, "category", category)
		}
	}
	return TierDecision{Tier: e.config.Rules.Classify(category, amount), Source: SourceFallback}
}

// Categorize returns a taxonomy category for an expense name.
func (e *Engine) Categorize(ctx context.Context, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.CategoryOther
	}
	if e.external != nil {
		cctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
		label, err := e.external.Categorize(cctx, name)
		cancel()
		if err == nil && core.IsTaxonomyCategory(label) {
			return core.NormalizeCategory(label)
		}
		slog.WarnContext(ctx, "Categorizer could not categorize, using keywords",
			"error", err, "label", label)
	}
	return MatchKeywords(e.config.Keywords, name)
}

// SavingsTips returns exactly three tips for the summary.
func (e *Engine) SavingsTips(ctx context.Context, summary SpendingSummary) []string {
	if e.external != nil {
		cctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
		tips, err := e.external.SuggestSavingsTips(cctx, summary)
		cancel()
		if err == nil {
			if cleaned := cleanTips(tips); len(cleaned) >= 3 {
				return cleaned[:3]
			}
		}
		slog.WarnContext(ctx, "Categorizer tips unavailable, using templates", "error", err)
	}
	return FallbackTips(summary)
}

func cleanTips(tips []string) []string {
	out := make([]string, 0, len(tips))
	for _, t := range tips {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
