package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Necessary   Tier = "necessary"
	Avoidable   Tier = "avoidable"
	Unnecessary Tier = "unnecessary"
)

const (
	PaymentCash         PaymentMode = "cash"
	PaymentCard         PaymentMode = "card"
	PaymentUPI          PaymentMode = "upi"
	PaymentBankTransfer PaymentMode = "bank_transfer"
	PaymentWallet       PaymentMode = "wallet"
	PaymentOther        PaymentMode = "other"
)

const (
	SourceManual         SavingSource = "manual"
	SourcePiggyBank      SavingSource = "piggy_bank"
	SourcePayroll        SavingSource = "payroll"
	SourceGoalAllocation SavingSource = "goal_allocation"
	SourceOther          SavingSource = "other"
)

const (
	AchievementGoalMet      AchievementType = "goal_met"
	AchievementWeeklyTarget AchievementType = "weekly_target"
)

type (
	// Tier is the necessity classification of an expense.
	Tier string

	PaymentMode  string
	SavingSource string

	AchievementType string

	User struct {
		ID           int64
		Username     string
		DisplayName  string
		PasswordHash string
		Coins        int64
		Streak       int64
		LastLogin    *time.Time
		CreatedAt    time.Time
	}

	Expense struct {
		ID          int64
		UserID      int64
		Name        string
		Amount      Money
		OccurredAt  time.Time
		Tier        Tier
		Category    string
		PaymentMode PaymentMode
		Notes       string
		CreatedAt   time.Time
	}

	// Saving is a movement in the logical savings pool. Goal allocations are
	// recorded as negative amounts.
	Saving struct {
		ID         int64
		UserID     int64
		Amount     Money
		OccurredAt time.Time
		Source     SavingSource
		GoalID     *int64
		Notes      string
		CreatedAt  time.Time
	}

	Goal struct {
		ID            int64
		UserID        int64
		Name          string
		TargetAmount  Money
		CurrentAmount Money
		StartDate     time.Time
		TargetDate    time.Time
		Completed     bool
		CompletedAt   *time.Time
		CreatedAt     time.Time
	}

	// Achievement records a reward event. Rows are append-only.
	Achievement struct {
		ID          int64
		UserID      int64
		Type        AchievementType
		Name        string
		Description string
		Coins       int64
		PeriodKey   string
		AwardedAt   time.Time
	}

	// Prediction is a monthly spending forecast keyed by "YYYY-MM".
	Prediction struct {
		ID        int64
		UserID    int64
		Month     string
		Predicted Money
		Actual    *Money
		Breakdown map[string]int64
		UpdatedAt time.Time
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidTier     = errors.New("invalid tier")
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrConflict        = errors.New("conflict")
	ErrInsufficientPot = errors.New("insufficient savings")
)

// Tiers lists the valid tiers in ascending severity.
var Tiers = []Tier{Necessary, Avoidable, Unnecessary}

// ParseTier normalizes s and reports whether it names a tier.
func ParseTier(s string) (Tier, bool) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

func (t Tier) Valid() bool {
	switch t {
	case Necessary, Avoidable, Unnecessary:
		return true
	}
	return false
}

func (p PaymentMode) Valid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentUPI, PaymentBankTransfer, PaymentWallet, PaymentOther:
		return true
	}
	return false
}

func (s SavingSource) Valid() bool {
	switch s {
	case SourceManual, SourcePiggyBank, SourcePayroll, SourceGoalAllocation, SourceOther:
		return true
	}
	return false
}

// IsDeposit reports whether the source counts as a manual deposit for rewards.
func (s SavingSource) IsDeposit() bool {
	return s == SourceManual || s == SourcePiggyBank
}

func (e Expense) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(e.Name) == "" {
		v.Add("name", "is required")
	} else if len(e.Name) > 200 {
		v.Add("name", "must be at most 200 characters")
	}
	if err := e.Amount.Validate(); err != nil {
		v.Add("amount", "must be greater than zero")
	}
	if e.OccurredAt.IsZero() {
		v.Add("occurredAt", "is required")
	}
	if !e.Tier.Valid() {
		v.Add("tier", "must be one of necessary, avoidable, unnecessary")
	}
	if strings.TrimSpace(e.Category) == "" {
		v.Add("category", "is required")
	} else if len(e.Category) > 50 {
		v.Add("category", "must be at most 50 characters")
	}
	if !e.PaymentMode.Valid() {
		v.Add("paymentMode", "is not a supported payment mode")
	}
	if len(e.Notes) > 500 {
		v.Add("notes", "must be at most 500 characters")
	}
	return v.OrNil()
}

func (s Saving) Validate() error {
	v := &ValidationError{}
	if s.Amount.Minor == 0 {
		v.Add("amount", "must not be zero")
	}
	if s.Amount.Minor < 0 && s.Source != SourceGoalAllocation {
		v.Add("amount", "must be positive")
	}
	if s.OccurredAt.IsZero() {
		v.Add("occurredAt", "is required")
	}
	if !s.Source.Valid() {
		v.Add("source", "is not a supported source")
	}
	if len(s.Notes) > 500 {
		v.Add("notes", "must be at most 500 characters")
	}
	return v.OrNil()
}

func (g Goal) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(g.Name) == "" {
		v.Add("name", "is required")
	} else if len(g.Name) > 100 {
		v.Add("name", "must be at most 100 characters")
	}
	if err := g.TargetAmount.Validate(); err != nil {
		v.Add("targetAmount", "must be greater than zero")
	}
	if g.CurrentAmount.Minor < 0 {
		v.Add("currentAmount", "must not be negative")
	}
	if g.StartDate.IsZero() {
		v.Add("startDate", "is required")
	}
	if g.TargetDate.IsZero() {
		v.Add("targetDate", "is required")
	} else if !g.StartDate.IsZero() && g.TargetDate.Before(g.StartDate) {
		v.Add("targetDate", "must not be before startDate")
	}
	return v.OrNil()
}

// Remaining returns how much is still needed to reach the target, never negative.
func (g Goal) Remaining() int64 {
	if r := g.TargetAmount.Minor - g.CurrentAmount.Minor; r > 0 {
		return r
	}
	return 0
}
