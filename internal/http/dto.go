package http

import (
	"time"

	"pennywise/internal/core"
	"pennywise/internal/report"
	"pennywise/internal/services"
	"pennywise/internal/target"
)

// Wire representations. Amounts are decimal strings in major units.

type userJSON struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"displayName"`
	Coins       int64      `json:"coins"`
	Streak      int64      `json:"streak"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toUser(u core.User) userJSON {
	return userJSON{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Coins:       u.Coins,
		Streak:      u.Streak,
		LastLogin:   u.LastLogin,
		CreatedAt:   u.CreatedAt,
	}
}

type expenseJSON struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Amount      string    `json:"amount"`
	OccurredAt  time.Time `json:"occurredAt"`
	Tier        string    `json:"tier"`
	Category    string    `json:"category"`
	PaymentMode string    `json:"paymentMode"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toExpense(e core.Expense) expenseJSON {
	return expenseJSON{
		ID:          e.ID,
		Name:        e.Name,
		Amount:      e.Amount.Major(),
		OccurredAt:  e.OccurredAt,
		Tier:        string(e.Tier),
		Category:    e.Category,
		PaymentMode: string(e.PaymentMode),
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt,
	}
}

type savingJSON struct {
	ID         int64     `json:"id"`
	Amount     string    `json:"amount"`
	OccurredAt time.Time `json:"occurredAt"`
	Source     string    `json:"source"`
	GoalID     *int64    `json:"goalId,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toSaving(s core.Saving) savingJSON {
	return savingJSON{
		ID:         s.ID,
		Amount:     s.Amount.Major(),
		OccurredAt: s.OccurredAt,
		Source:     string(s.Source),
		GoalID:     s.GoalID,
		Notes:      s.Notes,
		CreatedAt:  s.CreatedAt,
	}
}

type goalJSON struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	TargetAmount  string     `json:"targetAmount"`
	CurrentAmount string     `json:"currentAmount"`
	Remaining     string     `json:"remaining"`
	Progress      int64      `json:"progress"`
	StartDate     string     `json:"startDate"`
	TargetDate    string     `json:"targetDate"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

func toGoal(g core.Goal) goalJSON {
	progress := core.Percent(g.CurrentAmount.Minor, g.TargetAmount.Minor)
	if progress > 100 {
		progress = 100
	}
	return goalJSON{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount.Major(),
		CurrentAmount: g.CurrentAmount.Major(),
		Remaining:     core.MinorToMajor(g.Remaining()),
		Progress:      progress,
		StartDate:     g.StartDate.Format(dateLayout),
		TargetDate:    g.TargetDate.Format(dateLayout),
		Completed:     g.Completed,
		CompletedAt:   g.CompletedAt,
	}
}

type achievementJSON struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Coins       int64     `json:"coins"`
	PeriodKey   string    `json:"periodKey"`
	AwardedAt   time.Time `json:"awardedAt"`
}

func toAchievement(a core.Achievement) achievementJSON {
	return achievementJSON{
		ID:          a.ID,
		Type:        string(a.Type),
		Name:        a.Name,
		Description: a.Description,
		Coins:       a.Coins,
		PeriodKey:   a.PeriodKey,
		AwardedAt:   a.AwardedAt,
	}
}

type weekJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func toWeek(w target.Week) weekJSON {
	return weekJSON{Start: w.Key(), End: w.LastDay().Format(dateLayout)}
}

type weeklyStatusJSON struct {
	Week        weekJSON `json:"week"`
	Avoidable   string   `json:"avoidable"`
	Unnecessary string   `json:"unnecessary"`
	Target      string   `json:"target"`
	Saved       string   `json:"saved"`
	Progress    int64    `json:"progress"`
}

func toWeeklyStatus(st services.WeeklyStatus) weeklyStatusJSON {
	return weeklyStatusJSON{
		Week:        toWeek(st.Week),
		Avoidable:   core.MinorToMajor(st.Avoidable),
		Unnecessary: core.MinorToMajor(st.Unnecessary),
		Target:      core.MinorToMajor(st.Target),
		Saved:       core.MinorToMajor(st.Saved),
		Progress:    st.Progress,
	}
}

type targetRecordJSON struct {
	Week    weekJSON `json:"week"`
	Target  string   `json:"target"`
	Actual  string   `json:"actual"`
	Current bool     `json:"current"`
}

type reconciliationJSON struct {
	Week           weekJSON         `json:"week"`
	Target         string           `json:"target"`
	Actual         string           `json:"actual"`
	CoinsAwarded   int64            `json:"coinsAwarded"`
	Achievement    *achievementJSON `json:"achievement,omitempty"`
	AlreadyAwarded bool             `json:"alreadyAwarded"`
}

func toReconciliation(rec services.Reconciliation) reconciliationJSON {
	out := reconciliationJSON{
		Week:           toWeek(rec.Week),
		Target:         core.MinorToMajor(rec.Target),
		Actual:         core.MinorToMajor(rec.Actual),
		CoinsAwarded:   rec.CoinsAwarded,
		AlreadyAwarded: rec.AlreadyAwarded,
	}
	if rec.Achievement != nil {
		a := toAchievement(*rec.Achievement)
		out.Achievement = &a
	}
	return out
}

type groupJSON struct {
	Key     string `json:"key"`
	Amount  string `json:"amount"`
	Count   int    `json:"count"`
	Percent int64  `json:"percent"`
}

func toGroups(groups []report.Group) []groupJSON {
	out := make([]groupJSON, 0, len(groups))
	for _, g := range groups {
		out = append(out, groupJSON{Key: g.Key, Amount: core.MinorToMajor(g.Amount), Count: g.Count, Percent: g.Percent})
	}
	return out
}

type summaryJSON struct {
	ExpenseTotal string      `json:"expenseTotal"`
	SavingsTotal string      `json:"savingsTotal"`
	Net          string      `json:"net"`
	ExpenseCount int         `json:"expenseCount"`
	ByCategory   []groupJSON `json:"byCategory"`
	ByTier       []groupJSON `json:"byTier"`
	BySource     []groupJSON `json:"bySource"`
}

func toSummary(s report.Summary) summaryJSON {
	return summaryJSON{
		ExpenseTotal: core.MinorToMajor(s.ExpenseTotal),
		SavingsTotal: core.MinorToMajor(s.SavingsTotal),
		Net:          core.MinorToMajor(s.Net),
		ExpenseCount: s.ExpenseCount,
		ByCategory:   toGroups(s.ByCategory),
		ByTier:       toGroups(s.ByTier),
		BySource:     toGroups(s.BySource),
	}
}

type monthlyJSON struct {
	Month                string      `json:"month"`
	Summary              summaryJSON `json:"summary"`
	PreviousMonth        string      `json:"previousMonth"`
	PreviousExpenseTotal string      `json:"previousExpenseTotal"`
	PreviousSavingsTotal string      `json:"previousSavingsTotal"`
	ExpenseChange        int64       `json:"expenseChange"`
	SavingsChange        int64       `json:"savingsChange"`
	Tips                 []string    `json:"tips"`
}

func toMonthly(m services.MonthlyReport) monthlyJSON {
	return monthlyJSON{
		Month:                m.Month,
		Summary:              toSummary(m.Summary),
		PreviousMonth:        m.PreviousMonth,
		PreviousExpenseTotal: core.MinorToMajor(m.PreviousExpenseTotal),
		PreviousSavingsTotal: core.MinorToMajor(m.PreviousSavingsTotal),
		ExpenseChange:        m.ExpenseChange,
		SavingsChange:        m.SavingsChange,
		Tips:                 m.Tips,
	}
}

type predictionJSON struct {
	Month     string            `json:"month"`
	Predicted string            `json:"predicted"`
	Actual    *string           `json:"actual,omitempty"`
	Breakdown map[string]string `json:"breakdown"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func toPrediction(p core.Prediction) predictionJSON {
	out := predictionJSON{
		Month:     p.Month,
		Predicted: p.Predicted.Major(),
		Breakdown: make(map[string]string, len(p.Breakdown)),
		UpdatedAt: p.UpdatedAt,
	}
	if p.Actual != nil {
		a := p.Actual.Major()
		out.Actual = &a
	}
	for k, v := range p.Breakdown {
		out.Breakdown[k] = core.MinorToMajor(v)
	}
	return out
}

// mapSlice converts a slice with fn, never returning nil so lists encode as [].
func mapSlice[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
