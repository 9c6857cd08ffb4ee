package rewards

import (
	"fmt"

	"pennywise/internal/core"
	"pennywise/internal/target"
)

const (
	FirstExpenseOfDayCoins int64 = 10
	DepositCoins           int64 = 5
	GoalMetCoins           int64 = 100
	WeeklyTargetMaxCoins   int64 = 100
)

// Daily award kinds recorded at most once per user and day.
const (
	DailyKindFirstExpense = "first_expense"
)

// DepositAward returns the coins earned by recording a saving.
func DepositAward(s core.Saving) int64 {
	if s.Source.IsDeposit() && s.Amount.Minor > 0 {
		return DepositCoins
	}
	return 0
}

// GoalMetAchievement builds the achievement row for a completed goal.
func GoalMetAchievement(g core.Goal) core.Achievement {
	return core.Achievement{
		UserID:      g.UserID,
		Type:        core.AchievementGoalMet,
		Name:        "Goal reached",
		Description: fmt.Sprintf("Saved %s for %q", g.TargetAmount, g.Name),
		Coins:       GoalMetCoins,
		PeriodKey:   fmt.Sprintf("goal:%d", g.ID),
	}
}

// WeeklyTargetAchievement builds the achievement for a reconciled week. The
// second return is false when the ratio earns no coins.
func WeeklyTargetAchievement(userID int64, w target.Week, actual, goal int64) (core.Achievement, bool) {
	coins := target.AwardCoins(actual, goal)
	if coins <= 0 {
		return core.Achievement{}, false
	}
	name := "Weekly savings"
	if coins >= WeeklyTargetMaxCoins {
		name = "Weekly target met"
	}
	return core.Achievement{
		UserID: userID,
		Type:   core.AchievementWeeklyTarget,
		Name:   name,
		Description: fmt.Sprintf("Saved %s of a %s target in the week of %s (%d%%)",
			core.FormatRupees(actual), core.FormatRupees(goal), w.Key(), coins),
		Coins:     coins,
		PeriodKey: "week:" + w.Key(),
	}, true
}
