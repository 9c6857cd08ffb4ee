package rewards

import (
	"testing"
	"time"

	"pennywise/internal/core"
	"pennywise/internal/target"
)

func userAt(streak int64, last time.Time) core.User {
	return core.User{ID: 1, Streak: streak, LastLogin: &last}
}

func TestNextLoginStateFirstLogin(t *testing.T) {
	now := time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)
	s := NextLoginState(core.User{ID: 1}, now)
	if s.Streak != 1 || s.CoinsAwarded != 15 || s.Milestone || !s.LastLogin.Equal(now) {
		t.Fatalf("unexpected first login state %+v", s)
	}
	if !s.Changed() {
		t.Fatal("first login must persist")
	}
}

func TestNextLoginStateWindows(t *testing.T) {
	last := time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		name       string
		after      time.Duration
		streak     int64
		wantStreak int64
		wantCoins  int64
		wantTrans  Transition
	}{
		{"same day", 10 * time.Hour, 3, 3, 0, TransitionNone},
		{"guard band edge", 20 * time.Hour, 3, 3, 0, TransitionNone},
		{"next day", 25 * time.Hour, 3, 4, 15, TransitionIncrement},
		{"just under break", 48*time.Hour - time.Second, 3, 4, 15, TransitionIncrement},
		{"break edge", 48 * time.Hour, 3, 1, 15, TransitionReset},
		{"long gap", 49 * time.Hour, 9, 1, 15, TransitionReset},
		{"fifth day", 25 * time.Hour, 4, 5, 35, TransitionIncrement},
		{"tenth day", 25 * time.Hour, 9, 10, 35, TransitionIncrement},
		{"sixth day", 25 * time.Hour, 5, 6, 15, TransitionIncrement},
		{"reset onto four", 72 * time.Hour, 4, 1, 15, TransitionReset},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			now := last.Add(tc.after)
			s := NextLoginState(userAt(tc.streak, last), now)
			if s.Streak != tc.wantStreak || s.CoinsAwarded != tc.wantCoins || s.Transition != tc.wantTrans {
				t.Fatalf("got %+v", s)
			}
			if tc.wantTrans == TransitionNone {
				if !s.LastLogin.Equal(last) || s.Changed() {
					t.Fatal("no-op must keep lastLogin")
				}
			} else if !s.LastLogin.Equal(now) {
				t.Fatal("transition must move lastLogin to now")
			}
		})
	}
}

func TestReplayWithinGuardBandDoesNotDoubleAward(t *testing.T) {
	last := time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)
	u := userAt(2, last)
	now := last.Add(30 * time.Hour)

	first := NextLoginState(u, now)
	u.Streak, u.LastLogin = first.Streak, first.LastLogin
	second := NextLoginState(u, now.Add(time.Minute))

	if first.CoinsAwarded != 15 || second.CoinsAwarded != 0 || second.Streak != 3 {
		t.Fatalf("first %+v second %+v", first, second)
	}
}

func TestDepositAward(t *testing.T) {
	cases := map[core.SavingSource]int64{
		core.SourceManual:         5,
		core.SourcePiggyBank:      5,
		core.SourcePayroll:        0,
		core.SourceGoalAllocation: 0,
		core.SourceOther:          0,
	}
	for src, want := range cases {
		if got := DepositAward(core.Saving{Source: src, Amount: core.NewMoney(100)}); got != want {
			t.Errorf("%s: got %d want %d", src, got, want)
		}
	}
}

func TestWeeklyTargetAchievement(t *testing.T) {
	w := target.WeekOf(time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), time.UTC)

	a, ok := WeeklyTargetAchievement(7, w, 75_00, 150_00)
	if !ok || a.Coins != 50 || a.PeriodKey != "week:2024-03-04" || a.Type != core.AchievementWeeklyTarget {
		t.Fatalf("unexpected achievement %+v", a)
	}
	a, ok = WeeklyTargetAchievement(7, w, 500_00, 150_00)
	if !ok || a.Coins != 100 || a.Name != "Weekly target met" {
		t.Fatalf("should cap at 100: %+v", a)
	}
	if _, ok := WeeklyTargetAchievement(7, w, 0, 150_00); ok {
		t.Fatal("zero savings should not award")
	}
}

func TestGoalMetAchievement(t *testing.T) {
	g := core.Goal{ID: 3, UserID: 7, Name: "Bike", TargetAmount: core.NewMoney(20000_00)}
	a := GoalMetAchievement(g)
	if a.Coins != 100 || a.Type != core.AchievementGoalMet || a.UserID != 7 || a.PeriodKey != "goal:3" {
		t.Fatalf("unexpected %+v", a)
	}
}
