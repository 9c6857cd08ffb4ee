// Package rewards holds the coin and streak rules. Everything here is pure;
// persistence belongs to the storage layer.
package rewards

import (
	"time"

	"pennywise/internal/core"
)

const (
	// SameDayWindow suppresses repeated logins: anything at or under it is a no-op.
	SameDayWindow = 20 * time.Hour
	// StreakBreakWindow resets the streak once reached.
	StreakBreakWindow = 48 * time.Hour

	DailyLoginCoins      int64 = 15
	StreakMilestone      int64 = 5
	StreakMilestoneBonus int64 = 20
)

// Transition names the branch taken by NextLoginState.
type Transition string

const (
	TransitionNone      Transition = "none"
	TransitionFirst     Transition = "first"
	TransitionIncrement Transition = "increment"
	TransitionReset     Transition = "reset"
)

// LoginState is the outcome of a login evaluation.
type LoginState struct {
	Streak       int64
	CoinsAwarded int64
	LastLogin    *time.Time
	Transition   Transition
	Milestone    bool
}

// Changed reports whether the user row must be written.
func (s LoginState) Changed() bool {
	return s.Transition != TransitionNone
}

// NextLoginState evaluates one successful authentication at now.
//
// The windows are measured in elapsed hours, not calendar days, so the
// effective day can drift across midnight.
func NextLoginState(u core.User, now time.Time) LoginState {
	if u.LastLogin == nil {
		return LoginState{
			Streak:       1,
			CoinsAwarded: DailyLoginCoins,
			LastLogin:    &now,
			Transition:   TransitionFirst,
		}
	}

	elapsed := now.Sub(*u.LastLogin)
	switch {
	case elapsed <= SameDayWindow:
		return LoginState{
			Streak:     u.Streak,
			LastLogin:  u.LastLogin,
			Transition: TransitionNone,
		}
	case elapsed < StreakBreakWindow:
		streak := u.Streak + 1
		s := LoginState{
			Streak:       streak,
			CoinsAwarded: DailyLoginCoins,
			LastLogin:    &now,
			Transition:   TransitionIncrement,
		}
		if streak%StreakMilestone == 0 {
			s.CoinsAwarded += StreakMilestoneBonus
			s.Milestone = true
		}
		return s
	default:
		return LoginState{
			Streak:       1,
			CoinsAwarded: DailyLoginCoins,
			LastLogin:    &now,
			Transition:   TransitionReset,
		}
	}
}
