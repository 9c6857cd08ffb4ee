package report

import (
	"time"

	"pennywise/internal/core"
)

// HistoryMonths is how many previous months feed a forecast.
const HistoryMonths = 3

// MonthTotals is the spending of one calendar month.
type MonthTotals struct {
	Month      string
	Total      int64
	ByCategory map[string]int64
}

// TotalsFor folds expenses into a MonthTotals.
func TotalsFor(month string, expenses []core.Expense) MonthTotals {
	m := MonthTotals{Month: month, ByCategory: map[string]int64{}}
	for _, e := range expenses {
		m.Total += e.Amount.Minor
		m.ByCategory[e.Category] += e.Amount.Minor
	}
	return m
}

// Forecast is a predicted total and category breakdown for one month.
type Forecast struct {
	Month     string
	Predicted int64
	Breakdown map[string]int64
	Method    string
}

const (
	MethodAverage    = "average"
	MethodProjection = "projection"
)

// Predict forecasts the target month.
//
// With history, the forecast is the rounded mean of up to three previous
// months, per category likewise. Without history, month-to-date spending is
// projected linearly over the days in the month.
func Predict(month string, history []MonthTotals, current MonthTotals, now time.Time, loc *time.Location) (Forecast, error) {
	f := Forecast{Month: month, Breakdown: map[string]int64{}}
	if len(history) > HistoryMonths {
		history = history[len(history)-HistoryMonths:]
	}
	if len(history) > 0 {
		n := int64(len(history))
		sums := map[string]int64{}
		var total int64
		for _, h := range history {
			total += h.Total
			for k, v := range h.ByCategory {
				sums[k] += v
			}
		}
		f.Predicted = core.RoundDiv(total, n)
		for k, v := range sums {
			f.Breakdown[k] = core.RoundDiv(v, n)
		}
		f.Method = MethodAverage
		return f, nil
	}

	year, mon, err := core.ParseMonthKey(month)
	if err != nil {
		return Forecast{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	start, end := core.MonthBounds(year, mon, loc)
	days := int64(end.Sub(start).Hours()/24 + 0.5)
	elapsed := elapsedDays(start, end, now.In(loc))
	f.Method = MethodProjection
	if elapsed == 0 {
		return f, nil
	}
	f.Predicted = core.RoundDiv(current.Total*days, elapsed)
	for k, v := range current.ByCategory {
		f.Breakdown[k] = core.RoundDiv(v*days, elapsed)
	}
	return f, nil
}

// elapsedDays counts started days of the month up to now, including today.
func elapsedDays(start, end, now time.Time) int64 {
	if now.Before(start) {
		return 0
	}
	if !now.Before(end) {
		return int64(end.Sub(start).Hours()/24 + 0.5)
	}
	return int64(now.Day())
}
