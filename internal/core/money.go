// Package core provides money parsing and handling utilities.
//
// All amounts are stored and computed as int64 minor units (paise). Decimal
// strings are only produced or consumed at the edges of the system.
package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// maxMajor bounds parsed values so that ×100 never overflows int64.
var (
	maxMajor = decimal.NewFromInt((1<<63 - 1) / 100)
	hundred  = decimal.NewFromInt(100)
)

// Money is an amount expressed in minor currency units.
type Money struct {
	Minor int64
}

// NewMoney wraps a minor-unit amount.
func NewMoney(minor int64) Money {
	return Money{Minor: minor}
}

// Validate reports whether the amount is usable for an expense or a goal.
func (m Money) Validate() error {
	if m.Minor <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Major returns the canonical decimal representation, e.g. "1234.50".
func (m Money) Major() string {
	return MinorToMajor(m.Minor)
}

// String formats the amount for display, e.g. "₹1,234.50".
func (m Money) String() string {
	return FormatRupees(m.Minor)
}

// MajorToMinor converts a decimal major-unit string to minor units.
//
// It accepts an optional leading sign, an optional rupee symbol and comma
// digit grouping. Extra fractional digits are rounded half away from zero:
//
//	MajorToMinor("12.34")    -> 1234
//	MajorToMinor("1,200")    -> 120000
//	MajorToMinor("0.005")    -> 1
//	MajorToMinor("-0.005")   -> -1
func MajorToMinor(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "₹", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.Abs().GreaterThan(maxMajor) {
		return 0, ErrInvalidAmount
	}
	return d.Mul(hundred).Round(0).IntPart(), nil
}

// MinorToMajor renders minor units as a fixed two-decimal string.
func MinorToMajor(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

// FormatRupees formats minor units with a rupee sign and thousands grouping.
func FormatRupees(minor int64) string {
	neg := minor < 0
	if neg {
		minor = -minor
	}
	whole := strconv.FormatInt(minor/100, 10)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	s := "₹" + b.String() + "." + fmt.Sprintf("%02d", minor%100)
	if neg {
		return "-" + s
	}
	return s
}

// RoundDiv divides num by den rounding half away from zero.
// A zero denominator yields 0.
func RoundDiv(num, den int64) int64 {
	if den == 0 {
		return 0
	}
	if den < 0 {
		num, den = -num, -den
	}
	if num >= 0 {
		return (num + den/2) / den
	}
	return -((-num + den/2) / den)
}

// Percent returns round(100 × part / whole), or 0 when whole is 0.
func Percent(part, whole int64) int64 {
	return RoundDiv(100*part, whole)
}

// ScalePercent returns round(amount × pct / 100).
func ScalePercent(amount, pct int64) int64 {
	return RoundDiv(amount*pct, 100)
}
