package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"pennywise/internal/core"
)

const dateLayout = "2006-01-02"

// parseAmount converts a wire amount into minor units. An empty string is
// reported as zero so callers can treat the field as omitted.
func parseAmount(v *core.ValidationError, field, s string) int64 {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	minor, err := core.MajorToMinor(s)
	if err != nil {
		v.Add(field, "must be a decimal amount")
		return 0
	}
	return minor
}

// parseTime accepts RFC 3339 timestamps or plain dates, the latter at
// midnight in loc.
func parseTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func parseOptionalTime(v *core.ValidationError, field, s string, loc *time.Location) time.Time {
	if strings.TrimSpace(s) == "" {
		return time.Time{}
	}
	t, ok := parseTime(s, loc)
	if !ok {
		v.Add(field, "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	}
	return t
}

// parseGoalDate reads a calendar date. Goal dates carry no zone.
func parseGoalDate(v *core.ValidationError, field, s string) time.Time {
	if strings.TrimSpace(s) == "" {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		v.Add(field, "must be a date (YYYY-MM-DD)")
	}
	return t
}

// parseRange reads the from and to query parameters. A plain-date "to" is
// inclusive. Missing bounds default to the current month.
func (s *Server) parseRange(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	now := s.clock.Now().In(s.loc)
	from, to := core.MonthBounds(now.Year(), now.Month(), s.loc)

	v := &core.ValidationError{}
	if raw := q.Get("from"); raw != "" {
		if t, ok := parseTime(raw, s.loc); ok {
			from = t
		} else {
			v.Add("from", "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
		}
	}
	if raw := q.Get("to"); raw != "" {
		if t, err := time.ParseInLocation(dateLayout, raw, s.loc); err == nil {
			to = t.AddDate(0, 0, 1)
		} else if t, err := time.Parse(time.RFC3339, raw); err == nil {
			to = t
		} else {
			v.Add("to", "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
		}
	}
	return from, to, v.OrNil()
}

// parseYearMonth extracts year and month from query parameters, defaulting
// to the current month in the server's zone.
func (s *Server) parseYearMonth(r *http.Request) (int, time.Month, error) {
	now := s.clock.Now().In(s.loc)
	year, month := now.Year(), int(now.Month())

	v := &core.ValidationError{}
	q := r.URL.Query()
	if raw := strings.TrimSpace(q.Get("year")); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			v.Add("year", "must be a number")
		}
		year = y
	}
	if raw := strings.TrimSpace(q.Get("month")); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil {
			v.Add("month", "must be a number")
		}
		month = m
	}
	return year, time.Month(month), v.OrNil()
}

// pathID parses the {id} wildcard.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
