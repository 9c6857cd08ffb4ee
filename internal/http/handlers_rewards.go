package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"pennywise/internal/core"
	"pennywise/internal/target"
)

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request, userID int64) {
	achievements, err := s.svc.Rewards.Achievements(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"achievements": mapSlice(achievements, toAchievement)})
}

func (s *Server) handleWeeklyTarget(w http.ResponseWriter, r *http.Request, userID int64) {
	st, err := s.svc.Rewards.Current(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWeeklyStatus(st))
}

func (s *Server) handleTargetHistory(w http.ResponseWriter, r *http.Request, userID int64) {
	weeks := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("weeks")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, core.NewValidationError("weeks", "must be a number"))
			return
		}
		weeks = n
	}
	records, err := s.svc.Rewards.History(r.Context(), userID, weeks)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"weeks": mapSlice(records, func(rec target.Record) targetRecordJSON {
			return targetRecordJSON{
				Week:    toWeek(rec.Week),
				Target:  core.MinorToMajor(rec.Target),
				Actual:  core.MinorToMajor(rec.Actual),
				Current: rec.Current,
			}
		}),
	})
}

// handleReconcile settles one finished week; weekStart may be any day in it.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request, userID int64) {
	var req struct {
		WeekStart string `json:"weekStart"`
	}
	if !readBody(w, r, &req, true) {
		return
	}
	var weekStart *time.Time
	if strings.TrimSpace(req.WeekStart) != "" {
		t, ok := parseTime(req.WeekStart, s.loc)
		if !ok {
			writeError(w, r, core.NewValidationError("weekStart", "must be a date (YYYY-MM-DD) or RFC 3339 timestamp"))
			return
		}
		weekStart = &t
	}
	rec, err := s.svc.Rewards.Reconcile(r.Context(), userID, weekStart)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReconciliation(rec))
}
