package http

import (
	"net/http"
	"time"

	"pennywise/internal/core"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, userID int64) {
	from, to, err := s.parseRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sum, err := s.svc.Reports.Summary(r.Context(), userID, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummary(sum))
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request, userID int64) {
	year, month, err := s.parseYearMonth(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rep, err := s.svc.Reports.Monthly(r.Context(), userID, year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthly(rep))
}

func (s *Server) handleListPredictions(w http.ResponseWriter, r *http.Request, userID int64) {
	predictions, err := s.svc.Predictions.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"predictions": mapSlice(predictions, toPrediction)})
}

// handleRefreshPrediction recomputes one month, the current one by default.
func (s *Server) handleRefreshPrediction(w http.ResponseWriter, r *http.Request, userID int64) {
	var req struct {
		Year  int `json:"year"`
		Month int `json:"month"`
	}
	if !readBody(w, r, &req, true) {
		return
	}
	now := s.clock.Now().In(s.loc)
	if req.Year == 0 {
		req.Year = now.Year()
	}
	if req.Month == 0 {
		req.Month = int(now.Month())
	}
	if req.Month < 1 || req.Month > 12 {
		writeError(w, r, core.NewValidationError("month", "must be between 1 and 12"))
		return
	}
	p, err := s.svc.Predictions.Refresh(r.Context(), userID, core.MonthKey(req.Year, time.Month(req.Month)))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPrediction(p))
}
