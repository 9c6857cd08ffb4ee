package http

import (
	"net/http"

	"pennywise/internal/core"
	"pennywise/internal/services"
)

type goalRequest struct {
	Name         string `json:"name"`
	TargetAmount string `json:"targetAmount"`
	StartDate    string `json:"startDate"`
	TargetDate   string `json:"targetDate"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request, userID int64) {
	var req goalRequest
	if !readBody(w, r, &req, false) {
		return
	}
	v := &core.ValidationError{}
	in := services.GoalInput{
		Name:         req.Name,
		TargetAmount: parseAmount(v, "targetAmount", req.TargetAmount),
		StartDate:    parseGoalDate(v, "startDate", req.StartDate),
		TargetDate:   parseGoalDate(v, "targetDate", req.TargetDate),
	}
	if err := v.OrNil(); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := s.svc.Goals.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoal(g))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request, userID int64) {
	goals, err := s.svc.Goals.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"goals": mapSlice(goals, toGoal)})
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, core.ErrNotFound)
		return
	}
	g, err := s.svc.Goals.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoal(g))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, core.ErrNotFound)
		return
	}
	if err := s.svc.Goals.Delete(r.Context(), userID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type allocationResponse struct {
	Goal         goalJSON         `json:"goal"`
	Saving       savingJSON       `json:"saving"`
	Completed    bool             `json:"completed"`
	CoinsAwarded int64            `json:"coinsAwarded"`
	Achievement  *achievementJSON `json:"achievement,omitempty"`
}

func (s *Server) handleAllocate(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, core.ErrNotFound)
		return
	}
	var req struct {
		Amount string `json:"amount"`
	}
	if !readBody(w, r, &req, false) {
		return
	}
	v := &core.ValidationError{}
	amount := parseAmount(v, "amount", req.Amount)
	if err := v.OrNil(); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.svc.Goals.Allocate(r.Context(), userID, id, amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := allocationResponse{
		Goal:         toGoal(res.Goal),
		Saving:       toSaving(res.Saving),
		Completed:    res.Completed,
		CoinsAwarded: res.CoinsAwarded,
	}
	if res.Achievement != nil {
		a := toAchievement(*res.Achievement)
		out.Achievement = &a
	}
	writeJSON(w, http.StatusOK, out)
}
