package http

import (
	"net/http"
	"strings"

	"pennywise/internal/core"
	"pennywise/internal/services"
)

type expenseRequest struct {
	Name        string `json:"name"`
	Amount      string `json:"amount"`
	OccurredAt  string `json:"occurredAt"`
	Category    string `json:"category"`
	Tier        string `json:"tier"`
	PaymentMode string `json:"paymentMode"`
	Notes       string `json:"notes"`
}

// input converts the request into service input, collecting parse errors.
func (req expenseRequest) input(s *Server) (services.ExpenseInput, error) {
	v := &core.ValidationError{}
	in := services.ExpenseInput{
		Name:        req.Name,
		Amount:      parseAmount(v, "amount", req.Amount),
		OccurredAt:  parseOptionalTime(v, "occurredAt", req.OccurredAt, s.loc),
		Category:    req.Category,
		PaymentMode: core.PaymentMode(strings.ToLower(strings.TrimSpace(req.PaymentMode))),
		Notes:       req.Notes,
	}
	if strings.TrimSpace(req.Tier) != "" {
		tier, ok := core.ParseTier(req.Tier)
		if !ok {
			v.Add("tier", "must be one of necessary, avoidable, unnecessary")
		}
		in.Tier = tier
	}
	return in, v.OrNil()
}

type expenseCreatedResponse struct {
	Expense      expenseJSON `json:"expense"`
	CoinsAwarded int64       `json:"coinsAwarded"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request, userID int64) {
	var req expenseRequest
	if !readBody(w, r, &req, false) {
		return
	}
	in, err := req.input(s)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if in.Amount == 0 {
		writeError(w, r, core.NewValidationError("amount", "is required"))
		return
	}
	res, err := s.svc.Expenses.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, expenseCreatedResponse{Expense: toExpense(res.Expense), CoinsAwarded: res.CoinsAwarded})
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request, userID int64) {
	from, to, err := s.parseRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	expenses, err := s.svc.Expenses.List(r.Context(), userID, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": mapSlice(expenses, toExpense)})
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, core.ErrNotFound)
		return
	}
	e, err := s.svc.Expenses.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpense(e))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, core.ErrNotFound)
		return
	}
	var req expenseRequest
	if !readBody(w, r, &req, false) {
		return
	}
	in, err := req.input(s)
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := s.svc.Expenses.Update(r.Context(), userID, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpense(e))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, core.ErrNotFound)
		return
	}
	if err := s.svc.Expenses.Delete(r.Context(), userID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCategorize(w http.ResponseWriter, r *http.Request, _ int64) {
	var req struct {
		Name string `json:"name"`
	}
	if !readBody(w, r, &req, false) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, core.NewValidationError("name", "is required"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"category": s.svc.Expenses.Categorize(r.Context(), req.Name)})
}

type savingRequest struct {
	Amount     string `json:"amount"`
	Source     string `json:"source"`
	OccurredAt string `json:"occurredAt"`
	Notes      string `json:"notes"`
}

type savingCreatedResponse struct {
	Saving       savingJSON `json:"saving"`
	CoinsAwarded int64      `json:"coinsAwarded"`
}

func (s *Server) handleCreateSaving(w http.ResponseWriter, r *http.Request, userID int64) {
	var req savingRequest
	if !readBody(w, r, &req, false) {
		return
	}
	v := &core.ValidationError{}
	in := services.SavingInput{
		Amount:     parseAmount(v, "amount", req.Amount),
		Source:     core.SavingSource(strings.ToLower(strings.TrimSpace(req.Source))),
		OccurredAt: parseOptionalTime(v, "occurredAt", req.OccurredAt, s.loc),
		Notes:      req.Notes,
	}
	if err := v.OrNil(); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.svc.Savings.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, savingCreatedResponse{Saving: toSaving(res.Saving), CoinsAwarded: res.CoinsAwarded})
}

func (s *Server) handleListSavings(w http.ResponseWriter, r *http.Request, userID int64) {
	from, to, err := s.parseRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	savings, err := s.svc.Savings.List(r.Context(), userID, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"savings": mapSlice(savings, toSaving)})
}

func (s *Server) handleSavingsBalance(w http.ResponseWriter, r *http.Request, userID int64) {
	balance, err := s.svc.Savings.Balance(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"balance": core.MinorToMajor(balance)})
}

func (s *Server) handleDeleteSaving(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, core.ErrNotFound)
		return
	}
	if err := s.svc.Savings.Delete(r.Context(), userID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
