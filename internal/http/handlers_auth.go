package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"pennywise/internal/log"
)

// authedHandler receives the id of the authenticated user.
type authedHandler func(w http.ResponseWriter, r *http.Request, userID int64)

// bearerToken returns the token from an "Authorization: Bearer" header.
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// authed resolves the session token and rejects the request with 401 when it
// is missing, unknown or expired.
func (s *Server) authed(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.svc.Auth.Authenticate(r.Context(), bearerToken(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		logger := log.FromContext(r.Context()).With(log.FieldUserID, userID)
		ctx := context.WithValue(r.Context(), log.LoggerContextKey, logger)
		next(w, r.WithContext(ctx), userID)
	}
}

type registerRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !readBody(w, r, &req, false) {
		return
	}
	user, err := s.svc.Auth.Register(r.Context(), req.Username, req.Password, req.DisplayName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUser(user))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token        string    `json:"token"`
	ExpiresAt    time.Time `json:"expiresAt"`
	User         userJSON  `json:"user"`
	CoinsAwarded int64     `json:"coinsAwarded"`
	Streak       int64     `json:"streak"`
	Transition   string    `json:"transition"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !readBody(w, r, &req, false) {
		return
	}
	res, err := s.svc.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "User logged in",
		log.NewFields().WithReward(res.User.ID, res.CoinsAwarded).ToSlice()...)
	writeJSON(w, http.StatusOK, loginResponse{
		Token:        res.Token,
		ExpiresAt:    res.ExpiresAt,
		User:         toUser(res.User),
		CoinsAwarded: res.CoinsAwarded,
		Streak:       res.User.Streak,
		Transition:   string(res.Transition),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, _ int64) {
	if err := s.svc.Auth.Logout(r.Context(), bearerToken(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, userID int64) {
	user, err := s.svc.Auth.Me(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUser(user))
}
