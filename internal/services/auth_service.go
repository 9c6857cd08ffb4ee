package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pennywise/internal/core"
	"pennywise/internal/rewards"
	"pennywise/internal/storage"
)

const (
	DefaultSessionTTL = 720 * time.Hour
	minPasswordLength = 8
	tokenBytes        = 32
)

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token        string
	ExpiresAt    time.Time
	User         core.User
	CoinsAwarded int64
	Transition   rewards.Transition
}

// AuthService handles registration, login and session lookup.
type AuthService struct {
	store      *storage.SQLiteRepository
	clock      core.Clock
	sessionTTL time.Duration
	cost       int
}

func NewAuthService(store *storage.SQLiteRepository, clock core.Clock, sessionTTL time.Duration) *AuthService {
	if clock == nil {
		clock = core.SystemClock()
	}
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &AuthService{store: store, clock: clock, sessionTTL: sessionTTL, cost: bcrypt.DefaultCost}
}

// Register creates a user with a bcrypt password hash.
func (s *AuthService) Register(ctx context.Context, username, password, displayName string) (core.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	displayName = strings.TrimSpace(displayName)

	v := &core.ValidationError{}
	switch {
	case len(username) < 3 || len(username) > 32:
		v.Add("username", "must be between 3 and 32 characters")
	case strings.ContainsAny(username, " \t\r\n"):
		v.Add("username", "must not contain whitespace")
	}
	if len(password) < minPasswordLength {
		v.Add("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	} else if len(password) > 72 {
		v.Add("password", "must be at most 72 bytes")
	}
	if len(displayName) > 100 {
		v.Add("displayName", "must be at most 100 characters")
	}
	if err := v.OrNil(); err != nil {
		return core.User{}, err
	}
	if displayName == "" {
		displayName = username
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, core.User{
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	})
	if err != nil {
		return core.User{}, err
	}
	slog.InfoContext(ctx, "User registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies credentials, applies the daily login reward and opens a
// session. Unknown users and wrong passwords are both ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return LoginResult{}, core.ErrUnauthorized
		}
		return LoginResult{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.WarnContext(ctx, "Login rejected", "user_id", user.ID)
		return LoginResult{}, core.ErrUnauthorized
	}

	now := s.clock.Now()
	state := rewards.NextLoginState(user, now)
	result := LoginResult{Transition: state.Transition}

	if state.Changed() {
		applied, err := s.store.ApplyLogin(ctx, user.ID, user.LastLogin, state.Streak, state.CoinsAwarded, now)
		if err != nil {
			return LoginResult{}, err
		}
		if applied {
			result.CoinsAwarded = state.CoinsAwarded
		} else {
			// A concurrent login already moved last_login; it owns the reward.
			result.Transition = rewards.TransitionNone
		}
	}

	if result.User, err = s.store.GetUser(ctx, user.ID); err != nil {
		return LoginResult{}, err
	}

	token, err := newToken()
	if err != nil {
		return LoginResult{}, err
	}
	result.Token = token
	result.ExpiresAt = now.Add(s.sessionTTL)
	if err := s.store.CreateSession(ctx, token, user.ID, result.ExpiresAt); err != nil {
		return LoginResult{}, err
	}

	slog.InfoContext(ctx, "User logged in",
		"user_id", user.ID,
		"streak", result.User.Streak,
		"transition", result.Transition,
		"coins_awarded", result.CoinsAwarded,
		"milestone", state.Milestone && result.CoinsAwarded > 0)
	return result, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.store.DeleteSession(ctx, token)
}

// Authenticate resolves a bearer token to a user id.
func (s *AuthService) Authenticate(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, core.ErrUnauthorized
	}
	return s.store.SessionUser(ctx, token, s.clock.Now())
}

func (s *AuthService) Me(ctx context.Context, userID int64) (core.User, error) {
	return s.store.GetUser(ctx, userID)
}

// PurgeSessions removes expired sessions.
func (s *AuthService) PurgeSessions(ctx context.Context) (int64, error) {
	return s.store.PurgeSessions(ctx, s.clock.Now())
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
