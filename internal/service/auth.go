// Package service contains the business logic between the API layer and the store.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/linkstashapp/linkstash-server/internal/auth"
	"github.com/linkstashapp/linkstash-server/internal/domain"
	"github.com/linkstashapp/linkstash-server/internal/errors"
	"github.com/linkstashapp/linkstash-server/internal/id"
	"github.com/linkstashapp/linkstash-server/internal/store"
)

// AuthService handles signup, login and session verification.
type AuthService struct {
	store          store.Store
	tokens         *auth.TokenService
	signupsEnabled bool
	logger         *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(store store.Store, tokens *auth.TokenService, signupsEnabled bool, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:          store,
		tokens:         tokens,
		signupsEnabled: signupsEnabled,
		logger:         logger,
	}
}

// Signup creates a new user account.
// Returns ErrSignupsDisabled when account creation is gated off and
// ErrUserExists when the email is already registered.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*domain.User, error) {
	if !s.signupsEnabled {
		return nil, errors.ErrSignupsDisabled
	}

	salt, err := auth.NewSalt()
	if err != nil {
		return nil, errors.HashingError("there was an error encoding the password").WithCause(err)
	}

	hashed, err := auth.HashPassword(password, salt)
	if err != nil {
		return nil, errors.HashingError("there was an error encoding the password").WithCause(err)
	}

	now := time.Now()
	user := &domain.User{
		ID:             id.New(),
		Email:          strings.TrimSpace(email),
		HashedPassword: hashed,
		Salt:           salt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.UserExists("a user with this email already exists")
		}
		return nil, errors.UserError("there was an error creating the user").WithCause(err)
	}

	s.logger.Info("user signed up", "user_id", user.ID)
	return user, nil
}

// Login verifies the credentials and returns the user plus a fresh session token.
// Any credential failure surfaces as ErrLoginFailed so callers cannot
// distinguish an unknown email from a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", errors.ErrLoginFailed
		}
		return nil, "", errors.UserError("there was an error retrieving the user").WithCause(err)
	}

	ok, err := auth.VerifyPassword(user.HashedPassword, password, user.Salt)
	if err != nil {
		return nil, "", errors.HashingError("there was an error encoding the password").WithCause(err)
	}
	if !ok {
		return nil, "", errors.ErrLoginFailed
	}

	token, err := s.tokens.GenerateSessionToken(user)
	if err != nil {
		return nil, "", errors.UserError("there was an error creating the session").WithCause(err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, token, nil
}

// VerifySession resolves a session token to the owning user id.
// Returns ErrNotLoggedIn for any invalid, expired or missing token.
func (s *AuthService) VerifySession(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", errors.ErrNotLoggedIn
	}

	claims, err := s.tokens.VerifySessionToken(token)
	if err != nil {
		return "", errors.ErrNotLoggedIn
	}

	// Sessions outlive nothing: the account must still exist.
	if _, err := s.store.GetUserByID(ctx, claims.UserID); err != nil {
		return "", errors.ErrNotLoggedIn
	}

	return claims.UserID, nil
}

// GetUser returns the user with the given id.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.ErrNotLoggedIn
		}
		return nil, errors.UserError("there was an error retrieving the user").WithCause(err)
	}
	return user, nil
}

// SessionDuration exposes the configured session lifetime for cookie expiry.
func (s *AuthService) SessionDuration() time.Duration {
	return s.tokens.SessionDuration()
}
