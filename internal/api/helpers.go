package api

import (
	"context"
	"net/http"
	"time"

	domainerrors "github.com/linkstashapp/linkstash-server/internal/errors"
)

// sessionCookieName is the cookie carrying the PASETO session token.
const sessionCookieName = "linkstash_session"

// authenticateRequest resolves the session cookie into a user ID.
// Any failure surfaces as not-logged-in (401); clients never learn
// whether the token was absent, expired, or forged.
func (s *Server) authenticateRequest(ctx context.Context, sessionToken string) (string, error) {
	if sessionToken == "" {
		return "", domainerrors.ErrNotLoggedIn
	}

	userID, err := s.services.Auth.VerifySession(ctx, sessionToken)
	if err != nil {
		return "", err
	}
	return userID, nil
}

// newSessionCookie builds the login cookie for a session token.
func (s *Server) newSessionCookie(token string) http.Cookie {
	return http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessionDuration / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// expiredSessionCookie builds the logout cookie that clears the session.
func expiredSessionCookie() http.Cookie {
	return http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// extractIP picks the client IP out of proxy headers, preferring the
// first hop of X-Forwarded-For.
func extractIP(xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		for i := 0; i < len(xForwardedFor); i++ {
			if xForwardedFor[i] == ',' {
				return xForwardedFor[:i]
			}
		}
		return xForwardedFor
	}
	return xRealIP
}

// checkAuthRate applies the per-IP limit on credential endpoints.
func (s *Server) checkAuthRate(xForwardedFor, xRealIP string) error {
	key := extractIP(xForwardedFor, xRealIP)
	if key == "" {
		key = "local"
	}

	if !s.authLimiter.Allow(key) {
		s.logger.Warn("auth rate limit exceeded", "ip", key)
		return &domainerrors.Error{
			Code:    domainerrors.CodeTooManyRequests,
			Message: "too many requests, please try again later",
		}
	}
	return nil
}
