package api

import (
	"crypto/rand"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkstashapp/linkstash-server/internal/auth"
	"github.com/linkstashapp/linkstash-server/internal/config"
	"github.com/linkstashapp/linkstash-server/internal/service"
	"github.com/linkstashapp/linkstash-server/internal/store/sqlite"
)

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// serverOptions tweaks the test server setup.
type serverOptions struct {
	signupsEnabled bool
}

func setupTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := sqlite.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	key := make([]byte, 32)
	_, err = rand.Read(key)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	bookmarks := service.NewBookmarkService(st, nil, logger)
	labels := service.NewLabelService(st, logger)
	lists := service.NewListService(st, logger)
	services := &Services{
		Auth:      service.NewAuthService(st, tokens, opts.signupsEnabled, logger),
		Bookmarks: bookmarks,
		Labels:    labels,
		Lists:     lists,
		Transfer:  service.NewTransferService(bookmarks, labels, lists, logger),
	}

	cfg := &config.Config{
		Server: config.ServerConfig{
			CORSOrigins: []string{"*"},
		},
		Auth: config.AuthConfig{
			SessionDuration: time.Hour,
		},
	}

	s := NewServer(cfg, services, logger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
	}
}

func newTestServer(t *testing.T) *testServer {
	return setupTestServer(t, serverOptions{signupsEnabled: true})
}

// signupAndLogin creates an account and returns a Cookie header line
// carrying its session token.
func (ts *testServer) signupAndLogin(t *testing.T, email string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":    email,
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, resp.Code, "signup failed: %s", resp.Body.String())

	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    email,
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, resp.Code, "login failed: %s", resp.Body.String())

	for _, c := range (&http.Response{Header: resp.Header()}).Cookies() {
		if c.Name == sessionCookieName {
			return "Cookie: " + sessionCookieName + "=" + c.Value
		}
	}

	t.Fatal("login response did not set a session cookie")
	return ""
}

// errorEnvelope mirrors the wire shape of error responses.
type errorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, body []byte) errorEnvelope {
	t.Helper()

	var env errorEnvelope
	require.NoError(t, json.Unmarshal(body, &env), "error body: %s", string(body))
	require.NotEmpty(t, env.Error.Type, "error body missing type: %s", string(body))
	return env
}

func decodeBody[T any](t *testing.T, body []byte) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(body, &out), "body: %s", string(body))
	return out
}

// === Tests ===

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	body := decodeBody[HealthResponse](t, resp.Body.Bytes())
	assert.Equal(t, "healthy", body.Status)
}

func TestSignup_ReturnsUserWithoutPassword(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":    "amy@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	user := decodeBody[UserResponse](t, resp.Body.Bytes())
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "amy@example.com", user.Email)
	assert.NotContains(t, resp.Body.String(), "password")
}

func TestSignup_DuplicateEmail(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]any{"email": "amy@example.com", "password": "correct horse battery"}
	resp := ts.api.Post("/api/v1/auth/signup", body)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/auth/signup", body)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "user-exists-error", decodeError(t, resp.Body.Bytes()).Error.Type)
}

func TestSignup_Disabled(t *testing.T) {
	ts := setupTestServer(t, serverOptions{signupsEnabled: false})

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":    "amy@example.com",
		"password": "correct horse battery",
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "signups-disabled", decodeError(t, resp.Body.Bytes()).Error.Type)
}

func TestSignup_ValidationCodes(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name     string
		body     map[string]any
		wantType string
	}{
		{"missing email", map[string]any{"password": "correct horse battery"}, "missing-email"},
		{"invalid email", map[string]any{"email": "not-an-email", "password": "correct horse battery"}, "invalid-email"},
		{"missing password", map[string]any{"email": "amy@example.com"}, "missing-password"},
		{"short password", map[string]any{"email": "amy@example.com", "password": "short"}, "invalid-password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/auth/signup", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Equal(t, tt.wantType, decodeError(t, resp.Body.Bytes()).Error.Type)
		})
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.signupAndLogin(t, "amy@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "amy@example.com",
		"password": "wrong password here",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "login-error", decodeError(t, resp.Body.Bytes()).Error.Type)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	ts := newTestServer(t)

	// Unknown account and bad password must be indistinguishable.
	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "nobody@example.com",
		"password": "whatever it takes",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "login-error", decodeError(t, resp.Body.Bytes()).Error.Type)
}

func TestMe_ReturnsCurrentUser(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.signupAndLogin(t, "amy@example.com")

	resp := ts.api.Get("/api/v1/auth/me", cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	user := decodeBody[UserResponse](t, resp.Body.Bytes())
	assert.Equal(t, "amy@example.com", user.Email)
}

func TestAuthRequired_WithoutCookie(t *testing.T) {
	ts := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodGet, "/api/v1/bookmarks"},
		{http.MethodGet, "/api/v1/labels"},
		{http.MethodGet, "/api/v1/lists"},
		{http.MethodGet, "/api/v1/export"},
	}

	for _, p := range paths {
		t.Run(p.path, func(t *testing.T) {
			resp := ts.api.Do(p.method, p.path)
			assert.Equal(t, http.StatusUnauthorized, resp.Code)
			assert.Equal(t, "not-logged-in", decodeError(t, resp.Body.Bytes()).Error.Type)
		})
	}
}

func TestAuthRequired_GarbageToken(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/api/v1/bookmarks", "Cookie: "+sessionCookieName+"=v4.local.garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "not-logged-in", decodeError(t, resp.Body.Bytes()).Error.Type)
}

func TestLogout_ClearsCookie(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.signupAndLogin(t, "amy@example.com")

	resp := ts.api.Post("/api/v1/auth/logout", cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	var cleared bool
	for _, c := range (&http.Response{Header: resp.Header()}).Cookies() {
		if c.Name == sessionCookieName {
			cleared = true
			assert.Empty(t, c.Value)
			assert.Negative(t, c.MaxAge)
		}
	}
	assert.True(t, cleared, "logout did not clear the session cookie")
}

func TestAuthEndpoints_RateLimited(t *testing.T) {
	ts := newTestServer(t)

	// Hammer login well past the per-IP burst allowance.
	var limited *errorEnvelope
	for range 40 {
		resp := ts.api.Post("/api/v1/auth/login", map[string]any{
			"email":    "nobody@example.com",
			"password": "whatever it takes",
		})
		if resp.Code == http.StatusTooManyRequests {
			env := decodeError(t, resp.Body.Bytes())
			limited = &env
			break
		}
	}

	require.NotNil(t, limited, "expected a 429 after exhausting the auth rate limit")
	assert.Equal(t, "too-many-requests", limited.Error.Type)
}
