package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_ReturnsTokenAndUser(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"name":     "Ada",
		"email":    " Ada@Example.com ",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	env := decode[AuthResponse](t, resp)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Data.AccessToken)
	assert.Equal(t, "Bearer", env.Data.TokenType)
	assert.Equal(t, "ada@example.com", env.Data.User.Email)
	assert.Empty(t, env.Data.User.MyBag)
	assert.NotContains(t, resp.Body.String(), "password_hash")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "ada")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"name":     "Other Ada",
		"email":    "ada@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())

	env := decode[any](t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "ALREADY_EXISTS", env.Code)
}

func TestRegister_InvalidEmail(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"name":     "Ada",
		"email":    "not-an-email",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	env := decode[any](t, resp)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.Contains(t, env.Details, "email")
}

func TestLogin(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "ada")

	t.Run("valid credentials", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/auth/login", map[string]any{
			"email":    "ada@example.com",
			"password": "hunter22",
		})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		assert.NotEmpty(t, decode[AuthResponse](t, resp).Data.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/auth/login", map[string]any{
			"email":    "ada@example.com",
			"password": "wrong-password",
		})
		require.Equal(t, http.StatusUnauthorized, resp.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", decode[any](t, resp).Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/auth/login", map[string]any{
			"email":    "nobody@example.com",
			"password": "hunter22",
		})
		require.Equal(t, http.StatusUnauthorized, resp.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", decode[any](t, resp).Code)
	})
}

func TestCurrentUser(t *testing.T) {
	ts := setupTestServer(t)
	token, userID := ts.register(t, "ada")

	resp := ts.api.Get("/api/v1/auth/me", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, userID, decode[UserResponse](t, resp).Data.ID)
}

func TestCurrentUser_RequiresToken(t *testing.T) {
	ts := setupTestServer(t)

	for _, header := range []string{"", bearer("garbage")} {
		var args []any
		if header != "" {
			args = append(args, header)
		}
		resp := ts.api.Get("/api/v1/auth/me", args...)
		require.Equal(t, http.StatusUnauthorized, resp.Code)
		assert.Equal(t, "UNAUTHORIZED", decode[any](t, resp).Code)
	}
}

func TestAuthRateLimit_PerIP(t *testing.T) {
	ts := setupTestServerWithOptions(t, Options{AuthRequestsPerMinute: 2})

	body := map[string]any{"email": "nobody@example.com", "password": "hunter22"}
	for range 2 {
		resp := ts.api.Post("/api/v1/auth/login", body)
		require.Equal(t, http.StatusUnauthorized, resp.Code)
	}

	resp := ts.api.Post("/api/v1/auth/login", body)
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "RATE_LIMITED", decode[any](t, resp).Code)

	// Other routes are not limited.
	resp = ts.api.Get("/api/v1/posts")
	assert.Equal(t, http.StatusOK, resp.Code)
}
