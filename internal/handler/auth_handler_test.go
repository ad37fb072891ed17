package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatehub/backend-go/internal/testutil"
)

func decode(t *testing.T, body []byte, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(body, v), string(body))
}

func sessionCookie(resp *http.Response, name string) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestHealthCheck(t *testing.T) {
	app := testutil.NewTestApp(t)

	w := app.Do(http.MethodGet, testutil.HealthCheckEndpoint, "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRegister(t *testing.T) {
	app := testutil.NewTestApp(t)

	w := app.Do(http.MethodPost, testutil.RegisterEndpoint, "", map[string]string{
		"email":    "New@Example.com",
		"name":     "New User",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
		User         struct {
			ID        string `json:"id"`
			Email     string `json:"email"`
			Password  string `json:"password"`
			CreatedAt string `json:"created_at"`
		} `json:"user"`
	}
	decode(t, w.Body.Bytes(), &resp)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.Empty(t, resp.User.Password)
	assert.NotEmpty(t, resp.User.ID)
	assert.NotEmpty(t, resp.User.CreatedAt)

	cookie := sessionCookie(w.Result(), app.Config.SessionCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, resp.AccessToken, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	app := testutil.NewTestApp(t)
	app.Register(t, "taken@example.com")

	w := app.Do(http.MethodPost, testutil.RegisterEndpoint, "", map[string]string{
		"email":    "TAKEN@example.com",
		"name":     "Second",
		"password": "password123",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"Email already registered"}`, w.Body.String())
	assert.Equal(t, int64(1), testutil.CountRows(t, app.DB, "users"))
}

func TestRegister_InvalidPayload(t *testing.T) {
	app := testutil.NewTestApp(t)

	tests := []struct {
		name    string
		body    map[string]string
		message string
	}{
		{"missing name", map[string]string{"email": "a@example.com", "password": "password123"}, "Name is required (max 100 characters)"},
		{"bad email", map[string]string{"email": "nope", "name": "A", "password": "password123"}, "A valid email address is required"},
		{"short password", map[string]string{"email": "a@example.com", "name": "A", "password": "123"}, "Password is required (min 6 characters)"},
		{"not json", nil, "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body any
			if tt.body != nil {
				body = tt.body
			}
			w := app.Do(http.MethodPost, testutil.RegisterEndpoint, "", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp struct {
				Error string `json:"error"`
			}
			decode(t, w.Body.Bytes(), &resp)
			assert.Equal(t, tt.message, resp.Error)
		})
	}
	assert.Zero(t, testutil.CountRows(t, app.DB, "users"))
}

func TestLogin(t *testing.T) {
	app := testutil.NewTestApp(t)
	app.Register(t, "login@example.com")

	w := app.Do(http.MethodPost, testutil.LoginEndpoint, "", map[string]string{
		"email":    "login@example.com",
		"password": testutil.TestPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotNil(t, sessionCookie(w.Result(), app.Config.SessionCookieName))

	w = app.Do(http.MethodPost, testutil.LoginEndpoint, "", map[string]string{
		"email":    "login@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid email or password"}`, w.Body.String())
}

func TestRefreshAndLogout(t *testing.T) {
	app := testutil.NewTestApp(t)
	app.Register(t, "refresh@example.com")

	w := app.Do(http.MethodPost, testutil.LoginEndpoint, "", map[string]string{
		"email":    "refresh@example.com",
		"password": testutil.TestPassword,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		RefreshToken string `json:"refresh_token"`
	}
	decode(t, w.Body.Bytes(), &login)

	w = app.Do(http.MethodPost, testutil.RefreshTokenEndpoint, "", map[string]string{"refresh_token": login.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var refreshed struct {
		RefreshToken string `json:"refresh_token"`
	}
	decode(t, w.Body.Bytes(), &refreshed)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The rotated token is revoked and the stale cookie dropped
	w = app.Do(http.MethodPost, testutil.RefreshTokenEndpoint, "", map[string]string{"refresh_token": login.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Session expired, please sign in again"}`, w.Body.String())
	cleared := sessionCookie(w.Result(), app.Config.SessionCookieName)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	w = app.Do(http.MethodPost, testutil.LogoutEndpoint, "", map[string]string{"refresh_token": refreshed.RefreshToken})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Signed out"}`, w.Body.String())

	w = app.Do(http.MethodPost, testutil.LogoutEndpoint, "", map[string]string{"refresh_token": refreshed.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
