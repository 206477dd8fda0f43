package web

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubadmin/clubadmin/server/auth"
)

func TestGateRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get("/clubs?page=1", "")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login?rd=%2Fclubs%3Fpage%3D1", rr.Header().Get("Location"))
}

func TestGateRedirectsUnknownSession(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get("/dashboard", "missing")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login?rd=%2Fdashboard", rr.Header().Get("Location"))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestGateLetsStaticThrough(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get("/static/style.css", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGateEndsUnprivilegedSession(t *testing.T) {
	env := newTestEnv(t)
	sessionID := env.login("user")

	rr := env.get("/dashboard", sessionID)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.False(t, env.sessions.has(sessionID))
}

func TestLoginRejectsUnprivilegedRole(t *testing.T) {
	env := newTestEnv(t)
	env.json("POST /user/login", http.StatusOK, `{"token":"tok","result":{"_id":"u1","name":"Bob","email":"bob@example.com","role":"user"}}`)

	rr := env.post("/login", url.Values{"email": {"bob@example.com"}, "password": {"secret"}}, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), accessDeniedMessage)
	assert.Empty(t, rr.Result().Cookies())
	assert.Empty(t, env.sessions.sessions)
}

func TestLoginCreatesSession(t *testing.T) {
	env := newTestEnv(t)
	env.json("POST /user/login", http.StatusOK, `{"token":"tok","result":{"_id":"u1","name":"Ada","email":"ada@example.com","role":"superuser"}}`)

	rr := env.post("/login", url.Values{"email": {"ada@example.com"}, "password": {"secret"}, "rd": {"/clubs?page=1"}}, "")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/clubs?page=1", rr.Header().Get("Location"))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, env.sessions.has(cookies[0].Value))
}

func TestLoginShowsBackendMessage(t *testing.T) {
	env := newTestEnv(t)
	env.json("POST /user/login", http.StatusBadRequest, `{"message":"Invalid credentials"}`)

	rr := env.post("/login", url.Values{"email": {"ada@example.com"}, "password": {"wrong"}}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid credentials")
}

func TestLoginValidatesBeforeCallingBackend(t *testing.T) {
	env := newTestEnv(t)
	env.fail("POST /user/login")

	rr := env.post("/login", url.Values{"email": {"not-an-email"}}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "Email is invalid")
	assert.Contains(t, rr.Body.String(), "Password is required")
}

func TestLoginPageRedirectsLiveSession(t *testing.T) {
	env := newTestEnv(t)
	sessionID := env.login("admin")

	rr := env.get("/login?rd=/users", sessionID)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/users", rr.Header().Get("Location"))
}

func TestBackendUnauthorizedEndsSession(t *testing.T) {
	env := newTestEnv(t)
	env.json("GET /clubs", http.StatusUnauthorized, `{"message":"jwt expired"}`)
	sessionID := env.login("admin")

	rr := env.get("/clubs", sessionID)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login?rd=%2Fclubs", rr.Header().Get("Location"))
	assert.False(t, env.sessions.has(sessionID))
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	sessionID := env.login("admin")

	rr := env.post("/logout", url.Values{}, sessionID)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.False(t, env.sessions.has(sessionID))
}

func TestSafeRedirect(t *testing.T) {
	tests := map[string]string{
		"":                    "/dashboard",
		"/clubs?page=2":       "/clubs?page=2",
		"https://evil.com":    "/dashboard",
		"//evil.com":          "/dashboard",
		`/\evil.com`:          "/dashboard",
		"/login?rd=/settings": "/dashboard",
		"users":               "/dashboard",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeRedirect(in), in)
	}
}
