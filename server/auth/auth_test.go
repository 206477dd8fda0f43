package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubadmin/clubadmin/internal/xtime"
	"github.com/clubadmin/clubadmin/server/database"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestPrivileged(t *testing.T) {
	a := New(DefaultConfig())

	assert.True(t, a.Privileged("admin"))
	assert.True(t, a.Privileged("superuser"))
	assert.False(t, a.Privileged("user"))
	assert.False(t, a.Privileged(""))
}

func TestSessionExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a := New(Config{SessionTTL: xtime.Duration(2 * time.Hour)})

	exp := now.Add(30 * time.Minute)
	token := signedToken(t, jwt.MapClaims{"id": "u1", "exp": exp.Unix()})
	assert.Equal(t, exp.Unix(), a.SessionExpiry(token, now).Unix())

	noExp := signedToken(t, jwt.MapClaims{"id": "u1"})
	assert.Equal(t, now.Add(2*time.Hour), a.SessionExpiry(noExp, now))

	assert.Equal(t, now.Add(2*time.Hour), a.SessionExpiry("not-a-jwt", now))

	past := signedToken(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()})
	assert.Equal(t, now.Add(2*time.Hour), a.SessionExpiry(past, now))
}

func TestSessionContext(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetSession(r).ID)

	r = r.WithContext(SetSession(r.Context(), database.Session{ID: "s1", Token: "tok"}))
	assert.Equal(t, "tok", GetSession(r).Token)
}

func TestSessionCookies(t *testing.T) {
	a := New(Config{SecureCookie: true})

	rec := httptest.NewRecorder()
	a.SetSessionCookie(rec, "s1", time.Now().Add(time.Hour))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, "s1", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	rec = httptest.NewRecorder()
	a.RemoveSessionCookie(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestRandomStr(t *testing.T) {
	a, b := RandomStr(32), RandomStr(32)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
