package auth

import (
	"context"
	"crypto/rand"
	"math/big"
	"net/http"
	"time"

	"github.com/clubadmin/clubadmin/server/database"
)

const SessionCookieName = "session"

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890")

type sessionKey struct{}

var sessionContextKey = &sessionKey{}

func SetSession(ctx context.Context, session database.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// GetSession returns the session put into the request context by the gate.
// Handlers behind the gate can rely on it being present.
func GetSession(r *http.Request) database.Session {
	session, _ := r.Context().Value(sessionContextKey).(database.Session)
	return session
}

func RandomStr(length int) string {
	b := make([]rune, length)
	limit := big.NewInt(int64(len(letters)))
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic(err)
		}
		b[i] = letters[n.Int64()]
	}
	return string(b)
}

func (a *Auth) SetSessionCookie(w http.ResponseWriter, sessionID string, expiration time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Expires:  expiration,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.cfg.SecureCookie,
		HttpOnly: true,
		Path:     "/",
	})
}

func (a *Auth) RemoveSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.cfg.SecureCookie,
		HttpOnly: true,
		Path:     "/",
	})
}
