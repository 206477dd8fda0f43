package auth

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func New(cfg Config) *Auth {
	return &Auth{cfg: cfg}
}

type Auth struct {
	cfg Config
}

// Privileged reports whether role may use the admin front-end.
func (a *Auth) Privileged(role string) bool {
	return role != "" && slices.Contains(a.cfg.Roles, role)
}

// SessionExpiry returns the exp claim of the backend token or now plus the
// configured session ttl when the token has none. The token is not verified,
// the backend stays the authority on its validity.
func (a *Auth) SessionExpiry(token string, now time.Time) time.Time {
	if exp, ok := TokenExpiry(token); ok && exp.After(now) {
		return exp
	}
	return now.Add(a.cfg.SessionTTL.Std())
}

func TokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
