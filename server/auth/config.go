package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/clubadmin/clubadmin/internal/xtime"
	"github.com/clubadmin/clubadmin/server/backend"
)

type Config struct {
	// Roles allowed to use the admin front-end.
	Roles []string `toml:"roles"`
	// SessionTTL is used when the backend token carries no expiry.
	SessionTTL   xtime.Duration `toml:"session_ttl"`
	SecureCookie bool           `toml:"secure_cookie"`
	// CSRFKey is a 32 byte hex key. An empty key disables CSRF protection.
	CSRFKey string `toml:"csrf_key"`
}

func DefaultConfig() Config {
	return Config{
		Roles:      []string{backend.RoleAdmin, backend.RoleSuperuser},
		SessionTTL: xtime.Duration(24 * time.Hour),
	}
}

func (c Config) String() string {
	return fmt.Sprintf("\n Roles: %s\n SessionTTL: %s\n SecureCookie: %t\n CSRFKey: %s",
		strings.Join(c.Roles, ", "),
		c.SessionTTL,
		c.SecureCookie,
		strings.Repeat("*", len(c.CSRFKey)),
	)
}
