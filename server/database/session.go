package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/clubadmin/clubadmin/internal/xpgtype"
	"github.com/clubadmin/clubadmin/server/backend"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Session is a logged-in admin. The backend token never leaves the server,
// the browser only holds the session id.
type Session struct {
	ID        string                     `db:"session_id"`
	Token     string                     `db:"session_token"`
	User      xpgtype.JSON[backend.User] `db:"session_user"`
	CreatedAt time.Time                  `db:"session_created_at"`
	ExpiresAt time.Time                  `db:"session_expires_at"`
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

func (d *Database) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	var session Session
	err := d.db.GetContext(ctx, &session, "SELECT * FROM sessions WHERE session_id = $1", sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.Expired(time.Now()) {
		return nil, ErrSessionExpired
	}

	return &session, nil
}

func (d *Database) CreateSession(ctx context.Context, session Session) error {
	query := `
		INSERT INTO sessions (session_id, session_token, session_user, session_created_at, session_expires_at)
		VALUES (:session_id, :session_token, :session_user, :session_created_at, :session_expires_at)
	`
	if _, err := d.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// UpdateSessionUser replaces the cached profile of the session owner.
func (d *Database) UpdateSessionUser(ctx context.Context, sessionID string, user backend.User) error {
	rs, err := d.db.ExecContext(ctx, "UPDATE sessions SET session_user = $1 WHERE session_id = $2", xpgtype.NewJSON(user), sessionID)
	if err != nil {
		return fmt.Errorf("failed to update session user: %w", err)
	}

	if n, err := rs.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (d *Database) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM sessions WHERE session_id = $1", sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (d *Database) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	rs, err := d.db.ExecContext(ctx, "DELETE FROM sessions WHERE session_expires_at < NOW()")
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired sessions: %w", err)
	}

	n, err := rs.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}
