package database

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/topi314/gomigrate"
	"github.com/topi314/gomigrate/drivers/postgres"
)

//go:embed migrations/*.sql
var migrations embed.FS

const sessionCleanupInterval = 1 * time.Hour

func New(cfg Config) (*Database, error) {
	dbx, err := sqlx.Connect("pgx", cfg.DataSourceName())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = gomigrate.Migrate(ctx, dbx, postgres.New, migrations); err != nil {
		_ = dbx.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db := NewFromDB(dbx)
	db.wg.Add(1)
	go db.cleanupSessions()

	return db, nil
}

// NewFromDB wraps an already migrated connection without starting the
// session cleanup.
func NewFromDB(dbx *sqlx.DB) *Database {
	return &Database{
		db:   dbx,
		stop: make(chan struct{}),
	}
}

type Database struct {
	db *sqlx.DB

	stopOnce sync.Once
	stop     chan struct{}
	wg       sync.WaitGroup
}

func (d *Database) Close() error {
	d.stopOnce.Do(func() {
		close(d.stop)
	})
	d.wg.Wait()

	if err := d.db.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

func (d *Database) cleanupSessions() {
	defer d.wg.Done()

	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		d.doCleanupSessions()
		select {
		case <-d.stop:
			return
		case <-ticker.C:
		}
	}
}

func (d *Database) doCleanupSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	deleted, err := d.DeleteExpiredSessions(ctx)
	if err != nil {
		slog.Error("Failed to cleanup expired sessions", slog.Any("err", err))
		return
	}
	if deleted > 0 {
		slog.Debug("Cleaned up expired sessions", slog.Int64("count", deleted))
	}
}
