package server

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/clubadmin/clubadmin/internal/xtime"
	"github.com/clubadmin/clubadmin/server/auth"
	"github.com/clubadmin/clubadmin/server/backend"
	"github.com/clubadmin/clubadmin/server/database"
)

// Environment variables overriding the config file. They are also read from
// a .env file in the working directory.
const (
	EnvAPIURL      = "CLUBADMIN_API_URL"
	EnvImageURL    = "CLUBADMIN_IMAGE_URL"
	EnvAddr        = "CLUBADMIN_ADDR"
	EnvDatabaseURL = "CLUBADMIN_DATABASE_URL"
)

func LoadConfig(cfgPath string) (Config, error) {
	cfg := DefaultConfig()

	file, err := os.Open(cfgPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to open config file: %w", err)
	}
	if file != nil {
		defer func() {
			_ = file.Close()
		}()
		if _, err = toml.NewDecoder(file).Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}
	cfg.applyEnv(os.Getenv)

	if cfg.Backend.URL == "" {
		return Config{}, fmt.Errorf("backend url is required, set it in the config file or %s", EnvAPIURL)
	}

	if cfg.Auth.CSRFKey == "" {
		key := make([]byte, 32)
		if _, err = rand.Read(key); err != nil {
			return Config{}, fmt.Errorf("failed to generate csrf key: %w", err)
		}
		cfg.Auth.CSRFKey = hex.EncodeToString(key)
	}

	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvAPIURL); v != "" {
		c.Backend.URL = v
	}
	if v := getenv(EnvImageURL); v != "" {
		c.Backend.ImageURL = v
	}
	if v := getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := getenv(EnvDatabaseURL); v != "" {
		c.Database.URL = v
	}
}

func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:     slog.LevelInfo,
			Format:    LogFormatText,
			AddSource: false,
		},
		Server: ServerConfig{
			Addr:      ":8085",
			PublicURL: "http://localhost:8085",
		},
		Database: database.Config{
			Host:     "localhost",
			Port:     5432,
			Username: "postgres",
			Password: "password",
			Database: "clubadmin",
			SSLMode:  "disable",
		},
		Backend: backend.Config{
			ImageStripPrefix: "src/",
			Timeout:          xtime.Duration(30 * time.Second),
			Every:            xtime.Duration(10 * time.Millisecond),
			Burst:            20,
		},
		Auth: auth.DefaultConfig(),
		Views: ViewsConfig{
			ClubsPageSize:  3,
			UsersPageSize:  4,
			SearchDebounce: xtime.Duration(3 * time.Second),
		},
	}
}

type Config struct {
	Dev           bool                `toml:"dev"`
	Log           LogConfig           `toml:"log"`
	Server        ServerConfig        `toml:"server"`
	Database      database.Config     `toml:"database"`
	Backend       backend.Config      `toml:"backend"`
	Auth          auth.Config         `toml:"auth"`
	Notifications NotificationsConfig `toml:"notifications"`
	Views         ViewsConfig         `toml:"views"`
}

func (c Config) String() string {
	return fmt.Sprintf("Dev: %t\nLog: %s\nServer: %s\nDatabase: %s\nBackend: %s\nAuth: %s\nNotifications: %s\nViews: %s",
		c.Dev,
		c.Log,
		c.Server,
		c.Database,
		c.Backend,
		c.Auth,
		c.Notifications,
		c.Views,
	)
}

type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    LogFormat  `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

func (c LogConfig) String() string {
	return fmt.Sprintf("\n Level: %s\n Format: %s\n AddSource: %t",
		c.Level,
		c.Format,
		c.AddSource,
	)
}

type ServerConfig struct {
	Addr string `toml:"addr"`
	// PublicURL is where admins reach this server.
	PublicURL string `toml:"public_url"`
	// ShareURL is the public club page of the platform, %s is replaced with
	// the club id. It is encoded in the club QR codes.
	ShareURL string `toml:"share_url"`
}

func (c ServerConfig) String() string {
	return fmt.Sprintf("\n Address: %s\n PublicURL: %s\n ShareURL: %s",
		c.Addr,
		c.PublicURL,
		c.ShareURL,
	)
}

type NotificationsConfig struct {
	Enabled    bool   `toml:"enabled"`
	WebhookURL string `toml:"webhook_url"`
}

func (c NotificationsConfig) String() string {
	webhookURL := c.WebhookURL
	if webhookURL != "" {
		webhookURL = "********"
	}
	return fmt.Sprintf("\n Enabled: %t\n WebhookURL: %s",
		c.Enabled,
		webhookURL,
	)
}

type ViewsConfig struct {
	ClubsPageSize  int            `toml:"clubs_page_size"`
	UsersPageSize  int            `toml:"users_page_size"`
	SearchDebounce xtime.Duration `toml:"search_debounce"`
}

func (c ViewsConfig) String() string {
	return fmt.Sprintf("\n ClubsPageSize: %d\n UsersPageSize: %d\n SearchDebounce: %s",
		c.ClubsPageSize,
		c.UsersPageSize,
		c.SearchDebounce,
	)
}
