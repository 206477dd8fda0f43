package database

import (
	"fmt"
	"strings"
)

type Config struct {
	// URL takes precedence over the individual connection settings.
	URL      string `toml:"url"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"ssl_mode"`
}

func (c Config) String() string {
	if c.URL != "" {
		return "\n URL: " + strings.Repeat("*", len(c.URL))
	}
	return fmt.Sprintf("\n Host: %s\n Port: %d\n Username: %s\n Password: %s\n Database: %s\n SSLMode: %s",
		c.Host,
		c.Port,
		c.Username,
		strings.Repeat("*", len(c.Password)),
		c.Database,
		c.SSLMode,
	)
}

func (c Config) DataSourceName() string {
	if c.URL != "" {
		return c.URL
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.Username,
		c.Password,
		c.Database,
		sslMode,
	)
}
