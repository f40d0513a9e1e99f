package database

import (
	"fmt"
	"net"
	"net/url"
)

// Config holds database connection settings.
type Config struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
	// MigrationsDir is resolved against the working directory when relative.
	MigrationsDir string `yaml:"migrations_dir" envconfig:"DB_MIGRATIONS_DIR"`
}

const defaultMigrationsDir = "migrations"

// URL renders the connection settings as a postgres:// URL understood by both
// lib/pq and golang-migrate. Credentials are escaped.
func (c Config) URL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, c.Port),
		Path:   "/" + c.Name,
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
	}
	return u.String()
}

// Redacted is URL with the password masked, for logs and errors.
func (c Config) Redacted() string {
	u, err := url.Parse(c.URL())
	if err != nil {
		return fmt.Sprintf("postgres://%s@%s/%s", c.User, net.JoinHostPort(c.Host, c.Port), c.Name)
	}
	return u.Redacted()
}

func (c Config) migrationsDir() string {
	if c.MigrationsDir == "" {
		return defaultMigrationsDir
	}
	return c.MigrationsDir
}
