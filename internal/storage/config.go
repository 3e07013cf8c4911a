package storage

import (
	"net"
	"net/url"
	"strconv"
)

// Config selects and configures one backend. Only the section matching
// Kind is read.
type Config struct {
	Kind     Kind
	Local    LocalConfig
	Postgres PostgresConfig
	SQLite   SQLiteConfig
}

// LocalConfig configures the local_file backend.
type LocalConfig struct {
	// Path is the root directory. It is created on open.
	Path string
}

// PostgresConfig configures the postgres backend.
type PostgresConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
	SSLMode  string

	// DSN overrides every other field when set.
	DSN string
}

// ConnString returns the connection URL. Credentials are escaped.
func (c PostgresConfig) ConnString() string {
	if c.DSN != "" {
		return c.DSN
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Database,
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.Username, c.Password)
	} else if c.Username != "" {
		u.User = url.User(c.Username)
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.SSLMode}}.Encode()
	}
	return u.String()
}

// SQLiteConfig configures the sqlite backend.
type SQLiteConfig struct {
	// Path is the database file. ":memory:" opens a private in-memory
	// database.
	Path string
}
