// Package config resolves process settings from the environment.
// Every required value missing or malformed is a startup-fatal error;
// the service never runs with a partial configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// ErrConfiguration is the sentinel wrapped by all settings failures.
var ErrConfiguration = errors.New("invalid configuration")

// Settings holds the resolved process configuration. It is immutable
// after Load returns; consumers receive it by value.
type Settings struct {
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
	LogLevel   slog.Level

	// HTTPAddr is the listen address for the API server.
	HTTPAddr string
}

const defaultHTTPAddr = ":8000"

// Load reads settings from the environment. All database variables and
// LOG_LEVEL are required; HTTP_ADDR defaults when unset. Unknown
// environment keys are ignored.
func Load() (Settings, error) {
	var s Settings

	host, err := requireEnv("DB_HOST")
	if err != nil {
		return s, err
	}
	portStr, err := requireEnv("DB_PORT")
	if err != nil {
		return s, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return s, fmt.Errorf("%w: DB_PORT %q is not an integer", ErrConfiguration, portStr)
	}
	name, err := requireEnv("DB_NAME")
	if err != nil {
		return s, err
	}
	user, err := requireEnv("DB_USER")
	if err != nil {
		return s, err
	}
	password, err := requireEnv("DB_PASSWORD")
	if err != nil {
		return s, err
	}
	levelStr, err := requireEnv("LOG_LEVEL")
	if err != nil {
		return s, err
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		return s, fmt.Errorf("%w: LOG_LEVEL %q is not a valid level", ErrConfiguration, levelStr)
	}

	s = Settings{
		DBHost:     host,
		DBPort:     port,
		DBName:     name,
		DBUser:     user,
		DBPassword: password,
		LogLevel:   level,
		HTTPAddr:   defaultHTTPAddr,
	}
	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		s.HTTPAddr = addr
	}

	return s, nil
}

func requireEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%w: %s is required", ErrConfiguration, key)
	}
	return v, nil
}

// DSN builds the connection string for the target database.
func (s Settings) DSN() string {
	return s.dsn(s.DBName)
}

// AdminDSN builds the connection string for the server's maintenance
// database, used only to create the target database when it is absent.
func (s Settings) AdminDSN() string {
	return s.dsn("postgres")
}

func (s Settings) dsn(database string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(s.DBUser, s.DBPassword),
		Host:     fmt.Sprintf("%s:%d", s.DBHost, s.DBPort),
		Path:     "/" + database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
