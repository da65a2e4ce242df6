// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the bearer token goes to the token store.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	cerrors "coinly/cli/internal/errors"
	"coinly/cli/internal/xdg"
)

// Environment variables that override the config file.
const (
	EnvAPIURL = "COINLY_API_URL"
	EnvStore  = "COINLY_STORE"
	// EnvPostgresDSN keeps database credentials out of the config file.
	EnvPostgresDSN = "COINLY_POSTGRES_DSN"
)

// Store backends understood by tokenstore.Open.
const (
	BackendKeyring  = "keyring"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// UsersBasePath is appended to the API origin to reach the identity service.
const UsersBasePath = "/api/users"

// DefaultAPIURL is used when neither the file nor the environment names an origin.
const DefaultAPIURL = "http://localhost:8080"

// Config holds non-sensitive CLI settings.
type Config struct {
	APIURL      string        `yaml:"api_url"`
	LogLevel    string        `yaml:"log_level"`
	LogoutDelay time.Duration `yaml:"logout_delay"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	Store       Store         `yaml:"store"`
}

// Store selects and configures the token store backend.
type Store struct {
	Backend     string `yaml:"backend"`
	SQLitePath  string `yaml:"sqlite_path"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix"`
	PostgresDSN string `yaml:"postgres_dsn,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:      DefaultAPIURL,
		LogLevel:    "info",
		LogoutDelay: 5 * time.Second,
		HTTPTimeout: 10 * time.Second,
		Store: Store{
			Backend:     BackendKeyring,
			RedisAddr:   "localhost:6379",
			RedisPrefix: "coinly:",
		},
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads configuration; a missing file returns defaults. Environment
// overrides are applied last.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Config{}, cerrors.Wrap(cerrors.KindConfig, "resolve config dir", err)
	}
	return LoadFile(p)
}

// LoadFile reads configuration from an explicit path and applies environment
// overrides.
func LoadFile(p string) (Config, error) {
	c, err := ReadFile(p)
	if err != nil {
		return c, err
	}
	c.applyEnv()
	return c, nil
}

// ReadFile reads the file alone, without environment overrides. A missing
// file yields defaults.
func ReadFile(p string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, cerrors.Wrap(cerrors.KindConfig, "read "+p, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, cerrors.Wrap(cerrors.KindConfig, "parse "+p, err)
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStore)); v != "" {
		c.Store.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPostgresDSN)); v != "" {
		c.Store.PostgresDSN = v
	}
}

// Validate checks the settings that would otherwise fail late.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return cerrors.New(cerrors.KindConfig, fmt.Sprintf("api_url %q is not an absolute URL", c.APIURL))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return cerrors.New(cerrors.KindConfig, fmt.Sprintf("api_url scheme %q is not http(s)", u.Scheme))
	}
	switch c.Store.Backend {
	case BackendKeyring, BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			return cerrors.New(cerrors.KindConfig, "store.redis_addr is required for the redis backend")
		}
	case BackendPostgres:
		if c.Store.PostgresDSN == "" {
			return cerrors.New(cerrors.KindConfig, "store.postgres_dsn (or "+EnvPostgresDSN+") is required for the postgres backend")
		}
	default:
		return cerrors.New(cerrors.KindConfig, fmt.Sprintf("unknown store backend %q", c.Store.Backend))
	}
	if c.LogoutDelay < 0 || c.HTTPTimeout < 0 {
		return cerrors.New(cerrors.KindConfig, "durations must not be negative")
	}
	return nil
}

// UsersBaseURL joins the API origin with the identity service base path.
func (c Config) UsersBaseURL() string {
	return strings.TrimRight(c.APIURL, "/") + UsersBasePath
}

// SaveFile writes configuration to p with 0600 permissions.
func SaveFile(p string, c Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return cerrors.Wrap(cerrors.KindConfig, "encode config", err)
	}
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return cerrors.Wrap(cerrors.KindConfig, "write "+p, err)
	}
	return nil
}

// Keys lists the settings Set understands, in display order.
var Keys = []string{
	"api_url",
	"log_level",
	"logout_delay",
	"http_timeout",
	"store.backend",
	"store.sqlite_path",
	"store.redis_addr",
	"store.redis_prefix",
	"store.postgres_dsn",
}

// Set assigns one setting by its YAML key. Durations use time.ParseDuration.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "api_url":
		c.APIURL = value
	case "log_level":
		c.LogLevel = value
	case "logout_delay", "http_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return cerrors.Wrap(cerrors.KindConfig, key, err)
		}
		if key == "logout_delay" {
			c.LogoutDelay = d
		} else {
			c.HTTPTimeout = d
		}
	case "store.backend":
		c.Store.Backend = value
	case "store.sqlite_path":
		c.Store.SQLitePath = value
	case "store.redis_addr":
		c.Store.RedisAddr = value
	case "store.redis_prefix":
		c.Store.RedisPrefix = value
	case "store.postgres_dsn":
		c.Store.PostgresDSN = value
	default:
		return cerrors.New(cerrors.KindConfig, fmt.Sprintf("unknown setting %q", key))
	}
	return nil
}

// Get returns one setting by its YAML key.
func (c Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "log_level":
		return c.LogLevel, nil
	case "logout_delay":
		return c.LogoutDelay.String(), nil
	case "http_timeout":
		return c.HTTPTimeout.String(), nil
	case "store.backend":
		return c.Store.Backend, nil
	case "store.sqlite_path":
		return c.Store.SQLitePath, nil
	case "store.redis_addr":
		return c.Store.RedisAddr, nil
	case "store.redis_prefix":
		return c.Store.RedisPrefix, nil
	case "store.postgres_dsn":
		return c.Store.PostgresDSN, nil
	}
	return "", cerrors.New(cerrors.KindConfig, fmt.Sprintf("unknown setting %q", key))
}
