package shared

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Duration decodes TOML duration strings such as "5s" or "10m".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the time.Duration value
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Session  SessionConfig  `toml:"session"`
	Spotify  SpotifyConfig  `toml:"spotify"`
	Database DatabaseConfig `toml:"database"`
	LogLevel string         `toml:"log_level"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host         string   `toml:"host"`
	Port         int      `toml:"port"`
	Dev          bool     `toml:"dev"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SessionConfig contains session cookie and store settings.
type SessionConfig struct {
	Secret       string   `toml:"secret"`
	CookieName   string   `toml:"cookie_name"`
	TTL          Duration `toml:"ttl"`
	Store        string   `toml:"store"`
	SecureCookie bool     `toml:"secure_cookie"`
}

// SpotifyConfig contains the Spotify application registration and API endpoints.
type SpotifyConfig struct {
	ClientID    string   `toml:"client_id"`
	RedirectURI string   `toml:"redirect_uri"`
	AccountsURL string   `toml:"accounts_url"`
	APIURL      string   `toml:"api_url"`
	Timeout     Duration `toml:"timeout"`
	RateLimit   float64  `toml:"rate_limit"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values from [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides config values with the variables returned by lookup.
//
// Pass [os.LookupEnv] in production; tests supply a map-backed function.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PORT %q is not a number", ErrInvalidConfig, v)
		}
		c.Server.Port = port
	}

	strs := map[string]*string{
		"CLIENT_ID":      &c.Spotify.ClientID,
		"REDIRECT_URI":   &c.Spotify.RedirectURI,
		"SESSION_SECRET": &c.Session.Secret,
		"SESSION_STORE":  &c.Session.Store,
		"DATABASE_PATH":  &c.Database.Path,
		"LOG_LEVEL":      &c.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	return nil
}

// Validate reports the first configuration problem that would prevent the server from starting.
func (c *Config) Validate() error {
	if c.Spotify.ClientID == "" || strings.HasPrefix(c.Spotify.ClientID, "your_") {
		return fmt.Errorf("%w: spotify client_id (CLIENT_ID) is required", ErrMissingCredentials)
	}

	if c.Spotify.RedirectURI == "" {
		return fmt.Errorf("%w: spotify redirect_uri (REDIRECT_URI) is required", ErrMissingCredentials)
	}

	u, err := url.Parse(c.Spotify.RedirectURI)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: redirect_uri %q must be an absolute URL", ErrInvalidConfig, c.Spotify.RedirectURI)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Server.Port)
	}

	if c.Session.Secret == "" && !c.Server.Dev {
		return fmt.Errorf("%w: session secret (SESSION_SECRET) is required outside dev mode", ErrInvalidConfig)
	}

	switch strings.ToLower(c.Session.Store) {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("%w: unknown session store %q", ErrInvalidConfig, c.Session.Store)
	}

	if c.Session.TTL.Duration() <= 0 {
		return fmt.Errorf("%w: session ttl must be positive", ErrInvalidConfig)
	}

	if c.Spotify.RateLimit < 0 {
		return fmt.Errorf("%w: spotify rate_limit must not be negative", ErrInvalidConfig)
	}

	return nil
}
