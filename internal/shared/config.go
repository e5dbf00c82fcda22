package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	DefaultBackendURL = "http://localhost:8000/api"
	DefaultLanguage   = "pt-BR"
)

// Environment variables that override file configuration.
const (
	EnvAPIURL       = "CINEFAV_API_URL"
	EnvDBPath       = "CINEFAV_DB_PATH"
	EnvShareURL     = "CINEFAV_SHARE_URL"
	EnvTMDBKey      = "TMDB_API_KEY"
	EnvTMDBLanguage = "TMDB_LANGUAGE"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Backend  BackendConfig  `toml:"backend"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Share    ShareConfig    `toml:"share"`
}

// BackendConfig points at the favorites REST API.
type BackendConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout converts TimeoutSeconds to a [time.Duration]. Zero means no timeout.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// CatalogConfig contains TMDB settings.
type CatalogConfig struct {
	APIKey       string  `toml:"api_key"`
	BaseURL      string  `toml:"base_url"`
	ImageBaseURL string  `toml:"image_base_url"`
	Language     string  `toml:"language"`
	RateLimit    float64 `toml:"rate_limit"`
	CacheSize    int     `toml:"cache_size"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings for the share viewer.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr joins host and port into a listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ShareConfig controls how share links are built.
type ShareConfig struct {
	BaseURL string `toml:"base_url"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
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

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnvFile loads KEY=value pairs from the given dotenv files into the process environment.
//
// Missing files are ignored; variables already set are not overwritten.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides configuration values with non-empty environment variables.
//
// lookup is usually [os.LookupEnv].
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvAPIURL); ok {
		c.Backend.BaseURL = v
	}
	if v, ok := get(EnvDBPath); ok {
		c.Database.Path = v
	}
	if v, ok := get(EnvShareURL); ok {
		c.Share.BaseURL = v
	}
	if v, ok := get(EnvTMDBKey); ok {
		c.Catalog.APIKey = v
	}
	if v, ok := get(EnvTMDBLanguage); ok {
		c.Catalog.Language = v
	}
}

// Validate checks the values the client cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		return fmt.Errorf("%w: backend.base_url is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("%w: database.path is required", ErrInvalidConfig)
	}
	if c.Backend.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: backend.timeout_seconds must not be negative", ErrInvalidConfig)
	}
	return nil
}
