package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the friendsearch API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	History  HistoryConfig  `yaml:"history"`
	Search   SearchConfig   `yaml:"search"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds caller identity settings.
type AuthConfig struct {
	// Tokens maps bearer tokens to user ids. When empty, the user id is read
	// from UserHeader, set by a trusted upstream.
	Tokens     map[string]string `yaml:"tokens"`
	UserHeader string            `yaml:"user_header"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL              string `yaml:"url"`
	MaxConns         int32  `yaml:"max_conns"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
	AutoMigrate      bool   `yaml:"auto_migrate"`
}

// HistoryConfig selects the recent-search history backend.
type HistoryConfig struct {
	Driver        string   `yaml:"driver"` // postgres, redis (default: postgres)
	RedisAddrs    []string `yaml:"redis_addrs"`
	RedisPassword string   `yaml:"redis_password"`
	KeyPrefix     string   `yaml:"key_prefix"`
}

// SearchConfig tunes full-text search and facets.
type SearchConfig struct {
	TextConfig       string `yaml:"text_config"`
	HeadlineMaxWords int    `yaml:"headline_max_words"`
	BrowseFacets     string `yaml:"browse_facets"` // contextual, global (default: contextual)
}

// History drivers.
const (
	HistoryPostgres = "postgres"
	HistoryRedis    = "redis"
)

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.MaxConns <= 0 {
		c.Database.MaxConns = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.History.Driver == "" {
		c.History.Driver = HistoryPostgres
	}
	if c.History.KeyPrefix == "" {
		c.History.KeyPrefix = "friendsearch:recent:"
	}
	if c.Search.TextConfig == "" {
		c.Search.TextConfig = "simple"
	}
	if c.Search.HeadlineMaxWords <= 0 {
		c.Search.HeadlineMaxWords = 35
	}
	if c.Search.BrowseFacets == "" {
		c.Search.BrowseFacets = "contextual"
	}
	if c.Auth.UserHeader == "" {
		c.Auth.UserHeader = "X-User-ID"
	}
}

var textConfigRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	switch c.History.Driver {
	case HistoryPostgres:
	case HistoryRedis:
		if len(c.History.RedisAddrs) == 0 {
			return fmt.Errorf("history.redis_addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("history.driver must be \"postgres\" or \"redis\", got %q", c.History.Driver)
	}
	if !textConfigRegex.MatchString(c.Search.TextConfig) {
		return fmt.Errorf("search.text_config must be a text search configuration name, got %q", c.Search.TextConfig)
	}
	if c.Search.HeadlineMaxWords < 3 {
		return fmt.Errorf("search.headline_max_words must be at least 3, got %d", c.Search.HeadlineMaxWords)
	}
	switch c.Search.BrowseFacets {
	case "contextual", "global":
	default:
		return fmt.Errorf(
			"search.browse_facets must be \"contextual\" or \"global\", got %q", c.Search.BrowseFacets,
		)
	}
	for token, user := range c.Auth.Tokens {
		if token == "" || user == "" {
			return fmt.Errorf("auth.tokens entries need a token and a user id")
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
