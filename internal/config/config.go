package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Cache backends for dictionary lookups.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheSQLite = "sqlite"
	CacheRedis  = "redis"
)

const (
	maxHintLimit = 12

	// requestSlack is added on top of the two dictionary lookups a move may make.
	requestSlack = 5 * time.Second
)

// Config holds every setting read from the environment.
type Config struct {
	// Server
	Port         string `envconfig:"PORT" default:"5175"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	ClientOrigin string `envconfig:"CLIENT_ORIGIN" default:"http://localhost:5173"`

	// Sessions
	SessionSecret  string        `envconfig:"SESSION_SECRET" default:"dev_secret_change_me"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	SessionIdleTTL time.Duration `envconfig:"SESSION_IDLE_TTL" default:"2h"`
	Production     bool          `envconfig:"PRODUCTION" default:"false"`

	// Dictionary
	DictBaseURL        string        `envconfig:"DICT_BASE_URL" default:"https://krdict.korean.go.kr/api/search"`
	DictAPIKey         string        `envconfig:"DICT_API_KEY" required:"true"`
	DictTimeout        time.Duration `envconfig:"DICT_TIMEOUT" default:"5s"`
	DictCandidateLimit int           `envconfig:"DICT_CANDIDATE_LIMIT" default:"50"`
	HintLimit          int           `envconfig:"HINT_LIMIT" default:"12"`

	// Lookup cache
	CacheBackend string        `envconfig:"CACHE_BACKEND" default:"memory"`
	CacheTTL     time.Duration `envconfig:"CACHE_TTL" default:"24h"`
	SQLitePath   string        `envconfig:"SQLITE_PATH" default:"./data/cache.db"`
	RedisURL     string        `envconfig:"REDIS_URL"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("port", cfg.Port).
		Str("logLevel", cfg.LogLevel).
		Str("clientOrigin", cfg.ClientOrigin).
		Str("dictBaseURL", cfg.DictBaseURL).
		Dur("dictTimeout", cfg.DictTimeout).
		Str("cacheBackend", cfg.CacheBackend).
		Bool("defaultSessionSecret", cfg.SessionSecret == "dev_secret_change_me").
		Msg("configuration loaded")
	return &cfg, nil
}

// RequestTimeout bounds one HTTP request. A move performs up to two
// dictionary lookups, each limited by DictTimeout.
func (c *Config) RequestTimeout() time.Duration {
	return 2*c.DictTimeout + requestSlack
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.DictAPIKey) == "" {
		return fmt.Errorf("config: DICT_API_KEY must not be empty")
	}
	c.CacheBackend = strings.ToLower(strings.TrimSpace(c.CacheBackend))
	switch c.CacheBackend {
	case CacheNone, CacheMemory, CacheSQLite:
	case CacheRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config: REDIS_URL is required when CACHE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("config: unknown CACHE_BACKEND %q", c.CacheBackend)
	}
	if c.DictCandidateLimit <= 0 {
		return fmt.Errorf("config: DICT_CANDIDATE_LIMIT must be positive")
	}
	if c.HintLimit <= 0 || c.HintLimit > maxHintLimit {
		return fmt.Errorf("config: HINT_LIMIT must be 1..%d", maxHintLimit)
	}
	if c.SessionIdleTTL <= 0 || c.DictTimeout <= 0 {
		return fmt.Errorf("config: SESSION_IDLE_TTL and DICT_TIMEOUT must be positive")
	}
	if c.Production && c.SessionSecret == "dev_secret_change_me" {
		return fmt.Errorf("config: SESSION_SECRET must be set in production")
	}
	return nil
}
