// Package config loads job board configuration from an optional YAML file
// and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/web3-jobboard/internal/search"
)

// Defaults
const (
	DefaultAddr             = ":8080"
	DefaultCandidatePool    = 200
	DefaultMinScore         = 20
	DefaultDigestSchedule   = "@every 6h"
	DefaultDigestTopN       = 10
	DefaultFiltersCacheTTL  = 5 * time.Minute
	DefaultRequestTimeout   = 15 * time.Second
	DefaultShutdownDeadline = 10 * time.Second
)

// EndpointConfig holds per-endpoint search defaults.
// A nil Remote means the endpoint does not constrain remote unless the request does.
type EndpointConfig struct {
	Remote *bool `yaml:"remote"`
	Limit  int   `yaml:"limit"`
}

// SearchDefaults converts the endpoint config for search.Build.
func (e EndpointConfig) SearchDefaults() search.EndpointDefaults {
	return search.EndpointDefaults{Remote: e.Remote, Limit: e.Limit}
}

// Endpoints groups the per-endpoint search defaults.
type Endpoints struct {
	Jobs        EndpointConfig `yaml:"jobs"`
	Recommended EndpointConfig `yaml:"recommended"`
	Digest      EndpointConfig `yaml:"digest"`
}

// RecommendConfig tunes the recommendation endpoint.
type RecommendConfig struct {
	CandidatePool int `yaml:"candidate_pool"` // newest matching jobs scored per request
	MinScore      int `yaml:"min_score"`
}

// DigestConfig configures the Telegram digest.
type DigestConfig struct {
	Schedule string `yaml:"schedule"` // robfig/cron spec, e.g. "@every 6h"
	TopN     int    `yaml:"top_n"`
	ChatID   int64  `yaml:"chat_id"`
	BotToken string `yaml:"-"` // env only
}

// Config is the full job board configuration.
type Config struct {
	Addr             string          `yaml:"addr"`
	DatabaseURL      string          `yaml:"database_url"`
	RedisURL         string          `yaml:"redis_url"`
	FiltersCacheTTL  time.Duration   `yaml:"filters_cache_ttl"`
	RequestTimeout   time.Duration   `yaml:"request_timeout"`
	ShutdownDeadline time.Duration   `yaml:"shutdown_deadline"`
	Endpoints        Endpoints       `yaml:"endpoints"`
	Recommend        RecommendConfig `yaml:"recommend"`
	Digest           DigestConfig    `yaml:"digest"`
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	remote := true
	return &Config{
		Addr:             DefaultAddr,
		FiltersCacheTTL:  DefaultFiltersCacheTTL,
		RequestTimeout:   DefaultRequestTimeout,
		ShutdownDeadline: DefaultShutdownDeadline,
		Endpoints: Endpoints{
			Digest: EndpointConfig{Remote: &remote},
		},
		Recommend: RecommendConfig{
			CandidatePool: DefaultCandidatePool,
			MinScore:      DefaultMinScore,
		},
		Digest: DigestConfig{
			Schedule: DefaultDigestSchedule,
			TopN:     DefaultDigestTopN,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path
// and environment overrides, in that order, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		// Resolve path relative to current directory if not absolute
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() error {
	if v := os.Getenv("ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("FILTERS_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FILTERS_CACHE_TTL: %v", err)
		}
		c.FiltersCacheTTL = ttl
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Digest.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %v", err)
		}
		c.Digest.ChatID = id
	}
	if v := os.Getenv("DIGEST_SCHEDULE"); v != "" {
		c.Digest.Schedule = v
	}
	return nil
}

// Validate checks that the configuration has valid values.
// Connection strings are not required here; each command checks what it needs.
func (c *Config) Validate() error {
	for name, e := range map[string]EndpointConfig{
		"jobs":        c.Endpoints.Jobs,
		"recommended": c.Endpoints.Recommended,
		"digest":      c.Endpoints.Digest,
	} {
		if e.Limit < 0 || e.Limit > search.MaxLimit {
			return fmt.Errorf("config error: 'endpoints.%s.limit' must be between 0 and %d", name, search.MaxLimit)
		}
	}
	if c.Recommend.CandidatePool < 1 {
		return fmt.Errorf("config error: 'recommend.candidate_pool' must be at least 1")
	}
	if c.Recommend.MinScore < 0 || c.Recommend.MinScore > 100 {
		return fmt.Errorf("config error: 'recommend.min_score' must be between 0 and 100")
	}
	if c.Digest.TopN < 1 {
		return fmt.Errorf("config error: 'digest.top_n' must be at least 1")
	}
	if c.FiltersCacheTTL < 0 {
		return fmt.Errorf("config error: 'filters_cache_ttl' must be non-negative")
	}
	return nil
}

// RequireDatabase returns an error when no database URL is configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	return nil
}

// RequireTelegram returns an error when the digest cannot post.
func (c *Config) RequireTelegram() error {
	if c.Digest.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required but not set")
	}
	if c.Digest.ChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required but not set")
	}
	return nil
}
