package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ADDR", "DATABASE_URL", "REDIS_URL", "FILTERS_CACHE_TTL",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "DIGEST_SCHEDULE"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, DefaultCandidatePool, cfg.Recommend.CandidatePool)
	assert.Equal(t, DefaultMinScore, cfg.Recommend.MinScore)
	assert.Equal(t, DefaultDigestSchedule, cfg.Digest.Schedule)
	assert.Nil(t, cfg.Endpoints.Jobs.Remote)
	assert.Nil(t, cfg.Endpoints.Recommended.Remote)
	require.NotNil(t, cfg.Endpoints.Digest.Remote)
	assert.True(t, *cfg.Endpoints.Digest.Remote)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
addr: ":9090"
filters_cache_ttl: 90s
endpoints:
  jobs:
    limit: 50
  recommended:
    remote: true
  digest:
    limit: 5
recommend:
  candidate_pool: 300
  min_score: 35
digest:
  schedule: "0 9 * * *"
  top_n: 3
  chat_id: -1001234
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 90*time.Second, cfg.FiltersCacheTTL)
	assert.Equal(t, 50, cfg.Endpoints.Jobs.Limit)
	require.NotNil(t, cfg.Endpoints.Recommended.Remote)
	assert.True(t, *cfg.Endpoints.Recommended.Remote)
	assert.Equal(t, 5, cfg.Endpoints.Digest.Limit)
	require.NotNil(t, cfg.Endpoints.Digest.Remote, "unset keys keep their defaults")
	assert.Equal(t, 300, cfg.Recommend.CandidatePool)
	assert.Equal(t, 35, cfg.Recommend.MinScore)
	assert.Equal(t, "0 9 * * *", cfg.Digest.Schedule)
	assert.Equal(t, 3, cfg.Digest.TopN)
	assert.Equal(t, int64(-1001234), cfg.Digest.ChatID)

	defaults := cfg.Endpoints.Jobs.SearchDefaults()
	assert.Equal(t, 50, defaults.Limit)
	assert.Nil(t, defaults.Remote)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "database_url: postgres://file/db\ndigest:\n  chat_id: 1\n")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("TELEGRAM_BOT_TOKEN", "bot-token")
	t.Setenv("FILTERS_CACHE_TTL", "2m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, int64(42), cfg.Digest.ChatID)
	assert.Equal(t, "bot-token", cfg.Digest.BotToken)
	assert.Equal(t, 2*time.Minute, cfg.FiltersCacheTTL)
	assert.NoError(t, cfg.RequireDatabase())
	assert.NoError(t, cfg.RequireTelegram())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		errPart string
	}{
		{"invalid yaml", "endpoints: [", nil, "failed to parse config YAML"},
		{"limit too large", "endpoints:\n  jobs:\n    limit: 500\n", nil, "endpoints.jobs.limit"},
		{"min score out of range", "recommend:\n  min_score: 120\n", nil, "min_score"},
		{"empty candidate pool", "recommend:\n  candidate_pool: 0\n", nil, "candidate_pool"},
		{"bad chat id", "", map[string]string{"TELEGRAM_CHAT_ID": "abc"}, "TELEGRAM_CHAT_ID"},
		{"bad cache ttl", "", map[string]string{"FILTERS_CACHE_TTL": "soon"}, "FILTERS_CACHE_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := writeConfig(t, tt.content)

			cfg, err := Load(path)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestRequire(t *testing.T) {
	cfg := Default()

	assert.Error(t, cfg.RequireDatabase())
	assert.Error(t, cfg.RequireTelegram())

	cfg.Digest.BotToken = "token"
	assert.Error(t, cfg.RequireTelegram(), "chat id still missing")
}
