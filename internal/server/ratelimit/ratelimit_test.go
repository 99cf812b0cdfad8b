package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter(config *Config) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	config.CleanupInterval = 0
	l := NewLimiter(config)
	l.now = clock.Now
	return l, clock
}

func TestLimiter_Allow(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/jobs", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/jobs", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, float64(6*time.Second), float64(info.RetryAfter), float64(time.Millisecond), "10 per minute refills one token every 6s")
	assert.True(t, info.ResetTime.After(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)))
}

func TestLimiter_Refill(t *testing.T) {
	limiter, clock := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		limiter.Allow("127.0.0.1", "/jobs", "GET")
	}
	allowed, _ := limiter.Allow("127.0.0.1", "/jobs", "GET")
	require.False(t, allowed)

	clock.Advance(7 * time.Second)
	allowed, _ = limiter.Allow("127.0.0.1", "/jobs", "GET")
	assert.True(t, allowed)

	allowed, _ = limiter.Allow("127.0.0.1", "/jobs", "GET")
	assert.False(t, allowed)
}

func TestLimiter_ClientsAndMethodsAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("10.0.0.1", "/jobs", "GET")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("10.0.0.1", "/jobs", "GET")
	assert.False(t, allowed)

	allowed, _ = limiter.Allow("10.0.0.2", "/jobs", "GET")
	assert.True(t, allowed, "other client has its own bucket")
	allowed, _ = limiter.Allow("10.0.0.1", "/jobs", "POST")
	assert.True(t, allowed, "other method has its own bucket")
}

func TestLimiter_UnmatchedPathsShareDefaultBucket(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
	}{
		{"distinct job ids", []string{"/jobs/a", "/jobs/b", "/jobs/c"}},
		{"different routes", []string{"/jobs", "/filters", "/jobs/x"}},
		{"unknown paths", []string{"/nope/1", "/nope/2", "/nope/3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RATE_LIMIT_RECOMMENDED_LIMIT", "")
			limiter, _ := newTestLimiter(&Config{
				Enabled:       true,
				DefaultLimit:  2,
				DefaultWindow: time.Minute,
				Rules:         DefaultRules(),
			})
			defer limiter.Stop()

			allowed, _ := limiter.Allow("10.0.0.1", tt.paths[0], "GET")
			assert.True(t, allowed)
			allowed, _ = limiter.Allow("10.0.0.1", tt.paths[1], "GET")
			assert.True(t, allowed)
			allowed, info := limiter.Allow("10.0.0.1", tt.paths[2], "GET")
			assert.False(t, allowed, "a new path does not reset the allowance")
			assert.Equal(t, 2, info.Limit)
			assert.Equal(t, 1, limiter.size())

			allowed, info = limiter.Allow("10.0.0.1", "/jobs/recommended", "GET")
			assert.True(t, allowed, "matched routes keep their own bucket")
			assert.Equal(t, 60, info.Limit)
			assert.Equal(t, 2, limiter.size())
		})
	}
}

func TestLimiter_WhitelistBlacklist(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.9": true},
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/jobs", "GET")
		assert.True(t, allowed)
	}

	allowed, _ := limiter.Allow("10.0.0.9", "/jobs", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: false, DefaultLimit: 1})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/jobs", "GET")
		assert.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}
}

func TestLimiter_RuleSharedAcrossIDs(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Rules: []Rule{
			{Path: "/jobs/{id}/interactions", Method: "POST", Limit: 2, Window: time.Minute},
		},
	})
	defer limiter.Stop()

	allowed, info := limiter.Allow("127.0.0.1", "/jobs/a/interactions", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 2, info.Limit)
	allowed, _ = limiter.Allow("127.0.0.1", "/jobs/b/interactions", "POST")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("127.0.0.1", "/jobs/c/interactions", "POST")
	assert.False(t, allowed)

	allowed, info = limiter.Allow("127.0.0.1", "/jobs/a", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 100, info.Limit, "reads use the default")
}

func TestLimiter_Burst(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Rules:         []Rule{{Path: "/jobs/recommended", Method: "GET", Limit: 60, Window: time.Minute, Burst: 3}},
	})
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/jobs/recommended", "GET")
		assert.True(t, allowed)
	}
	allowed, info := limiter.Allow("127.0.0.1", "/jobs/recommended", "GET")
	assert.False(t, allowed)
	assert.Equal(t, time.Second, info.RetryAfter)
}

func TestLimiter_ProbesUnlimited(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for _, path := range []string{"/health", "/ready"} {
		for i := 0; i < 5; i++ {
			allowed, _ := limiter.Allow("127.0.0.1", path, "GET")
			assert.True(t, allowed, path)
		}
	}
	assert.Equal(t, 0, limiter.size(), "probes never allocate buckets")
}

func TestLimiter_Cleanup(t *testing.T) {
	limiter, clock := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer limiter.Stop()

	limiter.Allow("10.0.0.1", "/jobs", "GET")
	clock.Advance(30 * time.Minute)
	limiter.Allow("10.0.0.2", "/jobs", "GET")
	require.Equal(t, 2, limiter.size())

	clock.Advance(45 * time.Minute)
	limiter.cleanup()
	assert.Equal(t, 1, limiter.size(), "only the bucket idle for over an hour is dropped")
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Hour})
	defer limiter.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if ok, _ := limiter.Allow("127.0.0.1", "/jobs", "GET"); ok {
					mu.Lock()
					allowedCount++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, allowedCount, 100)
	assert.LessOrEqual(t, allowedCount, 101, "at most one token refills during the test")
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, info := limiter.Allow("127.0.0.1", "/jobs", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)

	limiter.Stop()
}

func TestMatchRule(t *testing.T) {
	rules := []Rule{
		{Path: "/jobs/recommended", Method: "GET", Limit: 60},
		{Path: "/jobs/{id}/interactions", Method: "POST", Limit: 30},
		{Path: "/admin/", Method: "POST", Limit: 5},
	}

	tests := []struct {
		name     string
		path     string
		method   string
		wantPath string
		wantNil  bool
	}{
		{"exact", "/jobs/recommended", "GET", "/jobs/recommended", false},
		{"pattern", "/jobs/0xabc/interactions", "POST", "/jobs/{id}/interactions", false},
		{"pattern wrong method", "/jobs/0xabc/interactions", "GET", "", true},
		{"pattern extra segment", "/jobs/a/b/interactions", "POST", "", true},
		{"pattern empty segment", "/jobs//interactions", "POST", "", true},
		{"prefix", "/admin/reindex", "POST", "/admin/", false},
		{"no rule", "/jobs", "GET", "", true},
		{"health", "/health", "GET", "/health", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchRule(tt.path, tt.method, rules)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantPath, got.Path)
		})
	}

	health := MatchRule("/health", "GET", rules)
	assert.True(t, health.Unlimited())
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "250")
	t.Setenv("RATE_LIMIT_RECOMMENDED_LIMIT", "12")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2,")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 250, cfg.DefaultLimit)
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Whitelist)

	rule := MatchRule("/jobs/recommended", "GET", cfg.Rules)
	require.NotNil(t, rule)
	assert.Equal(t, 12, rule.Limit)

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
