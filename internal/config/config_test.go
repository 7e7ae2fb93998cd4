package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DICT_API_KEY", "k")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5175", cfg.Port)
	assert.Equal(t, "k", cfg.DictAPIKey)
	assert.Equal(t, 5*time.Second, cfg.DictTimeout)
	assert.Equal(t, 50, cfg.DictCandidateLimit)
	assert.Equal(t, 12, cfg.HintLimit)
	assert.Equal(t, CacheMemory, cfg.CacheBackend)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdleTTL)
}

func TestLoad_RequiresAPIKey(t *testing.T) {
	t.Setenv("DICT_API_KEY", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown cache", map[string]string{"CACHE_BACKEND": "memcached"}},
		{"redis without url", map[string]string{"CACHE_BACKEND": "redis"}},
		{"zero hints", map[string]string{"HINT_LIMIT": "0"}},
		{"too many hints", map[string]string{"HINT_LIMIT": "13"}},
		{"zero idle ttl", map[string]string{"SESSION_IDLE_TTL": "0s"}},
		{"production default secret", map[string]string{"PRODUCTION": "true"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DICT_API_KEY", "k")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DICT_API_KEY", "k")
	t.Setenv("CACHE_BACKEND", " SQLite ")
	t.Setenv("DICT_TIMEOUT", "1500ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, CacheSQLite, cfg.CacheBackend)
	assert.Equal(t, 1500*time.Millisecond, cfg.DictTimeout)
}

func TestRequestTimeout_CoversTwoLookups(t *testing.T) {
	t.Setenv("DICT_API_KEY", "k")
	t.Setenv("DICT_TIMEOUT", "10s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Greater(t, cfg.RequestTimeout(), 2*cfg.DictTimeout)
}
