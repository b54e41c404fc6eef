package config_test

import (
	"testing"
	"time"

	"announceslider/config"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"API_PORT", "ANNOUNCEMENTS_API_URL", "ANNOUNCEMENTS_CACHE_BACKEND", "ANNOUNCEMENTS_CACHE_TTL", "ANNOUNCEMENTS_SANITIZE_CONTENT", "SLIDER_IDLE_TIMEOUT", "SLIDER_MAX_SESSIONS", "DB_HOST", "DB_NAME"} {
		t.Setenv(k, "")
	}

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.APIPort)
	require.Equal(t, "memory", cfg.Announcements.CacheBackend)
	require.Equal(t, time.Minute, cfg.Announcements.CacheTTL)
	require.Equal(t, "http://localhost:8080/api/v1", cfg.Announcements.APIURL)
	require.False(t, cfg.Announcements.SanitizeContent)
	require.Equal(t, 30*time.Minute, cfg.Announcements.SliderIdleTimeout)
	require.Equal(t, 10000, cfg.Announcements.MaxSliders)
	require.False(t, cfg.DatabaseEnabled())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("ANNOUNCEMENTS_API_URL", "https://api.example.com/v1/")
	t.Setenv("ANNOUNCEMENTS_CACHE_BACKEND", "REDIS")
	t.Setenv("ANNOUNCEMENTS_CACHE_TTL", "30s")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "flows")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.APIPort)
	require.Equal(t, "https://api.example.com/v1", cfg.Announcements.APIURL)
	require.Equal(t, "redis", cfg.Announcements.CacheBackend)
	require.Equal(t, 30*time.Second, cfg.Announcements.CacheTTL)
	require.True(t, cfg.DatabaseEnabled())
}

func TestValidate_InvalidBackend(t *testing.T) {
	t.Setenv("ANNOUNCEMENTS_CACHE_BACKEND", "memcached")

	_, err := config.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "ANNOUNCEMENTS_CACHE_BACKEND")
}

func TestValidate_NonPositiveTTL(t *testing.T) {
	cfg := &config.Config{
		APIPort: 8080,
		Announcements: config.AnnouncementsConfig{
			CacheBackend: "memory",
			CacheTTL:     0,
			Workers:      1,
			QueueSize:    1,
		},
	}
	require.Error(t, cfg.Validate())
}

func TestValidate_NegativeSliderLimits(t *testing.T) {
	cfg := &config.Config{
		APIPort: 8080,
		Announcements: config.AnnouncementsConfig{
			CacheBackend: "memory",
			CacheTTL:     time.Minute,
			Workers:      1,
			QueueSize:    1,
			MaxSliders:   -1,
		},
	}
	require.Error(t, cfg.Validate())
}
