package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DASHBOARD_BASE_API", "https://api.example.com/api/v1/")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "https://api.example.com/api/v1", cfg.BaseAPI)
	require.Equal(t, "accessToken", cfg.CookieName)
	require.Equal(t, 5*time.Minute, cfg.CacheTTL)
	require.Equal(t, "dashboard:cache", cfg.CacheChannel)
	require.Equal(t, "UTC", cfg.DeadlineLocation.String())
	require.Equal(t, 10, cfg.AuthRateLimit)
	require.Equal(t, ":3000", cfg.HTTPAddress())
	require.False(t, cfg.IsProduction())
}

func TestLoadRequiresBaseAPI(t *testing.T) {
	t.Setenv("DASHBOARD_BASE_API", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsInvalidTTL(t *testing.T) {
	t.Setenv("DASHBOARD_BASE_API", "https://api.example.com")
	t.Setenv("DASHBOARD_CACHE_TTL", "soon")

	_, err := Load()
	require.ErrorContains(t, err, "invalid cache ttl")
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	t.Setenv("DASHBOARD_BASE_API", "https://api.example.com")
	t.Setenv("DASHBOARD_DEADLINE_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	require.ErrorContains(t, err, "invalid deadline timezone")
}

func TestHTTPAddressKeepsColonPrefix(t *testing.T) {
	cfg := Config{AppPort: ":9000", AppEnv: "Production"}
	require.Equal(t, ":9000", cfg.HTTPAddress())
	require.True(t, cfg.IsProduction())
}
