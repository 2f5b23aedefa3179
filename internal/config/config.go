package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the dashboard service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	BaseAPI          string
	CookieName       string
	JWTSecret        string
	RedisURL         string
	NATSURL          string
	CacheTTL         time.Duration
	CacheChannel     string
	DeadlineLocation *time.Location
	AuthRateLimit    int
	AuthRateWindow   time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether cookies should be marked secure.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DASHBOARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "GEMA Dashboard")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "3000")
	v.SetDefault("cookie.name", "accessToken")
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("cache.channel", "dashboard:cache")
	v.SetDefault("deadline.timezone", "UTC")
	v.SetDefault("auth.rate_limit", 10)
	v.SetDefault("auth.rate_window", "1m")

	ttlString := v.GetString("cache.ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid cache ttl: %w", err)
	}

	window, err := time.ParseDuration(v.GetString("auth.rate_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid auth rate window: %w", err)
	}

	location, err := time.LoadLocation(v.GetString("deadline.timezone"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid deadline timezone: %w", err)
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		BaseAPI:          strings.TrimRight(strings.TrimSpace(v.GetString("base_api")), "/"),
		CookieName:       v.GetString("cookie.name"),
		JWTSecret:        v.GetString("jwt.secret"),
		RedisURL:         v.GetString("redis.url"),
		NATSURL:          v.GetString("nats.url"),
		CacheTTL:         ttl,
		CacheChannel:     v.GetString("cache.channel"),
		DeadlineLocation: location,
		AuthRateLimit:    v.GetInt("auth.rate_limit"),
		AuthRateWindow:   window,
	}

	if cfg.BaseAPI == "" {
		return Config{}, fmt.Errorf("base api url must be provided")
	}

	if _, err := url.ParseRequestURI(cfg.BaseAPI); err != nil {
		return Config{}, fmt.Errorf("invalid base api url: %w", err)
	}

	if cfg.CookieName == "" {
		cfg.CookieName = "accessToken"
	}

	if cfg.AuthRateLimit <= 0 {
		cfg.AuthRateLimit = 10
	}

	return cfg, nil
}
