package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultSessionDBPath   = "logdash-sessions.db"
	defaultUpstreamTimeout = 60 * time.Second
	defaultPlatform        = "XVA"
	defaultEnv             = "dev"
)

// Config holds the runtime configuration loaded from the environment.
type Config struct {
	UpstreamBaseURL  string
	UpstreamTimeout  time.Duration
	HTTPAddr         string
	MetricsAddr      string
	SessionDBPath    string
	AuthCookieSecure bool
	DefaultPlatform  string
	DefaultEnv       string
}

type LoadOptions struct {
	RequireUpstreamBaseURL bool
}

func Load() (Config, error) {
	return LoadWithOptions(LoadOptions{RequireUpstreamBaseURL: true})
}

func LoadWithOptions(opts LoadOptions) (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, err
		}
	}

	cfg := Config{
		UpstreamBaseURL:  strings.TrimRight(strings.TrimSpace(os.Getenv("UPSTREAM_BASE_URL")), "/"),
		UpstreamTimeout:  defaultUpstreamTimeout,
		HTTPAddr:         getenvDefault("HTTP_ADDR", defaultHTTPAddr),
		MetricsAddr:      os.Getenv("METRICS_ADDR"),
		SessionDBPath:    getenvDefault("SESSION_DB_PATH", defaultSessionDBPath),
		AuthCookieSecure: getenvBoolDefault("AUTH_COOKIE_SECURE", false),
		DefaultPlatform:  getenvDefault("DEFAULT_PLATFORM", defaultPlatform),
		DefaultEnv:       getenvDefault("DEFAULT_ENV", defaultEnv),
	}

	if v := os.Getenv("UPSTREAM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.UpstreamTimeout = d
		}
	}

	if opts.RequireUpstreamBaseURL && cfg.UpstreamBaseURL == "" {
		return cfg, errors.New("UPSTREAM_BASE_URL is required")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBoolDefault(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	switch v {
	case "1":
		return true
	case "0":
		return false
	default:
		return def
	}
}
