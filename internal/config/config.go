package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// Config holds the dashboard server configuration
type Config struct {
	// Server configuration
	ServerHost      string
	ServerPort      string
	ShutdownTimeout time.Duration

	// Shipment backend
	BackendURL     string
	RequestTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Views
	MonthsBack  int
	RecentLimit int
	Timezone    string

	// How long tracking lookups are reused; 0 disables the cache
	TrackCacheTTL time.Duration

	// HTTP hardening
	CORSOrigin       string
	RateLimit        int
	DisableRateLimit bool

	// Optional built frontend served outside /api
	StaticDir string
}

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

// validate checks if the configuration is valid
func (c *Config) validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if port, err := strconv.Atoi(c.ServerPort); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port: %s", c.ServerPort)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}

	if err := validateBackendURL(c.BackendURL); err != nil {
		return err
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}

	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if !contains(validLogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log format: %s (must be one of: %s)", c.LogFormat, strings.Join(validLogFormats, ", "))
	}

	if c.MonthsBack < 1 || c.MonthsBack > 36 {
		return fmt.Errorf("months back must be between 1 and 36, got %d", c.MonthsBack)
	}
	if c.RecentLimit < 1 {
		return fmt.Errorf("recent limit must be positive, got %d", c.RecentLimit)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.TrackCacheTTL < 0 {
		return fmt.Errorf("track cache TTL cannot be negative")
	}

	if !c.DisableRateLimit && c.RateLimit < 1 {
		return fmt.Errorf("rate limit must be positive, got %d", c.RateLimit)
	}

	if c.StaticDir != "" {
		info, err := os.Stat(c.StaticDir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("static dir %s is not a directory", c.StaticDir)
		}
	}

	return nil
}

// MutationRateLimit is the per-minute limit for order mutations, 0 when
// limiting is disabled.
func (c *Config) MutationRateLimit() int {
	if c.DisableRateLimit {
		return 0
	}
	return c.RateLimit
}

// Address returns the server address in host:port format
func (c *Config) Address() string {
	return c.ServerHost + ":" + c.ServerPort
}

// Location resolves the configured time zone. An empty value or "Local"
// means the host's zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func validateBackendURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("backend URL cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend URL: %s", raw)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
