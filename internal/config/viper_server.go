package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the dashboard.
const EnvPrefix = "SHIPDASH"

// LoadServerConfigWithViper loads server configuration using Viper
func LoadServerConfigWithViper(v *viper.Viper) (*Config, error) {
	setServerDefaults(v)
	setupServerEnvBinding(v)

	if err := loadConfigFile(v, "config"); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	config := &Config{}
	if err := unmarshalServerConfig(v, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setServerDefaults sets default values for server configuration
func setServerDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("backend.url", "http://localhost:5000")
	v.SetDefault("backend.timeout", "15s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("views.months_back", 6)
	v.SetDefault("views.recent_limit", 10)
	v.SetDefault("views.timezone", "Local")
	v.SetDefault("views.track_cache_ttl", "30s")

	v.SetDefault("http.cors_origin", "*")
	v.SetDefault("rate_limit.requests_per_minute", 30)
	v.SetDefault("rate_limit.disabled", false)
	v.SetDefault("http.static_dir", "")
}

// setupServerEnvBinding binds SHIPDASH_* variables, plus a few unprefixed
// names commonly set by hosting platforms.
func setupServerEnvBinding(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	envBindings := map[string]string{
		"server.host":                    "SERVER_HOST",
		"server.port":                    "SERVER_PORT",
		"server.shutdown_timeout":        "SHUTDOWN_TIMEOUT",
		"backend.url":                    "BACKEND_URL",
		"backend.timeout":                "BACKEND_TIMEOUT",
		"logging.level":                  "LOG_LEVEL",
		"logging.format":                 "LOG_FORMAT",
		"views.months_back":              "MONTHS_BACK",
		"views.recent_limit":             "RECENT_LIMIT",
		"views.timezone":                 "TIMEZONE",
		"views.track_cache_ttl":          "TRACK_CACHE_TTL",
		"http.cors_origin":               "CORS_ORIGIN",
		"rate_limit.requests_per_minute": "RATE_LIMIT",
		"rate_limit.disabled":            "RATE_LIMIT_DISABLED",
		"http.static_dir":                "STATIC_DIR",
	}

	for configKey, envSuffix := range envBindings {
		v.BindEnv(configKey, EnvPrefix+"_"+envSuffix)
	}

	platformBindings := map[string]string{
		"server.port":   "PORT",
		"logging.level": "LOG_LEVEL",
	}
	for configKey, envVar := range platformBindings {
		v.BindEnv(configKey, EnvPrefix+"_"+envBindings[configKey], envVar)
	}
}

// loadConfigFile reads an optional configuration file named name from the
// usual search paths, unless a file was set explicitly.
func loadConfigFile(v *viper.Viper, name string) error {
	if v.ConfigFileUsed() == "" {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.shipdash")
		v.SetConfigName(name)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return nil
}

// unmarshalServerConfig maps Viper keys to Config fields
func unmarshalServerConfig(v *viper.Viper, config *Config) error {
	config.ServerHost = v.GetString("server.host")
	config.ServerPort = v.GetString("server.port")
	config.BackendURL = v.GetString("backend.url")
	config.LogLevel = v.GetString("logging.level")
	config.LogFormat = v.GetString("logging.format")
	config.MonthsBack = v.GetInt("views.months_back")
	config.RecentLimit = v.GetInt("views.recent_limit")
	config.Timezone = v.GetString("views.timezone")
	config.CORSOrigin = v.GetString("http.cors_origin")
	config.RateLimit = v.GetInt("rate_limit.requests_per_minute")
	config.DisableRateLimit = v.GetBool("rate_limit.disabled")
	config.StaticDir = v.GetString("http.static_dir")

	var err error
	config.ShutdownTimeout, err = time.ParseDuration(v.GetString("server.shutdown_timeout"))
	if err != nil {
		return fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	config.RequestTimeout, err = parseTimeout(v.GetString("backend.timeout"))
	if err != nil {
		return err
	}

	config.TrackCacheTTL, err = time.ParseDuration(v.GetString("views.track_cache_ttl"))
	if err != nil {
		return fmt.Errorf("invalid track cache TTL: %w", err)
	}

	return nil
}

// LoadServerConfig loads server configuration using a fresh Viper instance
func LoadServerConfig() (*Config, error) {
	return LoadServerConfigWithViper(viper.New())
}

// LoadServerConfigWithFile loads server configuration from a specific file
func LoadServerConfigWithFile(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	return LoadServerConfigWithViper(v)
}

// LoadServerConfigWithEnvFile loads an env file (".env" when empty) before
// reading the configuration. A missing default .env file is not an error.
func LoadServerConfigWithEnvFile(envFile string) (*Config, error) {
	if envFile != "" {
		if err := LoadEnvFile(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else if err := LoadEnvFile(".env"); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	return LoadServerConfigWithViper(viper.New())
}
