package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Defaults applied when neither the environment nor a config file
// provides a value.
const (
	defaultPort                        = 8080
	defaultLogLevel                    = "info"
	defaultTokenLifetimeMinutes        = 60
	defaultRefreshTokenLifetimeMinutes = 7 * 24 * 60
	defaultStatsTimeoutSeconds         = 10
	defaultLeetCodeBaseURL             = "https://leetcode-api-faisalshohag.vercel.app"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over file values and use the STUDYFLOW_ prefix with
// underscores for nesting (e.g. STUDYFLOW_DATABASE_URL).
// Returns a validated Config or an error describing what is missing.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", defaultPort)
	v.SetDefault("server.log_level", defaultLogLevel)
	v.SetDefault("auth.token_lifetime_minutes", defaultTokenLifetimeMinutes)
	v.SetDefault("auth.refresh_token_lifetime_minutes", defaultRefreshTokenLifetimeMinutes)
	v.SetDefault("stats.timeout_seconds", defaultStatsTimeoutSeconds)
	v.SetDefault("stats.leetcode_base_url", defaultLeetCodeBaseURL)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; the environment can carry everything.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("STUDYFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
