package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/studyflow-api/internal/config"
)

// setRequiredEnv provides the minimum configuration Load needs.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STUDYFLOW_DATABASE_URL", "postgres://localhost:5432/studyflow_test")
	t.Setenv("STUDYFLOW_AUTH_JWT_SECRET", strings.Repeat("s", 32))
}

func TestLoad(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "info", cfg.Server.LogLevel)
		assert.Equal(t, 60, cfg.Auth.TokenLifetimeMinutes)
		assert.Equal(t, 7*24*60, cfg.Auth.RefreshTokenLifetimeMinutes)
		assert.Equal(t, 10, cfg.Stats.TimeoutSeconds)
		assert.NotEmpty(t, cfg.Stats.LeetCodeBaseURL)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("STUDYFLOW_SERVER_PORT", "9090")
		t.Setenv("STUDYFLOW_SERVER_LOG_LEVEL", "debug")
		t.Setenv("STUDYFLOW_AUTH_TOKEN_LIFETIME_MINUTES", "15")
		t.Setenv("STUDYFLOW_STATS_GITHUB_TOKEN", "ghp_testtoken")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Server.LogLevel)
		assert.Equal(t, 15, cfg.Auth.TokenLifetimeMinutes)
		assert.Equal(t, "ghp_testtoken", cfg.Stats.GitHubToken)
	})

	t.Run("missing database URL rejected", func(t *testing.T) {
		t.Setenv("STUDYFLOW_DATABASE_URL", "")
		t.Setenv("STUDYFLOW_AUTH_JWT_SECRET", strings.Repeat("s", 32))

		_, err := config.Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("short JWT secret rejected", func(t *testing.T) {
		t.Setenv("STUDYFLOW_DATABASE_URL", "postgres://localhost:5432/studyflow_test")
		t.Setenv("STUDYFLOW_AUTH_JWT_SECRET", "too-short")

		_, err := config.Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("invalid log level rejected", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("STUDYFLOW_SERVER_LOG_LEVEL", "verbose")

		_, err := config.Load()
		require.Error(t, err)
	})

	t.Run("bcrypt cost bounds enforced", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("STUDYFLOW_AUTH_BCRYPT_COST", "99")

		_, err := config.Load()
		require.Error(t, err)
	})
}
