package config_test

import (
	"testing"
	"time"

	"github.com/Amund211/dupr/internal/config"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, variable := range []string{"DUPR_API_KEY", "DUPR_ENVIRONMENT", "DUPR_BASE_URL"} {
		t.Setenv(variable, "")
	}
}

func TestResolve(t *testing.T) {
	t.Run("api key is required", func(t *testing.T) {
		clearEnv(t)

		_, err := config.Resolve(config.Options{})
		require.ErrorIs(t, err, config.ErrMissingRequiredValue)
	})

	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)

		conf, err := config.Resolve(config.Options{APIKey: "key"})
		require.NoError(t, err)
		require.Equal(t, "key", conf.APIKey())
		require.Equal(t, config.Production, conf.Environment())
		require.Equal(t, "https://api.dupr.gg", conf.BaseURL())
		require.Equal(t, 30*time.Second, conf.Timeout())
	})

	t.Run("api key from environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DUPR_API_KEY", "env-key")

		conf, err := config.Resolve(config.Options{})
		require.NoError(t, err)
		require.Equal(t, "env-key", conf.APIKey())

		conf, err = config.Resolve(config.Options{APIKey: "explicit-key"})
		require.NoError(t, err)
		require.Equal(t, "explicit-key", conf.APIKey())
	})

	t.Run("presets", func(t *testing.T) {
		clearEnv(t)

		for env, baseURL := range map[config.Environment]string{
			config.Production: "https://api.dupr.gg",
			config.Staging:    "https://api.uat.dupr.gg",
			config.Local:      "http://localhost:3000",
		} {
			t.Run(string(env), func(t *testing.T) {
				conf, err := config.Resolve(config.Options{APIKey: "key", Environment: env})
				require.NoError(t, err)
				require.Equal(t, env, conf.Environment())
				require.Equal(t, baseURL, conf.BaseURL())
			})
		}
	})

	t.Run("environment fallback selects the preset", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DUPR_ENVIRONMENT", "staging")

		conf, err := config.Resolve(config.Options{APIKey: "key"})
		require.NoError(t, err)
		require.Equal(t, config.Staging, conf.Environment())
		require.Equal(t, "https://api.uat.dupr.gg", conf.BaseURL())

		conf, err = config.Resolve(config.Options{APIKey: "key", Environment: config.Local})
		require.NoError(t, err)
		require.Equal(t, config.Local, conf.Environment())
	})

	t.Run("explicit base url wins", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DUPR_BASE_URL", "https://env.example.com")

		conf, err := config.Resolve(config.Options{APIKey: "key", Environment: config.Staging})
		require.NoError(t, err)
		require.Equal(t, "https://env.example.com", conf.BaseURL())

		conf, err = config.Resolve(config.Options{APIKey: "key", Environment: config.Staging, BaseURL: "https://explicit.example.com"})
		require.NoError(t, err)
		require.Equal(t, "https://explicit.example.com", conf.BaseURL())
	})

	t.Run("invalid environment", func(t *testing.T) {
		for _, env := range []string{"invalid", "development", "PRODUCTION"} {
			t.Run(env, func(t *testing.T) {
				clearEnv(t)

				_, err := config.Resolve(config.Options{APIKey: "key", Environment: config.Environment(env)})
				require.ErrorIs(t, err, config.ErrInvalidValue)

				t.Setenv("DUPR_ENVIRONMENT", env)
				_, err = config.Resolve(config.Options{APIKey: "key"})
				require.ErrorIs(t, err, config.ErrInvalidValue)
			})
		}
	})

	t.Run("timeout", func(t *testing.T) {
		clearEnv(t)

		conf, err := config.Resolve(config.Options{APIKey: "key", Timeout: 5 * time.Second})
		require.NoError(t, err)
		require.Equal(t, 5*time.Second, conf.Timeout())

		_, err = config.Resolve(config.Options{APIKey: "key", Timeout: -time.Second})
		require.ErrorIs(t, err, config.ErrInvalidValue)
	})

	t.Run("non sensitive string", func(t *testing.T) {
		clearEnv(t)

		conf, err := config.Resolve(config.Options{APIKey: "super-secret"})
		require.NoError(t, err)
		require.NotContains(t, conf.NonSensitiveString(), "super-secret")
	})
}
