package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "POSTGRES_DSN", "REDIS_URL", "IDEMPOTENCY_TTL_HOURS", "TEMPORAL_ADDRESS",
		"TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED", "ACTOR_JWT_SECRET", "SHELTER_TIMEZONE",
	} {
		t.Setenv(key, "")
	}
}

func TestConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := configFromEnv()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	require.Equal(t, client.DefaultHostPort, cfg.TemporalAddress)
	require.Equal(t, client.DefaultNamespace, cfg.TemporalNamespace)
	require.False(t, cfg.TemporalDisabled)
	require.Equal(t, time.UTC, cfg.Location)
	require.Empty(t, cfg.PostgresDSN)
	require.Empty(t, cfg.ActorJWTSecret)
}

func TestConfigOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("IDEMPOTENCY_TTL_HOURS", "6")
	t.Setenv("TEMPORAL_DISABLED", "true")
	t.Setenv("SHELTER_TIMEZONE", "America/Bogota")
	t.Setenv("ACTOR_JWT_SECRET", " s3cret ")

	cfg, err := configFromEnv()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Addr())
	require.Equal(t, 6*time.Hour, cfg.IdempotencyTTL)
	require.True(t, cfg.TemporalDisabled)
	require.Equal(t, "America/Bogota", cfg.Location.String())
	require.Equal(t, "s3cret", cfg.ActorJWTSecret)
}

func TestConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"port":     {"PORT", "http"},
		"ttl":      {"IDEMPOTENCY_TTL_HOURS", "-1"},
		"timezone": {"SHELTER_TIMEZONE", "Mars/Olympus"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := configFromEnv()
			require.Error(t, err)
			require.Contains(t, err.Error(), kv[0])
		})
	}
}
