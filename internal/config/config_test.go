package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongSecret = "a-production-secret-of-at-least-32-chars"

func load(t *testing.T, envs map[string]string) (*Config, error) {
	t.Helper()
	return LoadWithOptions(env.Options{Environment: envs})
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t, map[string]string{})
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 24*time.Hour, cfg.JWTAccessExpiry)
	assert.Equal(t, 168*time.Hour, cfg.JWTRefreshExpiry)
	assert.Equal(t, "moneymentor", cfg.JWTIssuer)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 5, cfg.LockoutMaxAttempts)
	assert.Equal(t, 30*time.Minute, cfg.LockoutDuration)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, DefaultJWTSecret, cfg.JWTSecret)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("AUTH_HTTP_PORT", "9191")
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRY", "15m")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("LOCKOUT_MAX_ATTEMPTS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.HTTPPort)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 3, cfg.LockoutMaxAttempts)
}

func TestLoad_Production_RejectsDefaultSecret(t *testing.T) {
	cfg, err := load(t, map[string]string{"ENVIRONMENT": "production"})

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET must be explicitly set")
}

func TestLoad_Staging_RejectsShortSecret(t *testing.T) {
	cfg, err := load(t, map[string]string{
		"ENVIRONMENT": "staging",
		"JWT_SECRET":  "too-short",
	})

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 characters")
}

func TestLoad_Production_AcceptsStrongSecret(t *testing.T) {
	cfg, err := load(t, map[string]string{
		"ENVIRONMENT": "production",
		"JWT_SECRET":  strongSecret,
	})

	require.NoError(t, err)
	assert.False(t, cfg.IsDevelopment())
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name string
		envs map[string]string
		want string
	}{
		{"port out of range", map[string]string{"AUTH_HTTP_PORT": "70000"}, "invalid HTTP port"},
		{"refresh shorter than access", map[string]string{"JWT_ACCESS_TOKEN_EXPIRY": "2h", "JWT_REFRESH_TOKEN_EXPIRY": "1h"}, "must not be shorter"},
		{"zero expiry", map[string]string{"JWT_ACCESS_TOKEN_EXPIRY": "0s"}, "must be positive"},
		{"no lockout attempts", map[string]string{"LOCKOUT_MAX_ATTEMPTS": "0"}, "LOCKOUT_MAX_ATTEMPTS"},
		{"zero lockout duration", map[string]string{"LOCKOUT_DURATION": "0s"}, "LOCKOUT_DURATION"},
		{"sample rate", map[string]string{"OTEL_SAMPLE_RATE": "1.5"}, "OTEL_SAMPLE_RATE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, tt.envs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	_, err := load(t, map[string]string{"LOCKOUT_DURATION": "half an hour"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestSettingsForCollaborators(t *testing.T) {
	cfg, err := load(t, map[string]string{
		"POSTGRES_HOST":    "db",
		"AUTH_DB_NAME":     "auth",
		"DB_MAX_CONNS":     "10",
		"REDIS_HOST":       "cache",
		"REDIS_DB":         "2",
		"OTEL_ENABLED":     "true",
		"OTEL_SAMPLE_RATE": "0.25",
	})
	require.NoError(t, err)

	pg := cfg.Postgres()
	assert.Equal(t, "db", pg.Host)
	assert.Equal(t, "auth", pg.DBName)
	assert.Equal(t, int32(10), pg.MaxConns)

	rc := cfg.Redis()
	assert.Equal(t, "cache:6379", rc.Addr())
	assert.Equal(t, 2, rc.DB)

	tc := cfg.Tracing("1.0.0")
	assert.True(t, tc.Enabled)
	assert.Equal(t, "auth-service", tc.ServiceName)
	assert.Equal(t, "1.0.0", tc.ServiceVersion)
	assert.InDelta(t, 0.25, tc.SampleRate, 1e-9)
}
