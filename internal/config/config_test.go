package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
apiPort: 9090
database:
  type: postgres
  host: db.internal
  port: "5432"
  name: assetsync
  user: assetsync
  password: secret
auth:
  jwtSecret: file-secret
  accessTokenTTL: 10m
  refreshTokenTTL: 48h
  bcryptCost: 10
storage:
  enabled: true
  bucket: assetsync-photos
  region: eu-west-3
cors:
  allowedOrigins:
    - https://app.example.com
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.APIPort)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 10*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 48*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.True(t, cfg.Storage.Enabled)
	assert.Equal(t, "assetsync-photos", cfg.Storage.Bucket)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, `
auth:
  jwtSecret: test-secret
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.APIPort)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "/data/assetsync.db", cfg.Database.Path)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 10, cfg.Database.MaxConns)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, time.Hour, cfg.Auth.ResetTicketTTL)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, time.Hour, cfg.Auth.SweepInterval)
	assert.NotEmpty(t, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Storage.Enabled)
}

func TestLoadConfigMissingSecret(t *testing.T) {
	path := writeConfigFile(t, `
apiPort: 9090
`)

	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoadConfigSecretFromEnv(t *testing.T) {
	t.Setenv("ASSETSYNC_AUTH_JWTSECRET", "env-secret")

	// A missing config file is fine when the secret comes from the
	// environment.
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yml"))
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 8081, cfg.APIPort)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("ASSETSYNC_AUTH_JWTSECRET", "env-secret")
	t.Setenv("ASSETSYNC_DATABASE_TYPE", "postgres")
	t.Setenv("ASSETSYNC_DATABASE_HOST", "db.override")
	t.Setenv("ASSETSYNC_AUTH_ACCESSTOKENTTL", "5m")
	t.Setenv("ASSETSYNC_STORAGE_BUCKET", "env-bucket")

	// Env overrides win over file values.
	path := writeConfigFile(t, `
database:
  type: sqlite
auth:
  jwtSecret: file-secret
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "db.override", cfg.Database.Host)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, "env-bucket", cfg.Storage.Bucket)
}

func TestLoadConfigMissingFileMissingSecret(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yml"))
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}
