package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, time.Hour, cfg.AccessTTL)
	require.NoError(t, cfg.Validate())
}

func TestSecretsAreNeverDefaulted(t *testing.T) {
	for _, env := range []string{"", "development", "production"} {
		t.Run("env="+env, func(t *testing.T) {
			t.Setenv("APP_ENV", env)
			t.Setenv("JWT_ACCESS_SECRET", "")
			t.Setenv("JWT_REFRESH_SECRET", "")

			cfg := Load()
			assert.Empty(t, cfg.JWTAccessSecret)
			assert.Empty(t, cfg.JWTRefreshSecret)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "JWT_ACCESS_SECRET")
			assert.Contains(t, err.Error(), "JWT_REFRESH_SECRET")
		})
	}
}

func TestValidateRejectsUnknownDriverAndSharedSecret(t *testing.T) {
	cfg := &Config{StoreDriver: "mongo", JWTAccessSecret: "same", JWTRefreshSecret: "same"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
	assert.Contains(t, err.Error(), "must differ")
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "lots")
	t.Setenv("JWT_ACCESS_TTL", "soon")
	t.Setenv("COOKIE_SECURE", "maybe")

	cfg := Load()
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, time.Hour, cfg.AccessTTL)
	assert.False(t, cfg.CookieSecure)
}

func TestListsAreTrimmed(t *testing.T) {
	cfg := &Config{
		CORSAllowedOrigins: " http://a.test , ,http://b.test",
		ElasticsearchAddrs: "",
	}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
	assert.Empty(t, cfg.ESAddrs())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", cfg.PostgresDSN())
}
