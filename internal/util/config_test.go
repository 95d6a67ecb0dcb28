package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewServerConfig_Defaults(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", "")
	t.Setenv("READ_TIMEOUT", "not-a-duration")
	t.Setenv("WRITE_TIMEOUT", "3s")

	cfg := NewServerConfig()
	assert.Equal(t, defaultServerAddr, cfg.ServerAddr)
	assert.Equal(t, defaultReadTimeout, cfg.ReadTimeout)
	assert.Equal(t, 3*time.Second, cfg.WriteTimeout)
}

func TestNewTokenConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "30")

	cfg := NewTokenConfig()
	assert.Equal(t, []byte("s3cret"), cfg.JwtSecretKey)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.RefreshTTL)
}

func TestNewSecurityConfig(t *testing.T) {
	t.Setenv("BCRYPT_COST", "-3")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := NewSecurityConfig()
	assert.Equal(t, defaultBcryptCost, cfg.BcryptCost)
	assert.True(t, cfg.CookieSecure)
}

func TestGetStorageDriver(t *testing.T) {
	for value, want := range map[string]string{
		"":         StorageDriverPostgres,
		"memory":   StorageDriverMemory,
		"postgres": StorageDriverPostgres,
		"mongo":    StorageDriverPostgres,
	} {
		t.Setenv("STORAGE_DRIVER", value)
		assert.Equal(t, want, GetStorageDriver(), "STORAGE_DRIVER=%q", value)
	}
}
