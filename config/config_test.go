package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "hooked_db", cfg.Mongo.Database)
	assert.Equal(t, "cloudinary", cfg.Media.Backend)
	assert.Equal(t, 10, cfg.Auth.LoginRatePerMin)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9999")
	t.Setenv("MONGO_DB", "hooked_test")
	t.Setenv("MEDIA_BACKEND", "s3")
	t.Setenv("LOGIN_RATE_PER_MIN", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "hooked_test", cfg.Mongo.Database)
	assert.Equal(t, "s3", cfg.Media.Backend)
	assert.Equal(t, 3, cfg.Auth.LoginRatePerMin)
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("LOGIN_RATE_PER_MIN", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Auth.LoginRatePerMin)
}

func TestValidate(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s")
	t.Setenv("MEDIA_BACKEND", "ftp")
	_, err = Load()
	assert.ErrorContains(t, err, "MEDIA_BACKEND")
}
