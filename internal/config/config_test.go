package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("jwt_secret", "s3cret")

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, "user-service-user", cfg.Server.ServiceID)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowOrigins)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, uint64(100), cfg.MongoDB.PoolSize)
	assert.Equal(t, "http://localhost:3006", cfg.Blockchain.FallbackURL)
	assert.Equal(t, 10*time.Minute, cfg.Redis.UserTTL)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("jwt_secret", "s3cret")
	v.Set("cors_origins", "https://a.example, https://b.example ,")
	v.Set("token_expiry_hours", 2)
	v.Set("blockchain_adapter_url", "http://chain:3006/")
	v.Set("read_timeout", "3s")

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowOrigins)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, "http://chain:3006", cfg.Blockchain.FallbackURL)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PORT", "4100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "4100", cfg.Server.Port)
}

func TestValidateRequiresSecret(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	_, err := FromViper(v)
	assert.ErrorContains(t, err, "JWT_SECRET")
}
