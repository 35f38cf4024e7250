package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 100, cfg.DealAttempts)
	assert.False(t, cfg.AllowDebug)
	assert.Empty(t, cfg.Origins())
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("WRITE_TIMEOUT", "250ms")
	t.Setenv("ALLOW_DEBUG", "true")
	t.Setenv("ORIGIN_PATTERNS", "localhost:*, example.com")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, 250*time.Millisecond, cfg.WriteTimeout)
	assert.True(t, cfg.AllowDebug)
	assert.Equal(t, []string{"localhost:*", "example.com"}, cfg.Origins())
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=from-file\nDEAL_ATTEMPTS=7\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("DEAL_ATTEMPTS")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 7, cfg.DealAttempts)
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestLoadRejectsBadDealAttempts(t *testing.T) {
	t.Setenv("DEAL_ATTEMPTS", "0")
	_, err := Load("")
	assert.Error(t, err)
}
