package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, int64(16<<20), cfg.MaxContentLength)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("UPLOAD_FOLDER", "/tmp/lesions")
	t.Setenv("MAX_CONTENT_LENGTH", "1048576")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/tmp/lesions", cfg.UploadDir)
	assert.Equal(t, int64(1<<20), cfg.MaxContentLength)
}

func TestInvalidEnvValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := &Config{Port: -1, UploadDir: "uploads", MaxContentLength: 1}
	assert.Error(t, cfg.Validate())
}

func TestExtAllowed(t *testing.T) {
	cfg := &Config{AllowedExts: []string{"png", "jpg", "jpeg", "gif", "webp"}}

	assert.True(t, cfg.ExtAllowed("jpg"))
	assert.True(t, cfg.ExtAllowed(".JPG"))
	assert.True(t, cfg.ExtAllowed("webp"))
	assert.False(t, cfg.ExtAllowed("exe"))
	assert.False(t, cfg.ExtAllowed(""))
}
