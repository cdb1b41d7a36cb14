package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("UPLOAD_DIR", "")
	t.Setenv("MAX_UPLOAD_MB", "")
	t.Setenv("PREVIEW_ROWS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "uploads/datasets", cfg.Uploads.Dir)
	assert.Equal(t, 50, cfg.Uploads.MaxUploadMB)
	assert.Equal(t, 5, cfg.Uploads.PreviewRows)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("UPLOAD_DIR", "/tmp/uploads")
	t.Setenv("MAX_UPLOAD_MB", "10")
	t.Setenv("PREVIEW_ROWS", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/tmp/uploads", cfg.Uploads.Dir)
	assert.Equal(t, 10, cfg.Uploads.MaxUploadMB)
	assert.Equal(t, 8, cfg.Uploads.PreviewRows)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "-1")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadIgnoresUnparsableIntegers(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "lots")
	t.Setenv("PREVIEW_ROWS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Uploads.MaxUploadMB)
}
