package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresDSN(t *testing.T) {
	t.Setenv("MYSQL_DSN", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/demands?parseTime=true&multiStatements=true")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("S3_REGION", "")
	t.Setenv("UPLOAD_ALLOWED_EXTS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.True(t, cfg.Uploads.AllowedExts["pdf"])
	assert.False(t, cfg.Uploads.AllowedExts["exe"])
}

func TestLoad_CustomExtensions(t *testing.T) {
	t.Setenv("MYSQL_DSN", "dsn")
	t.Setenv("UPLOAD_ALLOWED_EXTS", "PDF, png ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Uploads.AllowedExts["pdf"])
	assert.True(t, cfg.Uploads.AllowedExts["png"])
	assert.Len(t, cfg.Uploads.AllowedExts, 2)
}
