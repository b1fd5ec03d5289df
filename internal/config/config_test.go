package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"port": 8080,
		"jwt_secret": "s",
		"admin_password_hash": "h",
		"database": {"host": "localhost", "db_name": "blog"},
		"file_store": {"type": "local", "dir": "/tmp/exports"}
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 24, cfg.JWTTTLHours)
	require.Equal(t, int64(100*1024*1024), cfg.MaxUploadSize)
	require.Empty(t, cfg.CORSAllowlist)
	require.Equal(t, "0 3 * * *", cfg.Export.CleanupCron)
	require.Equal(t, 72, cfg.Export.RetentionHours)
}

func TestLoadExplicitValues(t *testing.T) {
	path := writeConfig(t, `{
		"port": 8080,
		"jwt_secret": "s",
		"admin_password_hash": "h",
		"cors_allowlist": ["https://blog.example.com"],
		"max_upload_size": 1048576,
		"database": {"dsn": "postgres://u:p@h/db"},
		"file_store": {"type": "local", "dir": "/tmp/exports"}
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"https://blog.example.com"}, cfg.CORSAllowlist)
	require.Equal(t, int64(1048576), cfg.MaxUploadSize)
}

func TestLoadRejectsMissingRequired(t *testing.T) {
	path := writeConfig(t, `{"port": 8080}`)
	_, err := Load(path)
	require.Error(t, err)
}
