package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:       AppConfig{Environment: "development"},
		Logger:    LoggerConfig{Level: "info"},
		Storage:   StorageConfig{DataPath: "/data", DBFile: "journal.db"},
		Server:    ServerConfig{Host: "127.0.0.1", Port: "8787"},
		RateLimit: RateLimitConfig{RequestsPerSecond: 20, Burst: 40},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown environment", func(c *Config) { c.App.Environment = "test" }},
		{"environment is case sensitive", func(c *Config) { c.App.Environment = "DEVELOPMENT" }},
		{"unknown log level", func(c *Config) { c.Logger.Level = "verbose" }},
		{"empty data path", func(c *Config) { c.Storage.DataPath = "" }},
		{"db file with directory", func(c *Config) { c.Storage.DBFile = "nested/journal.db" }},
		{"non-numeric port", func(c *Config) { c.Server.Port = "http" }},
		{"zero port", func(c *Config) { c.Server.Port = "0" }},
		{"zero rate", func(c *Config) { c.RateLimit.RequestsPerSecond = 0 }},
		{"zero burst", func(c *Config) { c.RateLimit.Burst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"ENV", "LOG_LEVEL", "DATA_PATH", "DB_FILE", "SERVER_PORT", "EXPORT_PATH", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load([]string{"-env-file", filepath.Join(home, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, filepath.Join(home, "CupNotes", "data"), cfg.Storage.DataPath)
	assert.Equal(t, filepath.Join(home, "CupNotes", "data", "journal.db"), cfg.Storage.DatabasePath())
	assert.Equal(t, filepath.Join(home, "CupNotes", "data", "exports"), cfg.Export.Path)
	assert.Equal(t, "127.0.0.1:8787", cfg.Server.Addr())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 20.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 40, cfg.RateLimit.Burst)
	assert.Empty(t, cfg.Server.CORSOrigins)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"# local overrides\nSERVER_PORT=9000\nLOG_LEVEL=\"debug\"\nCORS_ORIGINS=http://a.test, http://b.test\n"), 0o600))

	t.Setenv("DATA_PATH", dir)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := Load([]string{"-env-file", envFile, "-port", "9100"})
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port, "flag wins over .env")
	assert.Equal(t, "warn", cfg.Logger.Level, "environment wins over .env")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, dir, cfg.Storage.DataPath)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())
	_, err := Load([]string{"-env-file", "", "-read-timeout", "soon"})
	assert.ErrorContains(t, err, "server_read_timeout")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/journal", "/unused")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "journal"), got)

	got, err = expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)

	got, err = expandPath("relative/dir", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestLoadEnvFile_InvalidLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOT_A_PAIR\n"), 0o600))

	assert.ErrorContains(t, loadEnvFile(path), "line 1")
}
