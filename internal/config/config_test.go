package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"ADDR", "DB_DRIVER", "DB_URL", "JWT_SECRET", "TOKEN_TTL",
		"ALLOW_GLOBAL_ITEMS", "SEED_CSV", "TRUSTED_PROXIES", "ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.AllowGlobalItems)
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, `
addr: ":8080"
db_driver: postgres
db_url: postgres://from-yaml
token_ttl: 24h
allow_global_items: false
mets:
  Rowing: 7.5
trusted_proxies: ["10.0.0.1"]
allowed_origins: ["https://app.example.com"]
`)
	t.Setenv("DB_URL", "postgres://from-env")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "postgres://from-env", cfg.DBURL, "env wins over yaml")
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.AllowGlobalItems)
	assert.Equal(t, map[string]float64{"Rowing": 7.5}, cfg.METs)
	assert.Equal(t, []string{"10.0.0.1"}, cfg.TrustedProxies)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_EnvParsing(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOW_GLOBAL_ITEMS", "false")
	t.Setenv("DB_DRIVER", "SQLITE")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.AllowGlobalItems)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)

	t.Setenv("TOKEN_TTL", "soon")
	_, err = Load("")
	assert.ErrorContains(t, err, "TOKEN_TTL")
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, `unknown db_driver "mysql"`},
		{"postgres without url", func(c *Config) { c.DBDriver = "postgres"; c.DBURL = "" }, "db_url is required"},
		{"zero ttl", func(c *Config) { c.TokenTTL = 0 }, "token_ttl"},
		{"bad met", func(c *Config) { c.METs = map[string]float64{"Yoga": 0} }, "mets.Yoga"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
	assert.NoError(t, Default().Validate())
}
