// Package config loads server and CLI settings from an optional .env file,
// an optional YAML file and the process environment, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"lg/weight-tracker-api/internal/store"
)

// Config holds all runtime settings.
type Config struct {
	Addr             string             `yaml:"addr"`
	DBDriver         string             `yaml:"db_driver"`
	DBURL            string             `yaml:"db_url"`
	JWTSecret        string             `yaml:"jwt_secret"`
	TokenTTL         time.Duration      `yaml:"token_ttl"`
	AllowGlobalItems bool               `yaml:"allow_global_items"`
	SeedCSV          string             `yaml:"seed_csv"`
	METs             map[string]float64 `yaml:"mets"`
	TrustedProxies   []string           `yaml:"trusted_proxies"`
	// AllowedOrigins lists browser origins (scheme://host[:port]) besides the
	// server's own host that may open the websocket feed.
	AllowedOrigins   []string           `yaml:"allowed_origins"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Addr:             "localhost:3000",
		DBDriver:         store.DriverSQLite,
		DBURL:            "weight_tracker.db",
		TokenTTL:         72 * time.Hour,
		AllowGlobalItems: true,
	}
}

// ConfigPath returns the YAML file named by CONFIG_FILE, or "" when unset.
func ConfigPath() string {
	return os.Getenv("CONFIG_FILE")
}

// Load builds a Config. A missing .env is ignored; a named YAML file that
// cannot be read is an error. An empty path skips the YAML layer.
func Load(path string) (Config, error) {
	// .env is optional (production sets real env vars).
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		cfg.DBDriver = strings.ToLower(v)
	}
	if v := os.Getenv("DB_URL"); v != "" {
		cfg.DBURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = d
	}
	if v := os.Getenv("ALLOW_GLOBAL_ITEMS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ALLOW_GLOBAL_ITEMS: %w", err)
		}
		cfg.AllowGlobalItems = b
	}
	if v := os.Getenv("SEED_CSV"); v != "" {
		cfg.SeedCSV = v
	}
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		cfg.TrustedProxies = strings.Split(v, ",")
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = strings.Split(v, ",")
	}
	return nil
}

// Validate checks the settings every entry point needs. The JWT secret is
// checked separately by the server since the CLI doesn't issue tokens.
func (c Config) Validate() error {
	switch c.DBDriver {
	case store.DriverPostgres:
		if c.DBURL == "" {
			return errors.New("db_url is required for postgres")
		}
	case store.DriverSQLite:
		if c.DBURL == "" {
			return errors.New("db_url is required for sqlite")
		}
	default:
		return fmt.Errorf("unknown db_driver %q", c.DBDriver)
	}
	if c.TokenTTL <= 0 {
		return errors.New("token_ttl must be positive")
	}
	for kind, met := range c.METs {
		if met <= 0 {
			return fmt.Errorf("mets.%s must be positive", kind)
		}
	}
	return nil
}
