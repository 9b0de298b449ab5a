// Package config loads service configuration from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Redis  RedisConfig  `yaml:"redis"`
	Log    LogConfig    `yaml:"log"`
	Limits LimitsConfig `yaml:"limits"`
	Alerts AlertsConfig `yaml:"alerts"`
}

type ServerConfig struct {
	Port              string   `yaml:"port"`
	AllowOrigins      []string `yaml:"allow_origins"`
	ReadHeaderTimeout Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   Duration `yaml:"shutdown_timeout"`
}

type DBConfig struct {
	URL     string `yaml:"url"`
	Migrate bool   `yaml:"migrate"`
	Seed    bool   `yaml:"seed"`
}

type RedisConfig struct {
	URL      string   `yaml:"url"`
	CacheTTL Duration `yaml:"cache_ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

type LimitsConfig struct {
	RPS   float64 `yaml:"rps"` // 0 disables rate limiting
	Burst int     `yaml:"burst"`
}

type AlertsConfig struct {
	Enabled            bool   `yaml:"enabled"`
	WebhookURL         string `yaml:"webhook_url"`
	WebhookSecret      string `yaml:"webhook_secret"`
	WebhookMaxAttempts int    `yaml:"webhook_max_attempts"`
}

// Duration wraps time.Duration so YAML can carry values like "5s".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	v, err := time.ParseDuration(n.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", n.Value, err)
	}
	d.Duration = v
	return nil
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:              "8080",
			AllowOrigins:      []string{"*"},
			ReadHeaderTimeout: Duration{5 * time.Second},
			ShutdownTimeout:   Duration{10 * time.Second},
		},
		DB:     DBConfig{Migrate: true, Seed: true},
		Redis:  RedisConfig{CacheTTL: Duration{10 * time.Minute}},
		Log:    LogConfig{Level: "info", Format: "json"},
		Limits: LimitsConfig{RPS: 0, Burst: 20},
		Alerts: AlertsConfig{Enabled: true, WebhookMaxAttempts: 10},
	}
}

// Load reads <dir>/base.yaml, overlays <dir>/<env>.yaml when present, then
// applies environment overrides. A missing base file is not an error.
func Load(dir, env string) (Config, error) {
	cfg := Default()
	if dir == "" {
		dir = "config"
	}
	if err := loadYAMLFile(filepath.Join(dir, "base.yaml"), &cfg); err != nil {
		return cfg, err
	}
	if env != "" && env != "base" {
		if err := loadYAMLFile(filepath.Join(dir, env+".yaml"), &cfg); err != nil {
			return cfg, err
		}
	}
	OverrideFromEnv(&cfg)
	return cfg, nil
}

// loadYAMLFile decodes path over cfg; fields absent from the file keep their values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// OverrideFromEnv applies the environment variables the service has always honoured.
func OverrideFromEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("ALLOW_ORIGINS"); v != "" {
		cfg.Server.AllowOrigins = splitList(v)
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DB.URL = v
	}
	if v := os.Getenv("DB_MIGRATE"); v != "" {
		cfg.DB.Migrate = v != "false"
	}
	if v := os.Getenv("DB_SEED"); v != "" {
		cfg.DB.Seed = v != "false"
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Redis.CacheTTL = Duration{d}
		}
	}
	if v := os.Getenv("RATE_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.Limits.RPS = f
		}
	}
	if v := os.Getenv("RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Limits.Burst = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("ALERTS_ENABLED"); v != "" {
		cfg.Alerts.Enabled = v != "false"
	}
	if v := os.Getenv("ALERT_WEBHOOK_URL"); v != "" {
		cfg.Alerts.WebhookURL = v
	}
	if v := os.Getenv("ALERT_WEBHOOK_SECRET"); v != "" {
		cfg.Alerts.WebhookSecret = v
	}
	if v := os.Getenv("WEBHOOK_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Alerts.WebhookMaxAttempts = n
		}
	}
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetEnv returns the environment value for key or def when unset.
func GetEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
