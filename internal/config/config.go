package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// postgres (remote session store)
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	// redis (local exercise cache store, rate limiting)
	RedisHost      string `toml:"redis_host"`
	RedisPort      string `toml:"redis_port"`
	RedisKeyPrefix string `toml:"redis_key_prefix"`

	RequestsRateLimitPerMin int      `toml:"requests_rate_limit_per_min"`
	AllowedOrigins          []string `toml:"allowed_origins"`

	// exercise history cache
	CacheRetention         Duration `toml:"cache_retention"`
	CacheRebuildWindow     int      `toml:"cache_rebuild_window"`
	CacheRebuildPageSize   int      `toml:"cache_rebuild_page_size"`
	CacheVerifyWindow      int      `toml:"cache_verify_window"`
	CacheJanitorInterval   Duration `toml:"cache_janitor_interval"`
	ProgressFreshnessBytes int      `toml:"progress_freshness_bytes"`
	// ProgressTimezone is used to group chart points by calendar day
	ProgressTimezone string `toml:"progress_timezone"`
}

// Duration is a time.Duration decoded from TOML strings like "168h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}

	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env.
func Load(env, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}
	return tomlConfig.Get(env)
}

// Location resolves ProgressTimezone, defaulting to the local timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.ProgressTimezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.ProgressTimezone)
}
