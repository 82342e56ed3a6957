// Package config loads importer configuration from built-in defaults, an
// optional YAML file and environment variables. All variables use the
// PRATICO_ prefix; environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all importer configuration.
type Config struct {
	API         APIConfig      `yaml:"api"`
	DataDir     string         `yaml:"data_dir"`
	DryRun      bool           `yaml:"dry_run"`
	SkipInvalid bool           `yaml:"skip_invalid"`
	Report      ReportConfig   `yaml:"report"`
	Database    DatabaseConfig `yaml:"database"`
	Cache       CacheConfig    `yaml:"cache"`
	Metrics     MetricsConfig  `yaml:"metrics"`
	Log         LogConfig      `yaml:"log"`
}

// APIConfig holds question bank API settings.
type APIConfig struct {
	URL            string `yaml:"url"`
	Email          string `yaml:"email"`
	Password       string `yaml:"password"`
	AdminName      string `yaml:"admin_name"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ReportConfig holds report output settings.
type ReportConfig struct {
	XLSXPath string `yaml:"xlsx_path"`
}

// DatabaseConfig holds the PostgreSQL run journal settings. An empty URL
// disables the journal.
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// CacheConfig holds the Redis run journal settings. An empty URL disables it.
type CacheConfig struct {
	URL      string `yaml:"url"`
	TTLHours int    `yaml:"ttl_hours"`
}

// MetricsConfig holds Prometheus Pushgateway settings.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url"`
	Job            string `yaml:"job"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		API: APIConfig{
			URL:            "http://localhost:8080/api/v1",
			Email:          "admin@pratico.com",
			Password:       "Admin@123",
			AdminName:      "Administrador",
			TimeoutSeconds: 60,
		},
		DataDir: "/Pratico_2025/dadosJson",
		Database: DatabaseConfig{
			MaxConns: 4,
			MinConns: 1,
		},
		Cache: CacheConfig{
			TTLHours: 168,
		},
		Metrics: MetricsConfig{
			Job: "question_import",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the file named by PRATICO_CONFIG, if any,
// and then from environment variables.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("PRATICO_CONFIG"))
}

// LoadFile reads configuration from a YAML file, if path is non-empty, and
// then from environment variables.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadDotEnv loads variables from a .env file without overriding ones that
// are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.API.URL = envStr("PRATICO_API_URL", c.API.URL)
	c.API.Email = envStr("PRATICO_API_EMAIL", c.API.Email)
	c.API.Password = envStr("PRATICO_API_PASSWORD", c.API.Password)
	c.API.AdminName = envStr("PRATICO_API_ADMIN_NAME", c.API.AdminName)
	c.API.TimeoutSeconds = envInt("PRATICO_API_TIMEOUT_SECONDS", c.API.TimeoutSeconds)
	c.DataDir = envStr("PRATICO_DATA_DIR", c.DataDir)
	c.DryRun = envBool("PRATICO_DRY_RUN", c.DryRun)
	c.SkipInvalid = envBool("PRATICO_SKIP_INVALID", c.SkipInvalid)
	c.Report.XLSXPath = envStr("PRATICO_REPORT_XLSX", c.Report.XLSXPath)
	c.Database.URL = envStr("PRATICO_DATABASE_URL", c.Database.URL)
	c.Database.MaxConns = envInt("PRATICO_DATABASE_MAX_CONNS", c.Database.MaxConns)
	c.Database.MinConns = envInt("PRATICO_DATABASE_MIN_CONNS", c.Database.MinConns)
	c.Cache.URL = envStr("PRATICO_CACHE_URL", c.Cache.URL)
	c.Cache.TTLHours = envInt("PRATICO_CACHE_TTL_HOURS", c.Cache.TTLHours)
	c.Metrics.PushgatewayURL = envStr("PRATICO_METRICS_PUSHGATEWAY_URL", c.Metrics.PushgatewayURL)
	c.Metrics.Job = envStr("PRATICO_METRICS_JOB", c.Metrics.Job)
	c.Log.Level = envStr("PRATICO_LOG_LEVEL", c.Log.Level)
	c.Log.Format = envStr("PRATICO_LOG_FORMAT", c.Log.Format)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if !c.DryRun {
		if c.API.URL == "" {
			return fmt.Errorf("PRATICO_API_URL is required")
		}
		u, err := url.Parse(c.API.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("PRATICO_API_URL must be an http(s) URL, got %q", c.API.URL)
		}
		if c.API.Email == "" {
			return fmt.Errorf("PRATICO_API_EMAIL is required")
		}
	}

	if c.DataDir == "" {
		return fmt.Errorf("PRATICO_DATA_DIR is required")
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("PRATICO_LOG_FORMAT must be 'text' or 'json', got %q", c.Log.Format)
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("PRATICO_DATABASE_MIN_CONNS (%d) exceeds PRATICO_DATABASE_MAX_CONNS (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}

	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}
