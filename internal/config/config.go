package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds every runtime setting of the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// HTTPConfig configures the listener and the static bundle.
type HTTPConfig struct {
	Addr            string        `yaml:"addr" env:"TASKGRID_ADDR" env-default:":8080"`
	StaticDir       string        `yaml:"static_dir" env:"TASKGRID_STATIC_DIR" env-default:"web/dist"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"TASKGRID_HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"TASKGRID_HTTP_WRITE_TIMEOUT" env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"TASKGRID_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// StorageConfig selects the database and the optional seed file.
type StorageConfig struct {
	// DBPath is a SQLite file, or ":memory:" for a session-only store.
	DBPath   string `yaml:"db_path" env:"TASKGRID_DB_PATH" env-default:":memory:"`
	SeedFile string `yaml:"seed_file" env:"TASKGRID_SEED_FILE"`
}

// LogConfig configures the slog handler and optional file rotation.
type LogConfig struct {
	Level  string `yaml:"level" env:"TASKGRID_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"TASKGRID_LOG_FORMAT" env-default:"text"`
	// File enables rotated file output next to stdout.
	File       string `yaml:"file" env:"TASKGRID_LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"TASKGRID_LOG_MAX_SIZE_MB" env-default:"100"`
	MaxBackups int    `yaml:"max_backups" env:"TASKGRID_LOG_MAX_BACKUPS" env-default:"3"`
	MaxAgeDays int    `yaml:"max_age_days" env:"TASKGRID_LOG_MAX_AGE_DAYS" env-default:"28"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" env:"TASKGRID_METRICS_ENABLED" env-default:"true"`
	Path      string `yaml:"path" env:"TASKGRID_METRICS_PATH" env-default:"/metrics"`
	Namespace string `yaml:"namespace" env:"TASKGRID_METRICS_NAMESPACE" env-default:"taskgrid"`
}

// Load reads the configuration from path (YAML) when given, otherwise from
// the environment only. Environment variables override file values.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http address must not be empty")
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("database path must not be empty")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be text or json, got %q", c.Log.Format)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics path must start with /, got %q", c.Metrics.Path)
	}
	return nil
}

// Usage describes the supported environment variables.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}
