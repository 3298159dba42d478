package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/service"
	"github.com/aussiebroadwan/agentboard/pkg/pagination"
	"gopkg.in/yaml.v3"
)

// ConfigEnvVar names the YAML config file when --config is not given.
const ConfigEnvVar = "AGENTBOARD_CONFIG"

type Config struct {
	Issuer          string `yaml:"issuer"`            // Issuer expected in operator JWTs (default: agentboard)
	DatabaseURL     string `yaml:"database_url"`      // SQLite file path or postgres:// URL (default: ./agentboard.db)
	PepperFile      string `yaml:"pepper_file"`       // API key fingerprint pepper, generated if missing (default: ./pepper)
	OperatorKeyFile string `yaml:"operator_key_file"` // Ed25519 PEM for operator tokens, generated if missing (default: ./operator.pem)

	Env       string `yaml:"env"`        // dev, staging, prod (default: dev)
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error (default: info)
	LogFormat string `yaml:"log_format"` // json, text (default: json)

	Port                 int           `yaml:"port"`                  // default: 8080
	ShutdownGracePeriod  time.Duration `yaml:"shutdown_grace_period"` // default: 10s
	HousekeepingInterval time.Duration `yaml:"housekeeping_interval"` // default: 1h

	RotationLimit     int           `yaml:"rotation_limit"`     // rotations per agent per window (default: 3)
	RotationWindow    time.Duration `yaml:"rotation_window"`    // default: 1h
	RotationRetention time.Duration `yaml:"rotation_retention"` // expired keys and rotation history (default: 720h)

	CursorMaxAge    time.Duration `yaml:"cursor_max_age"`    // default: 5m
	DefaultPageSize int           `yaml:"default_page_size"` // default: 20
	MaxPageSize     int           `yaml:"max_page_size"`     // default: 100
}

// DefaultConfig is the configuration with nothing overridden.
func DefaultConfig() Config {
	return Config{
		Issuer:               "agentboard",
		DatabaseURL:          "agentboard.db",
		PepperFile:           "pepper",
		OperatorKeyFile:      "operator.pem",
		Env:                  "dev",
		LogLevel:             "info",
		LogFormat:            "json",
		Port:                 8080,
		ShutdownGracePeriod:  10 * time.Second,
		HousekeepingInterval: time.Hour,
		RotationLimit:        service.DefaultRotationLimit,
		RotationWindow:       service.DefaultRotationWindow,
		RotationRetention:    service.DefaultRetention,
		CursorMaxAge:         pagination.DefaultMaxAge,
		DefaultPageSize:      pagination.DefaultLimit,
		MaxPageSize:          pagination.MaxLimit,
	}
}

// LoadConfig layers defaults, the YAML file at path (or $AGENTBOARD_CONFIG)
// and environment variables, then validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv(ConfigEnvVar)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := decodeYAML(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeYAML rejects unknown keys so typos do not silently fall back to defaults.
func decodeYAML(raw []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Issuer = getEnvOrDefault("AGENTBOARD_ISSUER", cfg.Issuer)
	cfg.DatabaseURL = getEnvOrDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.PepperFile = getEnvOrDefault("AGENTBOARD_PEPPER_FILE", cfg.PepperFile)
	cfg.OperatorKeyFile = getEnvOrDefault("AGENTBOARD_OPERATOR_KEY_FILE", cfg.OperatorKeyFile)

	cfg.Env = getEnvOrDefault("ENV", cfg.Env)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", cfg.LogFormat)

	cfg.Port = getEnvIntOrDefault("PORT", cfg.Port)
	cfg.ShutdownGracePeriod = getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", cfg.ShutdownGracePeriod)
	cfg.HousekeepingInterval = getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", cfg.HousekeepingInterval)

	cfg.RotationLimit = getEnvIntOrDefault("AGENTBOARD_ROTATION_LIMIT", cfg.RotationLimit)
	cfg.RotationWindow = getEnvDurationOrDefault("AGENTBOARD_ROTATION_WINDOW", cfg.RotationWindow)
	cfg.RotationRetention = getEnvDurationOrDefault("AGENTBOARD_ROTATION_RETENTION", cfg.RotationRetention)

	cfg.CursorMaxAge = getEnvDurationOrDefault("AGENTBOARD_CURSOR_MAX_AGE", cfg.CursorMaxAge)
	cfg.DefaultPageSize = getEnvIntOrDefault("AGENTBOARD_DEFAULT_PAGE_SIZE", cfg.DefaultPageSize)
	cfg.MaxPageSize = getEnvIntOrDefault("AGENTBOARD_MAX_PAGE_SIZE", cfg.MaxPageSize)
}

// Validate reports every impossible value at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(strings.TrimSpace(c.Issuer) != "", "issuer must not be empty")
	check(strings.TrimSpace(c.DatabaseURL) != "", "database_url must not be empty")
	check(c.PepperFile != "", "pepper_file must not be empty")
	check(c.OperatorKeyFile != "", "operator_key_file must not be empty")
	check(c.LogFormat == "json" || c.LogFormat == "text", "log_format must be json or text, got %q", c.LogFormat)
	check(c.Port > 0 && c.Port <= 65535, "port must be between 1 and 65535, got %d", c.Port)
	check(c.ShutdownGracePeriod > 0, "shutdown_grace_period must be positive")
	check(c.HousekeepingInterval > 0, "housekeeping_interval must be positive")
	check(c.RotationLimit >= 1, "rotation_limit must be at least 1, got %d", c.RotationLimit)
	check(c.RotationWindow > 0, "rotation_window must be positive")
	check(c.RotationRetention > 0, "rotation_retention must be positive")
	check(c.CursorMaxAge > 0, "cursor_max_age must be positive")
	check(c.MaxPageSize >= 1, "max_page_size must be at least 1, got %d", c.MaxPageSize)
	check(c.DefaultPageSize >= 1 && c.DefaultPageSize <= c.MaxPageSize,
		"default_page_size must be between 1 and max_page_size (%d), got %d", c.MaxPageSize, c.DefaultPageSize)

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Paginator returns the pagination policy described by the config.
func (c Config) Paginator() pagination.Paginator {
	return pagination.Paginator{
		Clock:        pagination.SystemClock,
		MaxAge:       c.CursorMaxAge,
		DefaultLimit: c.DefaultPageSize,
		MaxLimit:     c.MaxPageSize,
	}
}

// IsPostgres reports whether DatabaseURL selects the postgres driver.
func (c Config) IsPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
