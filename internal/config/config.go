package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
// It is read-only after Load() returns and thread-safe for concurrent reads.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Storage    StorageConfig    `yaml:"storage"`
	Mail       MailConfig       `yaml:"mail"`
	Copywriter CopywriterConfig `yaml:"copywriter"`
	Auth       AuthConfig       `yaml:"auth"`
	Retention  RetentionConfig  `yaml:"retention"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// StorageConfig contains uploaded-image storage settings.
// An empty Bucket keeps uploads on the local filesystem.
type StorageConfig struct {
	Endpoint      string `yaml:"endpoint"`
	Bucket        string `yaml:"bucket"`
	Region        string `yaml:"region"`
	UseSSL        *bool  `yaml:"use_ssl"`
	PublicBaseURL string `yaml:"public_base_url"`
	LocalDir      string `yaml:"local_dir"`
	AccessKey     string `yaml:"-"` // env-only, never in YAML
	SecretKey     string `yaml:"-"` // env-only, never in YAML
}

// MailConfig contains email relay settings. The relay access key lives
// in the app_settings table, not here.
type MailConfig struct {
	Endpoint   string   `yaml:"endpoint"`
	FromName   string   `yaml:"from_name"`
	Timeout    Duration `yaml:"timeout"`
	MaxRetries int      `yaml:"max_retries"`
}

// CopywriterConfig contains generative description settings.
type CopywriterConfig struct {
	APIKey  string `yaml:"-"` // env-only, never in YAML
	Model   string `yaml:"model"`
	Company string `yaml:"company"`
}

// AuthConfig contains admin session settings.
type AuthConfig struct {
	SessionSecret string   `yaml:"-"` // env-only, never in YAML
	SessionTTL    Duration `yaml:"session_ttl"`
}

// RetentionConfig contains budget-request cleanup settings.
// A zero ContactedTTL disables the retention worker.
type RetentionConfig struct {
	ContactedTTL Duration `yaml:"contacted_ttl"`
	Interval     Duration `yaml:"interval"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Load loads configuration with precedence: defaults → YAML file → env vars.
// Returns an immutable Config suitable for concurrent read access.
func Load() (*Config, error) {
	cfg := newDefaults()

	configPath := getEnv("OBRA_CONFIG_PATH", "config/obra.yaml")

	// Missing file is not an error; defaults apply
	if err := loadYAMLFile(cfg, configPath); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific path.
// Used for testing and explicit path specification.
func LoadFromFile(path string) (*Config, error) {
	cfg := newDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newDefaults returns a Config with all default values.
func newDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(15 * time.Second),
		},
		Database: DatabaseConfig{
			Path: "data/obra.db",
		},
		Storage: StorageConfig{
			Region:   "us-east-1",
			LocalDir: "data/uploads",
		},
		Mail: MailConfig{
			Endpoint:   "https://api.web3forms.com/submit",
			FromName:   "RF Construções",
			Timeout:    Duration(10 * time.Second),
			MaxRetries: 2,
		},
		Copywriter: CopywriterConfig{
			Model:   "gpt-4o-mini",
			Company: "RF Construções",
		},
		Auth: AuthConfig{
			SessionTTL: Duration(12 * time.Hour),
		},
		Retention: RetentionConfig{
			ContactedTTL: 0,
			Interval:     Duration(24 * time.Hour),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// loadYAMLFile loads configuration from a YAML file if it exists.
func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) {
	// Server
	if v := os.Getenv("OBRA_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("OBRA_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = Duration(d)
		}
	}
	if v := os.Getenv("OBRA_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = Duration(d)
		}
	}
	if v := os.Getenv("OBRA_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ShutdownTimeout = Duration(d)
		}
	}

	// Database
	if v := os.Getenv("OBRA_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// Storage
	if v := os.Getenv("OBRA_S3_ENDPOINT"); v != "" {
		cfg.Storage.Endpoint = v
	}
	if v := os.Getenv("OBRA_S3_BUCKET"); v != "" {
		cfg.Storage.Bucket = v
	}
	if v := os.Getenv("OBRA_S3_REGION"); v != "" {
		cfg.Storage.Region = v
	}
	if v := os.Getenv("OBRA_S3_ACCESS_KEY"); v != "" {
		cfg.Storage.AccessKey = v
	}
	if v := os.Getenv("OBRA_S3_SECRET_KEY"); v != "" {
		cfg.Storage.SecretKey = v
	}
	if v := os.Getenv("OBRA_PUBLIC_BASE_URL"); v != "" {
		cfg.Storage.PublicBaseURL = v
	}
	if v := os.Getenv("OBRA_UPLOADS_DIR"); v != "" {
		cfg.Storage.LocalDir = v
	}

	// Mail
	if v := os.Getenv("OBRA_MAIL_ENDPOINT"); v != "" {
		cfg.Mail.Endpoint = v
	}
	if v := os.Getenv("OBRA_MAIL_FROM_NAME"); v != "" {
		cfg.Mail.FromName = v
	}
	if v := os.Getenv("OBRA_MAIL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Mail.Timeout = Duration(d)
		}
	}
	if v := os.Getenv("OBRA_MAIL_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Mail.MaxRetries = n
		}
	}

	// Copywriter (OPENAI_API_KEY is industry convention)
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Copywriter.APIKey = v
	}
	if v := os.Getenv("OBRA_COPYWRITER_MODEL"); v != "" {
		cfg.Copywriter.Model = v
	}
	if v := os.Getenv("OBRA_COMPANY_NAME"); v != "" {
		cfg.Copywriter.Company = v
	}

	// Auth
	if v := os.Getenv("OBRA_SESSION_SECRET"); v != "" {
		cfg.Auth.SessionSecret = v
	}
	if v := os.Getenv("OBRA_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Auth.SessionTTL = Duration(d)
		}
	}

	// Retention
	if v := os.Getenv("OBRA_RETENTION_CONTACTED_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Retention.ContactedTTL = Duration(d)
		}
	}
	if v := os.Getenv("OBRA_RETENTION_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Retention.Interval = Duration(d)
		}
	}

	// Log
	if v := os.Getenv("OBRA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("OBRA_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// validate checks that required configuration values are set.
// In dev mode (OBRA_DEV_MODE=true), secret validation is skipped.
func (c *Config) validate() error {
	if os.Getenv("OBRA_DEV_MODE") == "true" {
		return nil
	}

	if c.Auth.SessionSecret == "" {
		return errors.New("OBRA_SESSION_SECRET is required")
	}
	if c.Storage.Bucket != "" {
		if c.Storage.Endpoint == "" {
			return errors.New("storage endpoint is required when a bucket is configured")
		}
		if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
			return errors.New("OBRA_S3_ACCESS_KEY and OBRA_S3_SECRET_KEY are required when a bucket is configured")
		}
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
