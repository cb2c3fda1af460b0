package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration.
type Config struct {
	// File is an optional YAML or TOML file applied over the environment.
	File string `envconfig:"CONFIG_FILE" yaml:"-" toml:"-"`

	Server     ServerConfig     `yaml:"server" toml:"server"`
	Logging    LogConfig        `yaml:"logging" toml:"logging"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit" toml:"rate_limit"`
	Filesystem FilesystemConfig `yaml:"filesystem" toml:"filesystem"`
	HTTP       HTTPConfig       `yaml:"http" toml:"http"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000" yaml:"port" toml:"port"`
	Host string `envconfig:"HOST" default:"0.0.0.0" yaml:"host" toml:"host"`
	// CORSOrigins lists allowed browser origins; "*" allows any.
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*" yaml:"cors_origins" toml:"cors_origins"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development" toml:"development"`
}

// RateLimitConfig holds per-client API rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" yaml:"rps" toml:"rps"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" yaml:"burst" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" yaml:"enabled" toml:"enabled"`
}

// FilesystemConfig confines and tunes the filesystem tools.
type FilesystemConfig struct {
	Root           string   `envconfig:"FS_ROOT" yaml:"root" toml:"root"`
	AllowTraversal bool     `envconfig:"FS_ALLOW_TRAVERSAL" default:"false" yaml:"allow_traversal" toml:"allow_traversal"`
	Deny           []string `envconfig:"FS_DENY" yaml:"deny" toml:"deny"`
	ArchiveNaming  string   `envconfig:"FS_ARCHIVE_NAMING" default:"flat" yaml:"archive_naming" toml:"archive_naming"`
}

// HTTPConfig configures the outbound HTTP client.
type HTTPConfig struct {
	Timeout         Duration `envconfig:"HTTP_TIMEOUT" default:"30s" yaml:"timeout" toml:"timeout"`
	DownloadTimeout Duration `envconfig:"HTTP_DOWNLOAD_TIMEOUT" default:"10s" yaml:"download_timeout" toml:"download_timeout"`
	UserAgent       string   `envconfig:"HTTP_USER_AGENT" default:"hafly-toolkit/1.0" yaml:"user_agent" toml:"user_agent"`
	VerifyTLS       bool     `envconfig:"HTTP_VERIFY_TLS" default:"true" yaml:"verify_tls" toml:"verify_tls"`
	Proxy           string   `envconfig:"HTTP_PROXY_URL" yaml:"proxy" toml:"proxy"`
	RetryMax        int      `envconfig:"HTTP_RETRY_MAX" default:"3" yaml:"retry_max" toml:"retry_max"`
	RateLimit       float64  `envconfig:"HTTP_RATE_LIMIT" default:"0" yaml:"rate_limit" toml:"rate_limit"`
}

// Duration is a time.Duration read from strings such as "30s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load reads the environment, then the optional config file.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.File != "" {
		if err := cfg.ApplyFile(cfg.File); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration or falls back to Default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Host:            "0.0.0.0",
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Logging: LogConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Filesystem: FilesystemConfig{
			ArchiveNaming: "flat",
		},
		HTTP: HTTPConfig{
			Timeout:         Duration(30 * time.Second),
			DownloadTimeout: Duration(10 * time.Second),
			UserAgent:       "hafly-toolkit/1.0",
			VerifyTLS:       true,
			RetryMax:        3,
		},
	}
}

// ApplyFile overlays values from a YAML (.yaml, .yml) or TOML (.toml)
// file. Keys absent from the file keep their current values.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	case ".toml":
		err = toml.Unmarshal(data, c)
	default:
		return fmt.Errorf("unsupported config file type %q", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
