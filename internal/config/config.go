package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	SchemaVersion   = 1
	DefaultPath     = "/etc/gohome/config.yaml"
	DefaultGRPCAddr = "0.0.0.0:9000"
	DefaultHTTPAddr = "0.0.0.0:8080"
	DefaultLogLevel = "info"
	DefaultLogFmt   = "json"

	DefaultDaichiBaseURL  = "https://web.daichicloud.ru/api/v4/"
	DefaultDaichiClientID = "sOJO7B6SqgaKudTfCzqLAy540cCuDzpI"
	DefaultDaichiTimeout  = 15 * time.Second
)

// Config is the hub configuration file.
type Config struct {
	SchemaVersion int          `yaml:"schema_version" env:"GOHOME_SCHEMA_VERSION"`
	Core          CoreConfig   `yaml:"core"`
	Daichi        DaichiConfig `yaml:"daichi"`
}

// CoreConfig holds listener and logging settings.
type CoreConfig struct {
	GRPCAddr     string `yaml:"grpc_addr" env:"GOHOME_GRPC_ADDR"`
	HTTPAddr     string `yaml:"http_addr" env:"GOHOME_HTTP_ADDR"`
	DashboardDir string `yaml:"dashboard_dir" env:"GOHOME_DASHBOARD_DIR"`
	LogLevel     string `yaml:"log_level" env:"GOHOME_LOG_LEVEL"`
	LogFormat    string `yaml:"log_format" env:"GOHOME_LOG_FORMAT"`
}

// DaichiConfig configures the Daichi plugin. Setting a username enables it.
type DaichiConfig struct {
	BaseURL      string        `yaml:"base_url" env:"GOHOME_DAICHI_BASE_URL"`
	Username     string        `yaml:"username" env:"GOHOME_DAICHI_USERNAME"`
	PasswordFile string        `yaml:"password_file" env:"GOHOME_DAICHI_PASSWORD_FILE"`
	ClientID     string        `yaml:"client_id" env:"GOHOME_DAICHI_CLIENT_ID"`
	Timeout      time.Duration `yaml:"timeout" env:"GOHOME_DAICHI_TIMEOUT"`
}

// Enabled reports whether the plugin is configured.
func (c DaichiConfig) Enabled() bool {
	return c.Username != ""
}

// Load reads the YAML config file with environment overrides, applies
// defaults, and validates.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Core.GRPCAddr == "" {
		cfg.Core.GRPCAddr = DefaultGRPCAddr
	}
	if cfg.Core.HTTPAddr == "" {
		cfg.Core.HTTPAddr = DefaultHTTPAddr
	}
	if cfg.Core.LogLevel == "" {
		cfg.Core.LogLevel = DefaultLogLevel
	}
	if cfg.Core.LogFormat == "" {
		cfg.Core.LogFormat = DefaultLogFmt
	}

	if !cfg.Daichi.Enabled() {
		return
	}
	if cfg.Daichi.BaseURL == "" {
		cfg.Daichi.BaseURL = DefaultDaichiBaseURL
	}
	if !strings.HasSuffix(cfg.Daichi.BaseURL, "/") {
		cfg.Daichi.BaseURL += "/"
	}
	if cfg.Daichi.ClientID == "" {
		cfg.Daichi.ClientID = DefaultDaichiClientID
	}
	if cfg.Daichi.Timeout == 0 {
		cfg.Daichi.Timeout = DefaultDaichiTimeout
	}
}

// Validate enforces required invariants beyond YAML typing.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if cfg.SchemaVersion != SchemaVersion {
		return fmt.Errorf("schema_version must be %d", SchemaVersion)
	}

	if cfg.Core.GRPCAddr == "" {
		return fmt.Errorf("core.grpc_addr is required")
	}
	if cfg.Core.HTTPAddr == "" {
		return fmt.Errorf("core.http_addr is required")
	}
	switch cfg.Core.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("core.log_format must be json or text, got %q", cfg.Core.LogFormat)
	}

	if cfg.Daichi.PasswordFile != "" && cfg.Daichi.Username == "" {
		return fmt.Errorf("daichi.username is required")
	}
	if cfg.Daichi.Enabled() {
		if cfg.Daichi.PasswordFile == "" {
			return fmt.Errorf("daichi.password_file is required")
		}
		if cfg.Daichi.Timeout < 0 {
			return fmt.Errorf("daichi.timeout must not be negative")
		}
	}

	return nil
}

// EnabledPlugins maps enabled plugin IDs based on config presence.
func EnabledPlugins(cfg *Config) map[string]bool {
	enabled := make(map[string]bool)
	if cfg == nil {
		return enabled
	}
	if cfg.Daichi.Enabled() {
		enabled["daichi"] = true
	}
	return enabled
}
