package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/learning-layers/ldocs-updatetime/internal/logger"
)

// Config holds runtime settings for the ldocs-updatetime binaries.
type Config struct {
	// APIKeyFile is the path to the file holding the shared API key.
	APIKeyFile string `yaml:"api_key_file"`
	// ListenAddress is where the hook server accepts gRPC hook invocations.
	ListenAddress string `yaml:"listen_addr"`
	// LogLevel is the minimum level written to the console.
	LogLevel string `yaml:"log_level"`
	// Timeout bounds a single outbound notification.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "ldocs-updatetime.yaml"

	// DefaultAPIKeyFilename is where the pad host keeps the shared key.
	DefaultAPIKeyFilename = "APIKEY.txt"

	// DefaultListenAddress is the hook server address when none is configured.
	DefaultListenAddress = "127.0.0.1:9001"

	// DefaultLogLevel is used when log_level is empty.
	DefaultLogLevel = "info"

	// DefaultTimeout bounds a notification when timeout is unset.
	DefaultTimeout = 30 * time.Second

	// DefaultFilePermissions is the permission used for written settings.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownLogLevel is returned for log levels zap does not know.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Default returns settings with every field at its default.
func Default() *Config {
	return &Config{
		APIKeyFile:    DefaultAPIKeyFilename,
		ListenAddress: DefaultListenAddress,
		LogLevel:      DefaultLogLevel,
		Timeout:       DefaultTimeout,
	}
}

// Load reads settings from path and validates them.
// A missing file at the default path yields defaults, so the binaries
// run next to a bare APIKEY.txt.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && !explicit:
		return Default(), nil
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults and checks the remaining fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.APIKeyFile == "" {
		cfg.APIKeyFile = DefaultAPIKeyFilename
	}

	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, cfg.LogLevel)
	}

	return nil
}
