package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks defaults and format validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(nil))

	// Empty config gets defaults.
	cfg := new(Config)
	require.NoError(t, Validate(cfg))
	require.Equal(t, Default(), cfg)

	// Bad listen address.
	cfg = &Config{ListenAddress: "bad:address"}
	require.Error(t, Validate(cfg))

	// Unknown log level.
	cfg = &Config{LogLevel: "chatty"}
	require.ErrorIs(t, Validate(cfg), errUnknownLogLevel)

	// Explicit values are kept.
	cfg = &Config{
		APIKeyFile:    "/etc/ldocs/key",
		ListenAddress: "127.0.0.1:0",
		LogLevel:      "debug",
		Timeout:       time.Second,
	}
	require.NoError(t, Validate(cfg))
	require.Equal(t, "/etc/ldocs/key", cfg.APIKeyFile)
	require.Equal(t, time.Second, cfg.Timeout)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg := &Config{
		APIKeyFile:    "key.txt",
		ListenAddress: "127.0.0.1:50051",
		LogLevel:      "warn",
		Timeout:       2 * time.Second,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoad_MissingExplicitFile fails when a named settings file does not exist.
func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestLoad_Malformed reports YAML errors.
func TestLoad_Malformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: [1"), DefaultFilePermissions))

	_, err := Load(path)
	require.Error(t, err)
}
