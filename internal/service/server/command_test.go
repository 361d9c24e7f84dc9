package server

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	api "github.com/learning-layers/ldocs-updatetime/internal/api/grpc/hook"
	"github.com/learning-layers/ldocs-updatetime/internal/config"
	"github.com/learning-layers/ldocs-updatetime/internal/repository/credential"
	"github.com/learning-layers/ldocs-updatetime/internal/service/hook"
)

// writeSettings stores settings pointing at keyPath and returns the settings path.
func writeSettings(t *testing.T, keyPath string) string {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, config.Save(cfgPath, &config.Config{
		APIKeyFile:    keyPath,
		ListenAddress: "127.0.0.1:0",
		Timeout:       200 * time.Millisecond,
	}))

	return cfgPath
}

// TestRun_MissingKeyFailsAtStartup refuses to start without the key file.
func TestRun_MissingKeyFailsAtStartup(t *testing.T) {
	t.Parallel()

	cfgPath := writeSettings(t, filepath.Join(t.TempDir(), "APIKEY.txt"))

	err := Run(context.Background(), &Options{ConfigPath: cfgPath})
	require.ErrorIs(t, err, credential.ErrNotFound)
}

// TestRun_ServesPadUpdate starts the server, fires the hook over gRPC and shuts down on cancel.
func TestRun_ServesPadUpdate(t *testing.T) {
	t.Parallel()

	keyPath := filepath.Join(t.TempDir(), "APIKEY.txt")
	require.NoError(t, os.WriteFile(keyPath, []byte("s3cret"), 0o600))

	cfgPath := writeSettings(t, keyPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan net.Addr, 1)
	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, &Options{
			ConfigPath: cfgPath,
			Ready: func(addr net.Addr) {
				ready <- addr
			},
		})
	}()

	var addr net.Addr
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("server exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	c, err := api.Dial(ctx, addr.String(), api.WithCallTimeout(3*time.Second))
	require.NoError(t, err)

	defer func() {
		_ = c.Close()
	}()

	// The API is not running; the hook still completes.
	completed, err := c.Invoke(ctx, hook.PadUpdateHook, nil)
	require.NoError(t, err)
	require.True(t, completed)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
