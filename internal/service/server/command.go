package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"

	api "github.com/learning-layers/ldocs-updatetime/internal/api/grpc/hook"
	"github.com/learning-layers/ldocs-updatetime/internal/config"
	"github.com/learning-layers/ldocs-updatetime/internal/logger"
	"github.com/learning-layers/ldocs-updatetime/internal/repository/credential"
	"github.com/learning-layers/ldocs-updatetime/internal/service/hook"
	"github.com/learning-layers/ldocs-updatetime/internal/service/notifier"
)

// Options controls the hook server process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ListenAddress overrides the listen address from the settings.
	ListenAddress string
	// APIKeyFile overrides the key file from the settings.
	APIKeyFile string
	// Ready, when set, receives the bound address once the server listens.
	Ready func(addr net.Addr)
}

// Run loads settings and the key, then serves hooks until ctx is canceled.
// A missing key file stops startup with an error.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "ldocs-hook-server")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	applyLogLevel(settings)

	if opts.APIKeyFile != "" {
		settings.APIKeyFile = opts.APIKeyFile
	}

	listenAddress := settings.ListenAddress
	if opts.ListenAddress != "" {
		listenAddress = opts.ListenAddress
	}

	registry, err := newRegistry(ctx, settings)
	if err != nil {
		return err
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer()
	api.RegisterHookServiceServer(grpcServer, api.NewServer(registry))

	logger.InfoKV(
		ctx,
		"Hook server listening",
		"listen_address", lis.Addr().String(),
		"hooks", registry.Names(),
		"endpoint", notifier.Endpoint(),
	)

	if opts.Ready != nil {
		opts.Ready(lis.Addr())
	}

	// Closed after GracefulStop so Run returns only once the server is down.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down hook server")
		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "Hook server stopped")

	return nil
}

// newRegistry loads the key once and registers the hooks served by this process.
func newRegistry(ctx context.Context, settings *config.Config) (*hook.Registry, error) {
	key, err := credential.NewFileSource(settings.APIKeyFile).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load api key: %w", err)
	}

	n, err := notifier.New(key, notifier.WithTimeout(settings.Timeout))
	if err != nil {
		return nil, fmt.Errorf("create notifier: %w", err)
	}

	registry := hook.NewRegistry()
	if err := registry.Register(hook.PadUpdateHook, hook.PadUpdate(n)); err != nil {
		return nil, fmt.Errorf("register %s: %w", hook.PadUpdateHook, err)
	}

	return registry, nil
}

// applyLogLevel switches the global logger to the configured level.
func applyLogLevel(settings *config.Config) {
	if level, ok := logger.ParseLogLevel(settings.LogLevel); ok {
		logger.SetLevel(level)
	}
}
