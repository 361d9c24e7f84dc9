package client

import (
	"context"
	"errors"
	"fmt"

	api "github.com/learning-layers/ldocs-updatetime/internal/api/grpc/hook"
	"github.com/learning-layers/ldocs-updatetime/internal/config"
	"github.com/learning-layers/ldocs-updatetime/internal/domain/notification"
	"github.com/learning-layers/ldocs-updatetime/internal/logger"
	"github.com/learning-layers/ldocs-updatetime/internal/repository/credential"
	"github.com/learning-layers/ldocs-updatetime/internal/service/notifier"
)

// Options configures a direct notification.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// APIKeyFile overrides the key file from the settings.
	APIKeyFile string
	// NoWait returns once the request is written, without waiting for the answer.
	NoWait bool
	// Strict turns an undelivered notification into an error.
	Strict bool

	// notifierOptions are appended when building the notifier.
	notifierOptions []notifier.Option
}

// InvokeOptions configures a remote hook invocation.
type InvokeOptions struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides the hook server address from the settings.
	ServerAddress string
	// Hook is the hook to fire.
	Hook string
}

var (
	// ErrNotDelivered is returned in strict mode when the API did not answer with JSON.
	ErrNotDelivered = errors.New("update notification not delivered")
	// errHookNotCompleted is returned when the server reports an unfinished hook.
	errHookNotCompleted = errors.New("hook did not complete")
)

// Run sends one update notification. Delivery failures are logged and,
// unless opts.Strict is set, not returned.
func Run(ctx context.Context, opts *Options) (notification.Result, error) {
	ctx = logger.WithName(ctx, "ldocs-notify")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return notification.Result{}, fmt.Errorf("load settings: %w", err)
	}

	if level, ok := logger.ParseLogLevel(settings.LogLevel); ok {
		logger.SetLevel(level)
	}

	keyFile := settings.APIKeyFile
	if opts.APIKeyFile != "" {
		keyFile = opts.APIKeyFile
	}

	key, err := credential.NewFileSource(keyFile).Load(ctx)
	if err != nil {
		return notification.Result{}, fmt.Errorf("load api key: %w", err)
	}

	notifierOptions := append([]notifier.Option{notifier.WithTimeout(settings.Timeout)}, opts.notifierOptions...)

	n, err := notifier.New(key, notifierOptions...)
	if err != nil {
		return notification.Result{}, fmt.Errorf("create notifier: %w", err)
	}

	delivery := n.Notify(ctx)

	if opts.NoWait {
		// The process exits when Run returns, so the request must be on the wire first.
		select {
		case <-delivery.Sent():
		case <-ctx.Done():
			return delivery.Result(), fmt.Errorf("wait for dispatch: %w", ctx.Err())
		}

		result := delivery.Result()
		logger.InfoKV(ctx, "Update notification dispatched", "request_id", delivery.ID(), "status", result.Status.String())

		return result, nil
	}

	result, err := delivery.Wait(ctx)
	if err != nil {
		return result, fmt.Errorf("wait for delivery: %w", err)
	}

	logger.InfoKV(ctx, "Update notification settled", "request_id", result.RequestID, "status", result.Status.String())

	if opts.Strict && !result.OK() {
		return result, fmt.Errorf("%w: %s: %w", ErrNotDelivered, result.Status, result.Err)
	}

	return result, nil
}

// Invoke fires a hook on a running hook server.
func Invoke(ctx context.Context, opts *InvokeOptions) error {
	ctx = logger.WithName(ctx, "ldocs-notify")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	serverAddress := settings.ListenAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	c, err := api.Dial(ctx, serverAddress, api.WithCallTimeout(settings.Timeout))
	if err != nil {
		return err
	}

	defer func() {
		_ = c.Close()
	}()

	completed, err := c.Invoke(ctx, opts.Hook, nil)
	if err != nil {
		return err
	}

	if !completed {
		return fmt.Errorf("%w: %s", errHookNotCompleted, opts.Hook)
	}

	logger.InfoKV(ctx, "Hook completed", "hook", opts.Hook, "server_address", serverAddress)

	return nil
}
