package hook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/learning-layers/ldocs-updatetime/internal/config"
)

// Client calls a remote hook server.
type Client struct {
	// conn is the underlying gRPC connection to the hook server.
	conn *grpc.ClientConn
	// dialOptions are appended to the defaults used by Dial.
	dialOptions []grpc.DialOption

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for hook calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithDialOptions passes extra options to the gRPC client.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *Client) {
		c.dialOptions = append(c.dialOptions, opts...)
	}
}

var (
	// errAddressRequired is returned when the server address is missing.
	errAddressRequired = errors.New("address must be provided")
	// errHookRequired is returned when no hook name is given.
	errHookRequired = errors.New("hook must be provided")
)

// Dial creates a client for the hook server at address.
// The hook server listens on loopback, so the connection is not encrypted.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	client := &Client{
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	dialOptions := append(
		[]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())},
		client.dialOptions...,
	)

	conn, err := grpc.NewClient(address, dialOptions...)
	if err != nil {
		return nil, fmt.Errorf("dial hook server: %w", err)
	}

	client.conn = conn

	return client, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Invoke fires hook with hookCtx and reports whether the hook completed.
// hookCtx must be convertible by structpb.NewValue; nil sends no context.
func (c *Client) Invoke(ctx context.Context, hook string, hookCtx any) (bool, error) {
	if hook == "" {
		return false, errHookRequired
	}

	fields := map[string]any{
		fieldHook: hook,
	}
	if hookCtx != nil {
		fields[fieldContext] = hookCtx
	}

	req, err := structpb.NewStruct(fields)
	if err != nil {
		return false, fmt.Errorf("encode hook request: %w", err)
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(callCtx, InvokeFullMethod, req, resp); err != nil {
		return false, fmt.Errorf("invoke hook %s: %w", hook, err)
	}

	return resp.GetFields()[fieldCompleted].GetBoolValue(), nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
