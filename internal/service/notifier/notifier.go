package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/learning-layers/ldocs-updatetime/internal/config"
	"github.com/learning-layers/ldocs-updatetime/internal/domain/notification"
	"github.com/learning-layers/ldocs-updatetime/internal/logger"
)

const (
	// EndpointHost is the host of the Living Documents API.
	EndpointHost = "localhost"
	// EndpointPort is the HTTPS port of the Living Documents API.
	EndpointPort = "9000"
	// EndpointPath receives pad update notifications.
	EndpointPath = "/api/documentEtherpadInfo/etherpad/update"

	contentType = "application/json; charset=utf-8"

	// maxResponseBytes is the largest response body accepted.
	maxResponseBytes = 1 << 20
)

var (
	// errPanicked wraps a panic recovered while sending.
	errPanicked = errors.New("notification panicked")
	// errTimeout marks requests aborted by the notifier's timeout.
	errTimeout = errors.New("notification timed out")
	// errResponseTooLarge rejects bodies over maxResponseBytes.
	errResponseTooLarge = errors.New("response too large")
)

// Endpoint returns the URL notifications are posted to.
func Endpoint() string {
	endpoint := url.URL{
		Scheme: "https",
		Host:   net.JoinHostPort(EndpointHost, EndpointPort),
		Path:   EndpointPath,
	}

	return endpoint.String()
}

// Notifier posts pad update notifications.
type Notifier struct {
	// key is loaded once at startup and sent with every notification.
	key notification.APIKey
	// client sends the requests.
	client *http.Client
	// transportConfig is the TLS behaviour bound to client.
	transportConfig TransportConfig
	// roundTripper replaces the built transport when set.
	roundTripper http.RoundTripper
	// timeout aborts a request that has not completed in time.
	timeout time.Duration
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithTimeout sets how long a single notification may take.
func WithTimeout(timeout time.Duration) Option {
	return func(n *Notifier) {
		if timeout > 0 {
			n.timeout = timeout
		}
	}
}

// WithTransportConfig overrides the TLS behaviour derived from the endpoint.
func WithTransportConfig(cfg TransportConfig) Option {
	return func(n *Notifier) {
		n.transportConfig = cfg
	}
}

// WithTransport sends requests through rt instead of a built HTTPS transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(n *Notifier) {
		n.roundTripper = rt
	}
}

// New creates a notifier authenticating with key.
func New(key notification.APIKey, opts ...Option) (*Notifier, error) {
	n := &Notifier{
		key:             key,
		transportConfig: DefaultTransportConfig(),
		timeout:         config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(n)
	}

	rt := n.roundTripper
	if rt == nil {
		transport, err := newTransport(n.transportConfig)
		if err != nil {
			return nil, err
		}

		rt = transport
	}

	n.client = &http.Client{Transport: rt}

	return n, nil
}

// TransportConfig returns the TLS behaviour every call of n uses.
func (n *Notifier) TransportConfig() TransportConfig {
	return n.transportConfig
}

// Notify dispatches one update notification and returns without waiting for
// the response. Failures are logged and recorded on the Delivery, never returned.
// Cancelling ctx after Notify returns does not abort the request.
func (n *Notifier) Notify(ctx context.Context) *Delivery {
	delivery := newDelivery(uuid.NewString())

	ctx = logger.WithKV(context.WithoutCancel(ctx), "request_id", delivery.ID())

	request := notification.NewRequest(n.key)

	body, err := json.Marshal(request)
	if err != nil {
		err = fmt.Errorf("encode notification: %w", err)
		logger.ErrorKV(ctx, "Failed to build update notification", "error", err)
		delivery.settle(notification.Result{Status: notification.StatusTransportFailed, Err: err})

		return delivery
	}

	logger.DebugKV(
		ctx,
		"Dispatching update notification",
		"endpoint", Endpoint(),
		"author_id", request.AuthorID,
		"pad_id", request.PadID,
	)

	go n.send(ctx, delivery, body)

	return delivery
}

// send runs one request to completion and settles delivery.
func (n *Notifier) send(ctx context.Context, delivery *Delivery, body []byte) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", errPanicked, r)
			logger.ErrorKV(ctx, "Update notification failed", "error", err)
			delivery.settle(notification.Result{Status: notification.StatusTransportFailed, Err: err})
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	delivery.settle(n.post(callCtx, delivery, body))
}

// post sends body and interprets the response.
// delivery is marked sent once the request has been written to the connection.
func (n *Notifier) post(ctx context.Context, delivery *Delivery, body []byte) notification.Result {
	trace := &httptrace.ClientTrace{
		WroteRequest: func(info httptrace.WroteRequestInfo) {
			if info.Err == nil {
				delivery.markSent()
			}
		},
	}

	ctx = httptrace.WithClientTrace(ctx, trace)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, Endpoint(), bytes.NewReader(body))
	if err != nil {
		return n.failed(ctx, fmt.Errorf("create request: %w", err))
	}

	req.ContentLength = int64(len(body))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "*/*")

	resp, err := n.client.Do(req)
	if err != nil {
		return n.failed(ctx, fmt.Errorf("perform request: %w", err))
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		result := n.failed(ctx, fmt.Errorf("read response: %w", err))
		result.StatusCode = resp.StatusCode

		return result
	}

	if len(raw) > maxResponseBytes {
		err = fmt.Errorf("%w: more than %d bytes", errResponseTooLarge, maxResponseBytes)
		logger.ErrorKV(ctx, "Update notification response too large", "status_code", resp.StatusCode, "error", err)

		return notification.Result{
			Status:     notification.StatusMalformedResponse,
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	parsed, err := parseResponse(raw)
	if err != nil {
		logger.ErrorKV(ctx, "Update notification answered with non-JSON body", "status_code", resp.StatusCode, "error", err)

		return notification.Result{
			Status:     notification.StatusMalformedResponse,
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	logger.InfoKV(ctx, "Update notification answered", "status_code", resp.StatusCode, "response", parsed)

	return notification.Result{
		Status:     notification.StatusDelivered,
		StatusCode: resp.StatusCode,
		Body:       parsed,
	}
}

// failed logs err as a timeout or a transport failure.
func (n *Notifier) failed(ctx context.Context, err error) notification.Result {
	if isTimeout(ctx, err) {
		logger.WarnKV(ctx, "timeout", "timeout", n.timeout.String())

		return notification.Result{
			Status: notification.StatusTimedOut,
			Err:    fmt.Errorf("%w after %s: %w", errTimeout, n.timeout, err),
		}
	}

	logger.ErrorKV(ctx, "Update notification failed", "error", err)

	return notification.Result{
		Status: notification.StatusTransportFailed,
		Err:    err,
	}
}

// parseResponse decodes any JSON value, objects and scalars alike.
func parseResponse(raw []byte) (any, error) {
	var value structpb.Value
	if err := protojson.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return value.AsInterface(), nil
}

// isTimeout reports whether err comes from the request deadline.
func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}
