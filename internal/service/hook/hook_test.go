package hook

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/learning-layers/ldocs-updatetime/internal/service/notifier"
)

// roundTripFunc adapts a function to http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls f.
func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// panickingNotifier fails while dispatching.
type panickingNotifier struct{}

// Notify panics.
func (panickingNotifier) Notify(context.Context) *notifier.Delivery {
	panic("dispatch exploded")
}

// recordingNotifier wraps a real notifier and keeps the last delivery.
type recordingNotifier struct {
	inner *notifier.Notifier
	last  atomic.Pointer[notifier.Delivery]
}

// Notify dispatches through the wrapped notifier.
func (r *recordingNotifier) Notify(ctx context.Context) *notifier.Delivery {
	d := r.inner.Notify(ctx)
	r.last.Store(d)

	return d
}

// newRecordingNotifier builds a notifier sending through rt.
func newRecordingNotifier(t *testing.T, rt http.RoundTripper, opts ...notifier.Option) *recordingNotifier {
	t.Helper()

	n, err := notifier.New("k", append(opts, notifier.WithTransport(rt))...)
	require.NoError(t, err)

	return &recordingNotifier{inner: n}
}

// answer replies with body.
func answer(body string) roundTripFunc {
	return func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    r,
		}, nil
	}
}

// TestPadUpdate_CallbackOncePerOutcome checks the callback fires exactly once whatever the network does.
func TestPadUpdate_CallbackOncePerOutcome(t *testing.T) {
	t.Parallel()

	transports := map[string]roundTripFunc{
		"delivered": answer(`{"status":"ok"}`),
		"malformed": answer("not-json"),
		"refused": func(*http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		},
		"timeout": func(r *http.Request) (*http.Response, error) {
			<-r.Context().Done()

			return nil, r.Context().Err()
		},
	}

	for name, rt := range transports {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			n := newRecordingNotifier(t, rt, notifier.WithTimeout(20*time.Millisecond))

			var calls atomic.Int32

			PadUpdate(n)(context.Background(), map[string]any{"pad": "ignored"}, func() {
				calls.Add(1)
			})

			require.Equal(t, int32(1), calls.Load())

			delivery := n.last.Load()
			require.NotNil(t, delivery)

			select {
			case <-delivery.Done():
			case <-time.After(5 * time.Second):
				t.Fatal("delivery did not settle")
			}

			require.Equal(t, int32(1), calls.Load())
		})
	}
}

// TestPadUpdate_CallbackBeforeResponse shows completion is signalled on dispatch.
func TestPadUpdate_CallbackBeforeResponse(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	defer close(release)

	n := newRecordingNotifier(t, roundTripFunc(func(r *http.Request) (*http.Response, error) {
		<-release

		return answer(`{}`)(r)
	}))

	called := false

	PadUpdate(n)(context.Background(), nil, func() {
		called = true
	})

	require.True(t, called)
	require.False(t, n.last.Load().Result().OK())
}

// TestPadUpdate_SwallowsPanics keeps dispatch failures away from the host.
func TestPadUpdate_SwallowsPanics(t *testing.T) {
	t.Parallel()

	var calls int

	require.NotPanics(t, func() {
		PadUpdate(panickingNotifier{})(context.Background(), nil, func() {
			calls++
		})
	})

	require.Equal(t, 1, calls)
}

// TestPadUpdate_NilCallback tolerates hosts that pass no callback.
func TestPadUpdate_NilCallback(t *testing.T) {
	t.Parallel()

	n := newRecordingNotifier(t, answer(`{}`))

	require.NotPanics(t, func() {
		PadUpdate(n)(context.Background(), nil, nil)
	})
}

// TestRegistry_RegisterValidates rejects unnamed and nil handlers.
func TestRegistry_RegisterValidates(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	require.ErrorIs(t, r.Register("", PadUpdate(panickingNotifier{})), errEmptyHookName)
	require.ErrorIs(t, r.Register(PadUpdateHook, nil), errNilHandler)
	require.Empty(t, r.Names())
}

// TestRegistry_Invoke runs registered hooks and rejects unknown names.
func TestRegistry_Invoke(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	var seen []string

	require.NoError(t, r.Register("b", func(_ context.Context, hookCtx any, cb Callback) {
		seen = append(seen, "b:"+hookCtx.(string))
		cb()
	}))
	require.NoError(t, r.Register("a", func(_ context.Context, _ any, cb Callback) {
		seen = append(seen, "a")
		cb()
	}))

	require.Equal(t, []string{"a", "b"}, r.Names())

	var calls int

	require.NoError(t, r.Invoke(context.Background(), "b", "ctx", func() { calls++ }))
	require.Equal(t, []string{"b:ctx"}, seen)
	require.Equal(t, 1, calls)

	err := r.Invoke(context.Background(), "padCreate", nil, func() { calls++ })
	require.ErrorIs(t, err, ErrUnknownHook)
	require.Equal(t, 1, calls)
}
