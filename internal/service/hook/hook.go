package hook

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/learning-layers/ldocs-updatetime/internal/logger"
	"github.com/learning-layers/ldocs-updatetime/internal/service/notifier"
)

// PadUpdateHook is the name the pad host uses when a pad changes.
const PadUpdateHook = "padUpdate"

// Callback hands control back to the host.
type Callback func()

// Handler runs one hook invocation. It must call cb exactly once.
type Handler func(ctx context.Context, hookCtx any, cb Callback)

// Notifier dispatches update notifications.
type Notifier interface {
	Notify(ctx context.Context) *notifier.Delivery
}

var (
	// ErrUnknownHook is returned for names without a registered handler.
	ErrUnknownHook = errors.New("unknown hook")
	// errEmptyHookName is returned when registering a handler without a name.
	errEmptyHookName = errors.New("hook name must be provided")
	// errNilHandler is returned when registering a nil handler.
	errNilHandler = errors.New("hook handler must be provided")
)

// PadUpdate returns the handler reporting pad changes through n.
// The host context is ignored. The callback runs right after dispatch,
// before the API answers, and runs even if dispatching panics.
func PadUpdate(n Notifier) Handler {
	return func(ctx context.Context, _ any, cb Callback) {
		defer complete(cb)

		defer func() {
			if r := recover(); r != nil {
				logger.ErrorKV(ctx, "Pad update hook failed", "error", fmt.Sprint(r))
			}
		}()

		delivery := n.Notify(ctx)

		logger.DebugKV(ctx, "Pad update dispatched", "request_id", delivery.ID())
	}
}

// complete calls cb unless it is nil.
func complete(cb Callback) {
	if cb != nil {
		cb()
	}
}

// Registry is a concurrency-safe table of named hooks.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register adds or replaces the handler for name.
func (r *Registry) Register(name string, h Handler) error {
	if name == "" {
		return errEmptyHookName
	}

	if h == nil {
		return errNilHandler
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers[name] = h

	return nil
}

// Names returns the registered hook names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Invoke runs the handler registered under name.
// Unknown names return ErrUnknownHook and leave cb uncalled.
func (r *Registry) Invoke(ctx context.Context, name string, hookCtx any, cb Callback) error {
	r.mu.RLock()
	h, ok := r.handlers[name]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownHook, name)
	}

	h(logger.WithName(ctx, name), hookCtx, cb)

	return nil
}
