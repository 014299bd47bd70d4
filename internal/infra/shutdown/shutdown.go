package shutdown

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// DefaultTimeout bounds the total time spent in hooks.
const DefaultTimeout = 10 * time.Second

// Hook is a named cleanup step.
type Hook struct {
	Name string
	Fn   func(context.Context) error
}

// Handler collects hooks and runs them once.
type Handler struct {
	timeout time.Duration
	mu      sync.Mutex
	hooks   []Hook
	once    sync.Once
	err     error
	done    chan struct{}
}

// NewHandler creates a handler. A non-positive timeout uses DefaultTimeout.
func NewHandler(timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Handler{
		timeout: timeout,
		done:    make(chan struct{}),
	}
}

// OnShutdown registers a hook.
func (h *Handler) OnShutdown(name string, fn func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, Hook{Name: name, Fn: fn})
}

// NotifyContext returns a context cancelled on SIGINT or SIGTERM.
func (h *Handler) NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// Shutdown runs every hook in reverse order and returns their joined
// errors. Later calls return the first result.
func (h *Handler) Shutdown() error {
	h.once.Do(func() {
		defer close(h.done)

		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		h.mu.Lock()
		hooks := make([]Hook, len(h.hooks))
		copy(hooks, h.hooks)
		h.mu.Unlock()

		var errs []error
		for i := len(hooks) - 1; i >= 0; i-- {
			if err := hooks[i].Fn(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", hooks[i].Name, err))
			}
		}
		h.err = errors.Join(errs...)
	})
	return h.err
}

// Done is closed once Shutdown has finished.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
