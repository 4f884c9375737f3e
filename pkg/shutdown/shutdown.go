// Package shutdown runs ordered cleanup hooks when the live server stops.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/gabrielmiguelok/livesite/pkg/logging"
)

var (
	ErrShutdownTimeout = errors.New("shutdown timed out")
	ErrAlreadyClosed   = errors.New("shutdown handler already closed")
)

// Hook priorities, lower runs first.
const (
	PriorityHTTP    = 100
	PriorityWatcher = 150
	PrioritySockets = 200
	PriorityStore   = 300
	PriorityLast    = 1000
)

// Hook is one cleanup step.
type Hook struct {
	Name     string
	Priority int
	Fn       func(ctx context.Context) error
}

// Config configures the shutdown handler.
type Config struct {
	// Timeout bounds the whole shutdown.
	Timeout time.Duration

	// Signals trigger shutdown from Wait.
	Signals []os.Signal

	// Logger reports each hook.
	Logger logging.Logger
}

// DefaultConfig returns a 30s timeout listening for SIGINT and SIGTERM.
func DefaultConfig() Config {
	return Config{
		Timeout: 30 * time.Second,
		Signals: []os.Signal{os.Interrupt, syscall.SIGTERM},
		Logger:  logging.NopLogger{},
	}
}

// Handler collects hooks and runs them once.
type Handler struct {
	config Config
	hooks  []Hook
	done   chan struct{}
	closed bool
	mu     sync.Mutex
}

// NewHandler creates a handler. Zero config fields take their defaults.
func NewHandler(config Config) *Handler {
	def := DefaultConfig()
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	if len(config.Signals) == 0 {
		config.Signals = def.Signals
	}
	if config.Logger == nil {
		config.Logger = def.Logger
	}
	return &Handler{config: config, done: make(chan struct{})}
}

// Register adds a hook.
func (h *Handler) Register(hook Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

// RegisterFunc registers fn as a hook.
func (h *Handler) RegisterFunc(name string, priority int, fn func(ctx context.Context) error) {
	h.Register(Hook{Name: name, Priority: priority, Fn: fn})
}

// RegisterCloser registers anything with a Close method.
func (h *Handler) RegisterCloser(name string, priority int, c interface{ Close() error }) {
	h.RegisterFunc(name, priority, func(context.Context) error {
		return c.Close()
	})
}

// Wait blocks until ctx is cancelled or a configured signal arrives, then
// runs the hooks. It returns nil without running hooks if Shutdown was
// already called.
func (h *Handler) Wait(ctx context.Context) error {
	sigCtx, stop := signal.NotifyContext(ctx, h.config.Signals...)
	defer stop()

	select {
	case <-sigCtx.Done():
		h.config.Logger.Info("shutdown requested")
	case <-h.done:
		return nil
	}

	return h.Shutdown()
}

// Shutdown runs every hook in priority order. Hooks registered with equal
// priority run in registration order. A failing hook does not stop the
// others.
func (h *Handler) Shutdown() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrAlreadyClosed
	}
	h.closed = true
	close(h.done)
	hooks := slices.Clone(h.hooks)
	h.mu.Unlock()

	slices.SortStableFunc(hooks, func(a, b Hook) int {
		return a.Priority - b.Priority
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var errs []error
	for _, hook := range hooks {
		start := time.Now()
		err := hook.Fn(ctx)

		log := h.config.Logger.With(
			logging.String("hook", hook.Name),
			logging.Duration("duration", time.Since(start)),
		)
		if err != nil {
			log.Error("shutdown hook failed", logging.Err(err))
			errs = append(errs, fmt.Errorf("%s: %w", hook.Name, err))
		} else {
			log.Debug("shutdown hook completed")
		}

		if ctx.Err() != nil {
			return errors.Join(append(errs, ErrShutdownTimeout)...)
		}
	}

	return errors.Join(errs...)
}

// Done is closed once shutdown starts.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}

// IsClosed reports whether shutdown has started.
func (h *Handler) IsClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}
